// Package cli implements the regiontext command line: export, restore, clone
// and config subcommands sharing a common flag and logging setup.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxelfs/regiontext/config"
	"github.com/voxelfs/regiontext/internal/logctx"
	"github.com/voxelfs/regiontext/world"
)

const usageText = `Usage: regiontext <command> [flags] <args>

Commands:
  export   <world>          convert a save into a JSON directory
  restore  <json-dir>       convert a JSON directory back into a save
  clone    <world> <dest>   copy a save through an export/restore cycle
  config   [path]           write the default configuration file

Run 'regiontext <command> -h' for command flags.
`

// Run dispatches the command line. args excludes the program name.
func Run(args []string, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)

		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "export":
		return runExport(args[1:], stderr)
	case "restore":
		return runRestore(args[1:], stderr)
	case "clone":
		return runClone(args[1:], stderr)
	case "config":
		return runConfig(args[1:], stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stderr, usageText)

		return nil
	default:
		fmt.Fprint(stderr, usageText)

		return fmt.Errorf("unknown command %q", args[0])
	}
}

// commonFlags are shared by every converting subcommand.
type commonFlags struct {
	configPath string
	debug      bool
	console    bool
	workers    int
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "explicit configuration file path")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	fs.BoolVar(&c.console, "console", false, "human-friendly log output")
	fs.IntVar(&c.workers, "workers", 0, "worker pool size (0 = auto)")
}

// setup resolves configuration and builds the logging context.
func (c *commonFlags) setup() (context.Context, config.Config, error) {
	cfg := config.Load()
	if c.configPath != "" {
		loaded, err := config.LoadFile(c.configPath)
		if err != nil {
			return nil, config.Config{}, err
		}
		cfg = loaded
	}

	logger := logctx.New(c.debug, c.console)
	ctx := logctx.WithLogger(context.Background(), logger)

	return ctx, cfg, nil
}

func runExport(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	output := fs.String("output", "", "destination directory (default <world>_json)")
	overwrite := fs.Bool("overwrite", false, "replace an existing destination's export artifacts")
	noDenoise := fs.Bool("no-denoise", false, "keep high-churn fields")
	aggressive := fs.Bool("aggressive", false, "also strip the aggressive field group")
	keepEmpty := fs.Bool("keep-empty-chunks", false, "keep chunks with no sections or block entities")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()

		return fmt.Errorf("export expects exactly one world directory")
	}

	ctx, cfg, err := common.setup()
	if err != nil {
		return err
	}

	worldPath := filepath.Clean(fs.Arg(0))
	dest := *output
	if dest == "" {
		dest = worldPath + "_json"
	}

	opts := world.ExportOptions{
		Denoise:         cfg.Export.Denoise && !*noDenoise,
		Aggressive:      cfg.Export.Aggressive || *aggressive,
		SkipEmptyChunks: cfg.Export.SkipEmptyChunks && !*keepEmpty,
		Overwrite:       *overwrite,
		Workers:         common.workers,
		Fields:          cfg.Denoise,
	}

	return world.Export(ctx, worldPath, dest, opts)
}

func runRestore(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	output := fs.String("output", "", "destination directory (default <json-dir>_restored)")
	noDefaults := fs.Bool("no-restore-defaults", false, "do not reinsert defaults for stripped fields")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()

		return fmt.Errorf("restore expects exactly one JSON directory")
	}

	ctx, cfg, err := common.setup()
	if err != nil {
		return err
	}

	jsonPath := filepath.Clean(fs.Arg(0))
	dest := *output
	if dest == "" {
		dest = defaultRestoreDest(jsonPath)
	}

	opts := world.RestoreOptions{
		RestoreDefaults: cfg.Restore.RestoreDefaults && !*noDefaults,
		Workers:         common.workers,
	}

	return world.Restore(ctx, jsonPath, dest, opts)
}

// defaultRestoreDest derives the restore destination: the exporter's _json
// suffix is swapped for _restored when present, otherwise _restored is
// appended.
func defaultRestoreDest(jsonPath string) string {
	if base := strings.TrimSuffix(jsonPath, "_json"); base != jsonPath {
		return base + "_restored"
	}

	return jsonPath + "_restored"
}

func runClone(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("clone", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	jsonDir := fs.String("json-dir", "", "keep the intermediate JSON export here")
	noDenoise := fs.Bool("no-denoise", false, "keep high-churn fields")
	aggressive := fs.Bool("aggressive", false, "also strip the aggressive field group")
	noDefaults := fs.Bool("no-restore-defaults", false, "do not reinsert defaults for stripped fields")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()

		return fmt.Errorf("clone expects a world directory and a destination")
	}

	ctx, cfg, err := common.setup()
	if err != nil {
		return err
	}

	exp := world.ExportOptions{
		Denoise:         cfg.Export.Denoise && !*noDenoise,
		Aggressive:      cfg.Export.Aggressive || *aggressive,
		SkipEmptyChunks: cfg.Export.SkipEmptyChunks,
		Workers:         common.workers,
		Fields:          cfg.Denoise,
	}
	res := world.RestoreOptions{
		RestoreDefaults: cfg.Restore.RestoreDefaults && !*noDefaults,
		Workers:         common.workers,
	}

	return world.Clone(ctx, filepath.Clean(fs.Arg(0)), filepath.Clean(fs.Arg(1)), *jsonDir, exp, res)
}

func runConfig(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "overwrite an existing file")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()

		return fmt.Errorf("config expects at most one path")
	}

	path := config.LocalName
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}

	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", path)
	}

	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "wrote %s\n", path)

	return nil
}
