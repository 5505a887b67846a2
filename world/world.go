// Package world orchestrates whole-world conversion: exporting region
// containers and level metadata into version-control-friendly JSON slices,
// and restoring those slices back into a playable save.
//
// Each region container (export) or slice group (restore) is an independent
// task. Tasks run on a bounded worker pool; a task failure is logged with its
// coordinates and never aborts its siblings.
package world

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/voxelfs/regiontext/denoise"
)

// Dimension names a world subfolder holding a region directory. An empty
// folder is the default dimension at the world root.
type Dimension struct {
	Folder string
	Name   string
}

// Dimensions lists the subfolders scanned on export and restore, in a fixed
// order. Missing subfolders are skipped silently.
var Dimensions = []Dimension{
	{Folder: "", Name: "overworld"},
	{Folder: "DIM-1", Name: "nether"},
	{Folder: "DIM1", Name: "end"},
}

// regionDir resolves a dimension's region directory under root.
func (d Dimension) regionDir(root string) string {
	if d.Folder == "" {
		return filepath.Join(root, "region")
	}

	return filepath.Join(root, d.Folder, "region")
}

// ExportOptions carries the resolved export settings. The denoise field
// tables are loaded once and shared read-only across workers.
type ExportOptions struct {
	// Denoise strips the configured high-churn fields before encoding.
	Denoise bool
	// Aggressive additionally strips the aggressive field group.
	Aggressive bool
	// SkipEmptyChunks drops chunks with no sections and no block entities
	// left after pruning.
	SkipEmptyChunks bool
	// Overwrite permits exporting into an existing destination; only the
	// artifacts the exporter owns are removed first.
	Overwrite bool
	// Workers bounds the worker pool; zero selects the default.
	Workers int
	// Fields is the denoise field table.
	Fields denoise.Config
}

// RestoreOptions carries the resolved restore settings.
type RestoreOptions struct {
	// RestoreDefaults reinserts safe defaults for fields denoising removed.
	RestoreDefaults bool
	// Workers bounds the worker pool; zero selects the default.
	Workers int
}

// defaultWorkers caps parallelism; each task already streams a whole
// container through compression.
func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}

	return n
}

func dirExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
