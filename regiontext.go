// Package regiontext converts world saves between their binary on-disk layout
// and a stable, diff-friendly JSON layout, so a save can live in version
// control as reviewable text.
//
// An export walks every dimension's region directory, decodes each
// sector-addressed container, converts each complete chunk's tag tree to a
// JSON document and writes the documents as line-per-chunk slice files capped
// at 8 MiB of chunk data each. Level metadata is exported alongside. A
// restore reverses the whole trip and produces a playable save again.
//
// The conversion is deterministic: object keys are sorted, numeric literals
// keep their integer-or-float spelling, and binary payloads are base64 with a
// fixed byte order. Exporting the same world twice yields identical bytes, so
// diffs show real world changes only.
//
// # Basic Usage
//
// Exporting a save and restoring it:
//
//	import "github.com/voxelfs/regiontext"
//
//	ctx := context.Background()
//	if err := regiontext.ExportWorld(ctx, "saves/myworld", "saves/myworld_json"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := regiontext.RestoreWorld(ctx, "saves/myworld_json", "saves/myworld_restored"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers with the built-in
// defaults. For fine-grained control over denoising, pruning and parallelism,
// use the world, region, codec and nbt packages directly.
package regiontext

import (
	"context"

	"github.com/voxelfs/regiontext/config"
	"github.com/voxelfs/regiontext/world"
)

// ExportWorld converts the save at worldPath into JSON slices under outPath
// using the built-in defaults: denoising on, aggressive off, empty chunks
// skipped.
func ExportWorld(ctx context.Context, worldPath, outPath string) error {
	return world.Export(ctx, worldPath, outPath, defaultExportOptions())
}

// RestoreWorld converts the JSON export at jsonPath back into a save at
// outPath using the built-in defaults: stripped fields get safe defaults
// reinserted.
func RestoreWorld(ctx context.Context, jsonPath, outPath string) error {
	return world.Restore(ctx, jsonPath, outPath, defaultRestoreOptions())
}

// CloneWorld copies the save at srcPath to dstPath through a full
// export/restore cycle, normalizing and denoising it in one step.
func CloneWorld(ctx context.Context, srcPath, dstPath string) error {
	return world.Clone(ctx, srcPath, dstPath, "", defaultExportOptions(), defaultRestoreOptions())
}

func defaultExportOptions() world.ExportOptions {
	cfg := config.Default()

	return world.ExportOptions{
		Denoise:         cfg.Export.Denoise,
		Aggressive:      cfg.Export.Aggressive,
		SkipEmptyChunks: cfg.Export.SkipEmptyChunks,
		Fields:          cfg.Denoise,
	}
}

func defaultRestoreOptions() world.RestoreOptions {
	return world.RestoreOptions{
		RestoreDefaults: config.Default().Restore.RestoreDefaults,
	}
}
