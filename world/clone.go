package world

import (
	"context"
	"fmt"
	"os"
)

// Clone copies a save by pushing it through a full export and restore, which
// also normalizes and denoises it in one step. When keepJSON is non-empty
// the intermediate JSON export is written there and kept; otherwise it lives
// in a temporary directory that is removed afterwards.
func Clone(ctx context.Context, srcPath, dstPath, keepJSON string, exp ExportOptions, res RestoreOptions) error {
	if _, err := os.Stat(dstPath); err == nil {
		return fmt.Errorf("destination %s already exists", dstPath)
	}

	jsonDir := keepJSON
	if jsonDir == "" {
		tmp, err := os.MkdirTemp("", "regiontext-clone-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		jsonDir = tmp
		exp.Overwrite = true // the fresh temp dir already exists
	}

	if err := Export(ctx, srcPath, jsonDir, exp); err != nil {
		return fmt.Errorf("clone export: %w", err)
	}
	if err := Restore(ctx, jsonDir, dstPath, res); err != nil {
		return fmt.Errorf("clone restore: %w", err)
	}

	return nil
}
