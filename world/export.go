package world

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/voxelfs/regiontext/codec"
	"github.com/voxelfs/regiontext/compress"
	"github.com/voxelfs/regiontext/denoise"
	"github.com/voxelfs/regiontext/internal/logctx"
	"github.com/voxelfs/regiontext/jsondoc"
	"github.com/voxelfs/regiontext/nbt"
	"github.com/voxelfs/regiontext/region"
)

// Export converts the save at worldPath into JSON slices under outPath.
//
// Level metadata is exported first; a failure there aborts the run. Region
// containers are then converted in parallel, one task per container, and a
// container failure only loses that container. An existing destination is
// rejected unless opts.Overwrite is set, in which case only the artifacts a
// previous export produced are cleared first.
func Export(ctx context.Context, worldPath, outPath string, opts ExportOptions) error {
	log := logctx.FromContext(ctx)

	if _, err := os.Stat(outPath); err == nil {
		if !opts.Overwrite {
			return fmt.Errorf("destination %s already exists", outPath)
		}
		if err := clearExportArtifacts(outPath); err != nil {
			return fmt.Errorf("clear destination: %w", err)
		}
	}
	if err := os.MkdirAll(outPath, 0o755); err != nil {
		return err
	}

	if levelPath := filepath.Join(worldPath, "level.dat"); fileExists(levelPath) {
		size, digest, err := exportLevel(levelPath, filepath.Join(outPath, "level.json"), opts)
		if err != nil {
			return fmt.Errorf("export level metadata: %w", err)
		}
		log.Info().Int("bytes", size).Uint64("xxh64", digest).Msg("exported level metadata")
	}

	for _, dim := range Dimensions {
		regionDir := dim.regionDir(worldPath)
		if !dirExists(regionDir) {
			continue
		}

		entries, err := os.ReadDir(regionDir)
		if err != nil {
			return err
		}

		var tasks []task
		outDir := filepath.Join(outPath, dim.Folder, "region")
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				continue
			}
			cx, cz, ok := region.ParseFilename(name)
			if !ok {
				log.Debug().Str("dimension", dim.Name).Str("file", name).Msg("skipping non-container file")
				continue
			}

			src := filepath.Join(regionDir, name)
			tasks = append(tasks, task{
				name: fmt.Sprintf("export %s/%s", dim.Name, name),
				run: func() error {
					return exportRegion(ctx, src, outDir, cx, cz, opts)
				},
			})
		}
		if len(tasks) == 0 {
			continue
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}

		log.Info().Str("dimension", dim.Name).Int("containers", len(tasks)).Msg("exporting dimension")
		runTasks(ctx, opts.Workers, tasks)
	}

	return nil
}

// clearExportArtifacts removes only the outputs an export produces: the level
// metadata file and the per-dimension region directories. Anything else in
// the destination, such as version control metadata, is left alone.
func clearExportArtifacts(outPath string) error {
	if err := os.Remove(filepath.Join(outPath, "level.json")); err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, dim := range Dimensions {
		if err := os.RemoveAll(dim.regionDir(outPath)); err != nil {
			return err
		}
	}

	return nil
}

// exportRegion converts one container file into slice files under outDir.
func exportRegion(ctx context.Context, src, outDir string, cx, cz int32, opts ExportOptions) error {
	log := logctx.FromContext(ctx)

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	records, err := region.Decode(data, func(d region.Diag) {
		log.Warn().
			Str("container", filepath.Base(src)).
			Int("slot", d.Slot).
			Int32("x", d.X).
			Int32("z", d.Z).
			Err(d.Err).
			Msg("skipping unreadable record")
	})
	if err != nil {
		return err
	}

	var chunks [][]byte
	for _, rec := range records {
		if !chunkComplete(rec.Data) {
			continue
		}
		if opts.Denoise {
			denoise.Chunk(rec.Data, opts.Aggressive, opts.Fields)
		}

		doc, ok := codec.Encode(rec.Data).(jsondoc.Object)
		if !ok {
			return fmt.Errorf("chunk (%d, %d): root did not encode to an object", rec.X, rec.Z)
		}
		doc["x"] = jsondoc.FromInt(int64(rec.X))
		doc["z"] = jsondoc.FromInt(int64(rec.Z))

		pruneSections(doc)
		pruneEmpty(doc)
		if opts.SkipEmptyChunks && !hasChunkData(doc) {
			continue
		}

		serialized, err := jsondoc.Marshal(doc)
		if err != nil {
			return fmt.Errorf("chunk (%d, %d): serialize: %w", rec.X, rec.Z, err)
		}
		chunks = append(chunks, serialized)
	}
	if len(chunks) == 0 {
		return nil
	}

	for idx, slice := range packSlices(chunks, MaxSliceSize) {
		path := filepath.Join(outDir, sliceFilename(cx, cz, idx))
		size, digest, err := writeSlice(path, slice)
		if err != nil {
			return err
		}
		log.Debug().
			Str("file", filepath.Base(path)).
			Int("chunks", len(slice)).
			Int("bytes", size).
			Uint64("xxh64", digest).
			Msg("wrote slice")
	}

	return nil
}

// chunkComplete reports whether a chunk finished generation. Partially
// generated chunks churn on every world load and are not worth tracking.
func chunkComplete(root nbt.Compound) bool {
	status, ok := root.GetString("Status")
	if !ok {
		return false
	}

	return status == "minecraft:full" || status == "full"
}

// exportLevel converts the gzip-wrapped level metadata into a pretty-printed
// JSON document, recording the wrapping so restore can reapply it. It returns
// the written size and an xxhash digest of the content.
func exportLevel(src, dst string, opts ExportOptions) (int, uint64, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return 0, 0, err
	}

	data, err := compress.GzipCodec{}.Decompress(raw)
	if err != nil {
		return 0, 0, fmt.Errorf("decompress level metadata: %w", err)
	}
	root, err := nbt.Unmarshal(data)
	if err != nil {
		return 0, 0, fmt.Errorf("parse level metadata: %w", err)
	}

	if opts.Denoise {
		denoise.Level(root, opts.Fields)
	}

	doc := jsondoc.Object{
		"_gzip": jsondoc.FromInt(1),
		"_data": codec.Encode(root),
	}
	out, err := jsondoc.MarshalIndent(doc)
	if err != nil {
		return 0, 0, err
	}
	out = append(out, '\n')

	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return 0, 0, err
	}

	return len(out), xxhash.Sum64(out), nil
}
