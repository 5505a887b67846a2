package world

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/voxelfs/regiontext/codec"
	"github.com/voxelfs/regiontext/compress"
	"github.com/voxelfs/regiontext/denoise"
	"github.com/voxelfs/regiontext/internal/logctx"
	"github.com/voxelfs/regiontext/jsondoc"
	"github.com/voxelfs/regiontext/nbt"
	"github.com/voxelfs/regiontext/region"
)

// Restore converts the JSON export at jsonPath back into a save at outPath.
//
// Level metadata is restored first; a failure there aborts the run. Slice
// files are then grouped by container coordinates and each group becomes one
// parallel task rebuilding one container file. A group failure only loses
// that container.
func Restore(ctx context.Context, jsonPath, outPath string, opts RestoreOptions) error {
	log := logctx.FromContext(ctx)

	if err := os.MkdirAll(outPath, 0o755); err != nil {
		return err
	}

	if levelJSON := filepath.Join(jsonPath, "level.json"); fileExists(levelJSON) {
		size, digest, err := restoreLevel(levelJSON, filepath.Join(outPath, "level.dat"))
		if err != nil {
			return fmt.Errorf("restore level metadata: %w", err)
		}
		log.Info().Int("bytes", size).Uint64("xxh64", digest).Msg("restored level metadata")
	}

	for _, dim := range Dimensions {
		jsonDir := dim.regionDir(jsonPath)
		if !dirExists(jsonDir) {
			continue
		}

		entries, err := os.ReadDir(jsonDir)
		if err != nil {
			return err
		}

		groups := make(map[[2]int32][]string)
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				continue
			}
			cx, cz, ok := parseSliceFilename(name)
			if !ok {
				log.Debug().Str("dimension", dim.Name).Str("file", name).Msg("skipping non-slice file")
				continue
			}
			key := [2]int32{cx, cz}
			groups[key] = append(groups[key], filepath.Join(jsonDir, name))
		}
		if len(groups) == 0 {
			continue
		}

		outDir := dim.regionDir(outPath)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}

		var tasks []task
		for _, key := range sortedGroupKeys(groups) {
			cx, cz := key[0], key[1]
			files := groups[key]
			sort.Strings(files)
			tasks = append(tasks, task{
				name: fmt.Sprintf("restore %s/%s", dim.Name, region.Filename(cx, cz)),
				run: func() error {
					return restoreGroup(ctx, cx, cz, files, outDir, opts)
				},
			})
		}

		log.Info().Str("dimension", dim.Name).Int("containers", len(tasks)).Msg("restoring dimension")
		runTasks(ctx, opts.Workers, tasks)
	}

	return nil
}

// sortedGroupKeys orders slice groups by coordinates so task scheduling is
// deterministic.
func sortedGroupKeys(groups map[[2]int32][]string) [][2]int32 {
	keys := make([][2]int32, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}

		return keys[i][1] < keys[j][1]
	})

	return keys
}

// restoreGroup rebuilds one container file from its slice files.
func restoreGroup(ctx context.Context, cx, cz int32, files []string, outDir string, opts RestoreOptions) error {
	log := logctx.FromContext(ctx)

	var records []region.Record
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		doc, err := jsondoc.Unmarshal(content)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		obj, ok := doc.(jsondoc.Object)
		if !ok {
			return fmt.Errorf("%s: slice root is not an object", filepath.Base(path))
		}
		chunks, ok := obj["chunks"].(jsondoc.Array)
		if !ok {
			return fmt.Errorf("%s: missing chunks array", filepath.Base(path))
		}

		for _, chunkDoc := range chunks {
			rec, err := restoreChunk(chunkDoc, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil
	}

	data, err := region.Encode(records)
	if err != nil {
		return err
	}

	path := filepath.Join(outDir, region.Filename(cx, cz))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Debug().
		Str("file", filepath.Base(path)).
		Int("records", len(records)).
		Int("bytes", len(data)).
		Uint64("xxh64", xxhash.Sum64(data)).
		Msg("wrote container")

	return nil
}

// restoreChunk turns one chunk document back into a container record. The
// coordinate keys the exporter injected are consumed here and never reach
// the tag tree.
func restoreChunk(v jsondoc.Value, opts RestoreOptions) (region.Record, error) {
	obj, ok := v.(jsondoc.Object)
	if !ok {
		return region.Record{}, fmt.Errorf("chunk entry is not an object")
	}

	x, err := chunkCoord(obj, "x")
	if err != nil {
		return region.Record{}, err
	}
	z, err := chunkCoord(obj, "z")
	if err != nil {
		return region.Record{}, err
	}
	delete(obj, "x")
	delete(obj, "z")

	tag, err := codec.Decode(obj)
	if err != nil {
		return region.Record{}, fmt.Errorf("chunk (%d, %d): %w", x, z, err)
	}
	root, ok := tag.(nbt.Compound)
	if !ok {
		return region.Record{}, fmt.Errorf("chunk (%d, %d): root is not a compound", x, z)
	}

	if opts.RestoreDefaults {
		denoise.RestoreDefaults(root)
	}

	return region.Record{X: x, Z: z, Data: root}, nil
}

func chunkCoord(obj jsondoc.Object, key string) (int32, error) {
	n, ok := obj[key].(jsondoc.Number)
	if !ok {
		return 0, fmt.Errorf("chunk missing %s coordinate", key)
	}
	v, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("chunk %s coordinate: %w", key, err)
	}

	return int32(v), nil
}

// restoreLevel turns the level metadata document back into its gzip-wrapped
// binary form. It returns the written size and an xxhash digest of the
// content.
func restoreLevel(src, dst string) (int, uint64, error) {
	content, err := os.ReadFile(src)
	if err != nil {
		return 0, 0, err
	}

	doc, err := jsondoc.Unmarshal(content)
	if err != nil {
		return 0, 0, err
	}
	obj, ok := doc.(jsondoc.Object)
	if !ok {
		return 0, 0, fmt.Errorf("level document root is not an object")
	}
	data, ok := obj["_data"]
	if !ok {
		return 0, 0, fmt.Errorf("level document missing _data")
	}

	tag, err := codec.Decode(data)
	if err != nil {
		return 0, 0, err
	}
	root, ok := tag.(nbt.Compound)
	if !ok {
		return 0, 0, fmt.Errorf("level data is not a compound")
	}

	raw, err := nbt.Marshal(root)
	if err != nil {
		return 0, 0, err
	}
	wrapped, err := compress.GzipCodec{}.Compress(raw)
	if err != nil {
		return 0, 0, err
	}
	if err := os.WriteFile(dst, wrapped, 0o644); err != nil {
		return 0, 0, err
	}

	return len(wrapped), xxhash.Sum64(wrapped), nil
}
