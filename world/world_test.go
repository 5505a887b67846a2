package world

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxelfs/regiontext/compress"
	"github.com/voxelfs/regiontext/denoise"
	"github.com/voxelfs/regiontext/nbt"
	"github.com/voxelfs/regiontext/region"
)

func fullChunk(x, z int32) nbt.Compound {
	return nbt.Compound{
		"Status": nbt.String("minecraft:full"),
		"xPos":   nbt.Int(x),
		"zPos":   nbt.Int(z),
		"sections": nbt.List{
			nbt.Compound{
				"Y": nbt.Byte(0),
				"block_states": nbt.Compound{
					"palette": nbt.List{nbt.Compound{"Name": nbt.String("minecraft:stone")}},
					"data":    nbt.LongArray{1, 2, 3},
				},
			},
		},
	}
}

func writeContainer(t *testing.T, dir string, cx, cz int32, records []region.Record) {
	t.Helper()
	data, err := region.Encode(records)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, region.Filename(cx, cz)), data, 0o644))
}

func writeLevelDat(t *testing.T, worldDir string, root nbt.Compound) {
	t.Helper()
	raw, err := nbt.Marshal(root)
	require.NoError(t, err)
	wrapped, err := compress.GzipCodec{}.Compress(raw)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(worldDir, "level.dat"), wrapped, 0o644))
}

func buildWorld(t *testing.T) string {
	t.Helper()
	worldDir := t.TempDir()

	writeLevelDat(t, worldDir, nbt.Compound{
		"Data": nbt.Compound{
			"LevelName": nbt.String("fixture"),
			"Time":      nbt.Long(9999),
		},
	})

	writeContainer(t, filepath.Join(worldDir, "region"), 0, 0, []region.Record{
		{X: 0, Z: 0, Data: fullChunk(0, 0)},
		{X: 5, Z: 7, Data: fullChunk(5, 7)},
		{X: 1, Z: 0, Data: nbt.Compound{"Status": nbt.String("minecraft:features")}},
	})
	writeContainer(t, filepath.Join(worldDir, "DIM-1", "region"), 1, -1, []region.Record{
		{X: 2, Z: 3, Data: fullChunk(2, 3)},
	})

	return worldDir
}

func plainOptions() (ExportOptions, RestoreOptions) {
	exp := ExportOptions{
		SkipEmptyChunks: true,
		Fields:          denoise.Default(),
	}
	res := RestoreOptions{}

	return exp, res
}

func TestExportRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	worldDir := buildWorld(t)
	jsonDir := filepath.Join(t.TempDir(), "json")
	outDir := filepath.Join(t.TempDir(), "restored")

	exp, res := plainOptions()
	require.NoError(t, Export(ctx, worldDir, jsonDir, exp))

	require.FileExists(t, filepath.Join(jsonDir, "level.json"))
	require.FileExists(t, filepath.Join(jsonDir, "region", "r.0.0.0.json"))
	require.FileExists(t, filepath.Join(jsonDir, "DIM-1", "region", "r.1.-1.0.json"))

	require.NoError(t, Restore(ctx, jsonDir, outDir, res))

	levelRaw, err := os.ReadFile(filepath.Join(outDir, "level.dat"))
	require.NoError(t, err)
	levelData, err := compress.GzipCodec{}.Decompress(levelRaw)
	require.NoError(t, err)
	levelRoot, err := nbt.Unmarshal(levelData)
	require.NoError(t, err)
	require.Equal(t, nbt.Compound{
		"Data": nbt.Compound{
			"LevelName": nbt.String("fixture"),
			"Time":      nbt.Long(9999),
		},
	}, levelRoot)

	data, err := os.ReadFile(filepath.Join(outDir, "region", "r.0.0.mca"))
	require.NoError(t, err)
	records, err := region.Decode(data, nil)
	require.NoError(t, err)

	// The incomplete chunk was dropped on export.
	require.Len(t, records, 2)
	byPos := map[[2]int32]nbt.Compound{}
	for _, rec := range records {
		byPos[[2]int32{rec.X, rec.Z}] = rec.Data
	}
	require.Equal(t, fullChunk(0, 0), byPos[[2]int32{0, 0}])
	require.Equal(t, fullChunk(5, 7), byPos[[2]int32{5, 7}])

	nether, err := os.ReadFile(filepath.Join(outDir, "DIM-1", "region", "r.1.-1.mca"))
	require.NoError(t, err)
	netherRecords, err := region.Decode(nether, nil)
	require.NoError(t, err)
	require.Len(t, netherRecords, 1)
	require.Equal(t, fullChunk(2, 3), netherRecords[0].Data)
}

func TestExportDenoiseAndRestoreDefaults(t *testing.T) {
	ctx := context.Background()
	worldDir := t.TempDir()

	chunk := fullChunk(0, 0)
	chunk["LastUpdate"] = nbt.Long(424242)
	chunk["InhabitedTime"] = nbt.Long(77)
	writeContainer(t, filepath.Join(worldDir, "region"), 0, 0, []region.Record{
		{X: 0, Z: 0, Data: chunk},
	})

	jsonDir := filepath.Join(t.TempDir(), "json")
	outDir := filepath.Join(t.TempDir(), "restored")

	exp, res := plainOptions()
	exp.Denoise = true
	res.RestoreDefaults = true
	require.NoError(t, Export(ctx, worldDir, jsonDir, exp))
	require.NoError(t, Restore(ctx, jsonDir, outDir, res))

	data, err := os.ReadFile(filepath.Join(outDir, "region", "r.0.0.mca"))
	require.NoError(t, err)
	records, err := region.Decode(data, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Stripped on export, reinserted as a zeroed default on restore.
	require.Equal(t, nbt.Long(0), records[0].Data["LastUpdate"])
	require.Equal(t, nbt.Long(0), records[0].Data["InhabitedTime"])
	require.Equal(t, nbt.Byte(0), records[0].Data["isLightOn"])
}

func TestExportSkipsEmptyChunks(t *testing.T) {
	ctx := context.Background()
	worldDir := t.TempDir()

	empty := nbt.Compound{
		"Status": nbt.String("minecraft:full"),
		"sections": nbt.List{
			nbt.Compound{
				"Y": nbt.Byte(0),
				"block_states": nbt.Compound{
					"palette": nbt.List{nbt.Compound{"Name": nbt.String("minecraft:air")}},
				},
			},
		},
	}
	writeContainer(t, filepath.Join(worldDir, "region"), 0, 0, []region.Record{
		{X: 0, Z: 0, Data: empty},
	})

	jsonDir := filepath.Join(t.TempDir(), "json")
	exp, _ := plainOptions()
	require.NoError(t, Export(ctx, worldDir, jsonDir, exp))

	// Everything in the container pruned away, so no slice is written.
	require.NoFileExists(t, filepath.Join(jsonDir, "region", "r.0.0.0.json"))
}

func TestExportOverwriteGuard(t *testing.T) {
	ctx := context.Background()
	worldDir := buildWorld(t)

	jsonDir := t.TempDir()
	stray := filepath.Join(jsonDir, "README.md")
	require.NoError(t, os.WriteFile(stray, []byte("notes\n"), 0o644))

	exp, _ := plainOptions()
	require.Error(t, Export(ctx, worldDir, jsonDir, exp), "existing destination needs overwrite")

	exp.Overwrite = true
	require.NoError(t, Export(ctx, worldDir, jsonDir, exp))
	require.FileExists(t, stray, "unrelated files survive an overwrite")
	require.FileExists(t, filepath.Join(jsonDir, "region", "r.0.0.0.json"))
}

func TestRestoreRejectsChunkWithoutCoordinates(t *testing.T) {
	ctx := context.Background()
	jsonDir := t.TempDir()
	regionDir := filepath.Join(jsonDir, "region")
	require.NoError(t, os.MkdirAll(regionDir, 0o755))

	slice := []byte("{\"chunks\":[\n{\"Status\":\"minecraft:full\"}\n]}\n")
	require.NoError(t, os.WriteFile(filepath.Join(regionDir, "r.0.0.0.json"), slice, 0o644))

	// The group task fails and is logged, but the run itself completes and
	// simply produces no container.
	outDir := filepath.Join(t.TempDir(), "out")
	_, res := plainOptions()
	require.NoError(t, Restore(ctx, jsonDir, outDir, res))
	require.NoFileExists(t, filepath.Join(outDir, "region", "r.0.0.mca"))
}

func TestCloneRoundTrip(t *testing.T) {
	ctx := context.Background()
	worldDir := buildWorld(t)
	dstDir := filepath.Join(t.TempDir(), "copy")

	exp, res := plainOptions()
	require.NoError(t, Clone(ctx, worldDir, dstDir, "", exp, res))

	data, err := os.ReadFile(filepath.Join(dstDir, "region", "r.0.0.mca"))
	require.NoError(t, err)
	records, err := region.Decode(data, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.Error(t, Clone(ctx, worldDir, dstDir, "", exp, res), "existing destination is refused")
}

func TestCloneKeepsRequestedJSONDir(t *testing.T) {
	ctx := context.Background()
	worldDir := buildWorld(t)
	keep := filepath.Join(t.TempDir(), "kept-json")
	dstDir := filepath.Join(t.TempDir(), "copy")

	exp, res := plainOptions()
	require.NoError(t, Clone(ctx, worldDir, dstDir, keep, exp, res))
	require.FileExists(t, filepath.Join(keep, "region", "r.0.0.0.json"))
}

func TestRunTasksFailureIsolation(t *testing.T) {
	var ran atomic.Int32
	tasks := []task{
		{name: "a", run: func() error { ran.Add(1); return nil }},
		{name: "b", run: func() error { ran.Add(1); return errors.New("boom") }},
		{name: "c", run: func() error { ran.Add(1); return nil }},
	}

	runTasks(context.Background(), 2, tasks)
	require.Equal(t, int32(3), ran.Load(), "a failing task never cancels its siblings")
}
