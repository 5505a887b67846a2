// Package denoise strips high-churn, regenerable fields from tag trees before
// export and reinserts safe defaults on restore, so committed diffs carry only
// semantic changes.
//
// All operations are pure tree mutations with no I/O. Removing an absent key
// and inserting over an existing key are both silently absorbed; nothing in
// this package can fail.
package denoise

import "github.com/voxelfs/regiontext/nbt"

// ChunkConfig lists the chunk-level fields to strip.
type ChunkConfig struct {
	// Fields are removed from every exported chunk when denoising is on.
	Fields []string `toml:"fields"`
	// AggressiveFields are additionally removed in aggressive mode, at the
	// cost of in-game recomputation on load.
	AggressiveFields []string `toml:"aggressive_fields"`
}

// LevelConfig lists the level-metadata fields to strip.
type LevelConfig struct {
	Fields []string `toml:"fields"`
	// ResetWeather forces the raining/thundering flags to zero instead of
	// leaving whatever state the save carried.
	ResetWeather bool `toml:"reset_weather"`
}

// Config is the denoise field table, loaded once per run and shared read-only
// across workers.
type Config struct {
	Chunk ChunkConfig `toml:"chunk"`
	Level LevelConfig `toml:"level"`
}

// sectionAggressiveFields are stripped from each section compound in
// aggressive mode. The light data is fully regenerable; isLightOn is restored
// as zero so the game recomputes it.
var sectionAggressiveFields = [...]string{"BlockLight", "SkyLight"}

// Default returns the built-in field tables. The configuration schema is the
// single source of truth for these lists; loading a config file replaces them
// wholesale.
func Default() Config {
	return Config{
		Chunk: ChunkConfig{
			Fields: []string{
				"LastUpdate",
				"InhabitedTime",
				"blending_data",
				"PostProcessing",
				"isLightOn",
			},
			AggressiveFields: []string{"Heightmaps"},
		},
		Level: LevelConfig{
			Fields: []string{
				"Time",
				"DayTime",
				"LastPlayed",
				"thunderTime",
				"rainTime",
				"clearWeatherTime",
				"WanderingTraderSpawnChance",
				"WanderingTraderSpawnDelay",
				"WanderingTraderId",
				"ServerBrands",
				"WasModded",
			},
			ResetWeather: true,
		},
	}
}

// Chunk strips the configured chunk-level fields from root in place. In
// aggressive mode the aggressive field group is removed as well, along with
// the per-section light data under "sections".
func Chunk(root nbt.Compound, aggressive bool, cfg Config) {
	if root == nil {
		return
	}

	for _, field := range cfg.Chunk.Fields {
		delete(root, field)
	}
	if !aggressive {
		return
	}

	for _, field := range cfg.Chunk.AggressiveFields {
		delete(root, field)
	}
	for _, section := range root.GetList("sections") {
		sec, ok := section.(nbt.Compound)
		if !ok {
			continue
		}
		for _, field := range sectionAggressiveFields {
			delete(sec, field)
		}
	}
}

// Level strips the configured fields from the "Data" compound of level
// metadata in place, and force-resets the weather flags when configured.
// A root without a "Data" compound is left untouched.
func Level(root nbt.Compound, cfg Config) {
	data := root.GetCompound("Data")
	if data == nil {
		return
	}

	for _, field := range cfg.Level.Fields {
		delete(data, field)
	}
	if cfg.Level.ResetWeather {
		data["raining"] = nbt.Byte(0)
		data["thundering"] = nbt.Byte(0)
	}
}

// RestoreDefaults fills gaps left by denoising: zero timestamps and a cleared
// light-readiness flag, inserted only where absent so values that were never
// stripped survive untouched.
func RestoreDefaults(root nbt.Compound) {
	if root == nil {
		return
	}

	insertMissing(root, "LastUpdate", nbt.Long(0))
	insertMissing(root, "InhabitedTime", nbt.Long(0))
	// isLightOn=0 makes the game recompute lighting, which aggressive mode
	// may have stripped.
	insertMissing(root, "isLightOn", nbt.Byte(0))
}

func insertMissing(c nbt.Compound, key string, v nbt.Tag) {
	if _, exists := c[key]; !exists {
		c[key] = v
	}
}
