// Package config provides configuration for the arcade server.
//
// Two sources are handled here:
//   - ServerConfig, read from ARCADE_* and NGROK_* environment variables
//   - game presets (number ranges, memory grid sides, snake layout), built in
//     and optionally overridden by a YAML file
//
// Presets file format:
//
//	number_ranges:
//	  easy: {min: 1, max: 30}
//	max_attempts: 8
//	memory_sides:
//	  hard: 10
//	snake:
//	  grid_size: 24
//
// Keys left out of the file keep their built-in values. The merged result
// is validated with engine.ValidatePresets before it is used.
//
// Usage:
//
//	manager, err := config.NewManager(os.Getenv("ARCADE_PRESETS_FILE"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	presets := manager.Presets()
package config
