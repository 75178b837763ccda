// Package dirs names the on-disk locations the CLI and server front
// ends agree on: where runtime state (server registry, session traces)
// lives, relative to the working directory a `fungen` invocation runs
// from.
package dirs

// StateDir is the root directory for all fungen runtime state files
// (server registry file, generation session traces), relative to the
// working directory.
const StateDir = "._fungen_state"

// ConfigFile is the conventional per-project config file path, relative
// to the working directory (see internal/config.LoadConfig).
const ConfigFile = "./.fungen.yaml"
