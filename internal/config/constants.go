// Package config carries the small set of process-wide constants and
// build-time variables the rest of the module reaches for by name,
// mirroring how the ambient configuration of a CLI tool is usually kept:
// one place, no magic strings scattered through call sites.
package config

// Version is the inferencer's version string, set at build time via
// -ldflags (e.g. -X github.com/nbtschema/inferencer/internal/config.Version=1.2.0).
var Version = "0.1.0"

// DefaultPinsFile is the pins configuration looked for next to the
// analyzed archive when the driver isn't told a specific path.
const DefaultPinsFile = "nbtschema-pins.yaml"

// DefaultCacheDBFile is the sqlite database file name used when the
// persistent class-bytes cache is enabled without an explicit path.
const DefaultCacheDBFile = ".nbtschema-classcache.db"
