// Package config loads, normalizes, and validates stl2scc configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/stl2scc/config.toml or a
// project-local stl2scc.toml. ConvertOptions resolves the input, output and
// sanitize sections into the options the converter consumes, so every
// enumerated value is checked in one place.
package config
