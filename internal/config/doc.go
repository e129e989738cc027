// Package config loads, normalizes, and validates recorder configuration data.
//
// The defaults reproduce the fixed well-known locations the launcher relies on
// (PID marker, frame source, encoder binary) and the capture timings of the
// recording pipeline. A TOML file can override them for packaging and tests;
// on the device no file is normally present and Default is used as-is.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, positive timings, and clear validation errors.
package config
