// Package config loads, normalizes, and validates menusample configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HF_TOKEN for the inference endpoint. The Config type centralizes every knob
// the pipeline and CLI need.
package config
