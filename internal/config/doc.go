// Package config holds psiscan's settings: defaults, validation, and the
// optional YAML configuration file.
package config
