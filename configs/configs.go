// Package configs embeds the configuration templates shipped with the
// binary. The init command writes ProjectConfigTemplate as
// .txtsearch.yaml; UserConfigTemplate documents the machine-level
// config at ~/.txtsearch/config.yaml.
package configs

import _ "embed"

// ProjectConfigTemplate is the commented project-level template,
// written by `txtsearch init` into the directory being indexed.
//
//go:embed project-config.example.yaml
var ProjectConfigTemplate string

// UserConfigTemplate is the commented machine-level template for
// ~/.txtsearch/config.yaml.
//
//go:embed user-config.example.yaml
var UserConfigTemplate string
