// Package config loads the YAML settings file (.bop.yaml) that tells bop where
// the version header and changelog live and how releases are committed.
package config
