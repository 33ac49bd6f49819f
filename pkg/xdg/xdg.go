// Package xdg locates per-user directories following the XDG Base Directory conventions.
package xdg

import (
	"os"
	"path/filepath"

	adrg "github.com/adrg/xdg"
)

const appName = "capnp-import"

// ConfigHomeOverride takes precedence over XDG_CONFIG_HOME for this tool only.
const ConfigHomeOverride = "CAPNP_IMPORT_XDG_CONFIG_HOME"

// ConfigDir returns the tool's config directory without creating it.
// Environment variables are read on every call so tests can change them.
func ConfigDir() string {
	return filepath.Join(configHome(), appName)
}

func configHome() string {
	if dir := os.Getenv(ConfigHomeOverride); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return adrg.ConfigHome
}
