package config

import (
	"os"
	"path/filepath"
)

// configNames are tried in order inside each candidate directory.
var configNames = []string{"nidsmon.yaml", "nidsmon.yml", "nidsmon.json"}

// DefaultConfigPath returns the first existing config file among the working
// directory, $XDG_CONFIG_HOME/nidsmon and ~/.config/nidsmon, or "" when none
// exists.
func DefaultConfigPath() string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "nidsmon"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		dirs = append(dirs, filepath.Join(home, ".config", "nidsmon"))
	}
	for _, d := range dirs {
		for _, n := range configNames {
			p := filepath.Join(d, n)
			if isFile(p) {
				return p
			}
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
