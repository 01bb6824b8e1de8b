// Package utils provides small helpers shared across the CLI.
package utils

import (
	"os"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde and any environment variables in path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		path = s
	}
	return os.ExpandEnv(path)
}
