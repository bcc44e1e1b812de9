//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import "os"

func readSecretLine(_ *os.File) (string, error) {
	return "", errNotTerminal
}
