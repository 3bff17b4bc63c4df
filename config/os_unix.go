//go:build !windows

package config

import "os"

const (
	forbiddenChars  = "/:"
	trimLeadingDots = true
)

func enableVirtualTerminal(*os.File) bool {
	return true
}
