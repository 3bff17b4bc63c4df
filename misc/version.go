// Package misc keeps program identity which is set at build time.
package misc

// Set with -ldflags "-X mdjs/misc.version=... -X mdjs/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "mdjs"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
