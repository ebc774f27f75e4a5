// Package misc holds build identification of the program.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "anyhover"

// Set with -ldflags "-X anyhover/misc.version=... -X anyhover/misc.gitHash=..."
var (
	version = ""
	gitHash = ""
)

var buildInfo = sync.OnceValues(func() (string, string) {
	ver, hash := version, gitHash
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return orDefault(ver, "dev"), orDefault(hash, "unknown")
	}
	if ver == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		ver = bi.Main.Version
	}
	if hash == "" {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				hash = s.Value
				break
			}
		}
	}
	return orDefault(ver, "dev"), orDefault(hash, "unknown")
})

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func GetAppName() string {
	return appName
}

func GetVersion() string {
	ver, _ := buildInfo()
	return ver
}

func GetGitHash() string {
	_, hash := buildInfo()
	return hash
}
