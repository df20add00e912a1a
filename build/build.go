package build

import "runtime/debug"

// Set through -ldflags "-X github.com/breez/clnconf/build.tag=..." when
// packaging.
var (
	tag      string
	revision string
)

// GetRevision returns the linked revision, or the vcs revision the binary
// was built from with a -dirty suffix for modified trees.
func GetRevision() string {
	if revision != "" {
		return revision
	}

	rev, ok := setting("vcs.revision")
	if !ok {
		return "unknown"
	}
	if modified, _ := setting("vcs.modified"); modified == "true" {
		rev += "-dirty"
	}
	return rev
}

// GetTag returns the linked tag, or the module version when installed with
// go install.
func GetTag() string {
	if tag != "" {
		return tag
	}

	info, ok := debug.ReadBuildInfo()
	if ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "none"
}

// Version is the string reported by --version.
func Version() string {
	return GetTag() + " commit=" + GetRevision()
}

func setting(key string) (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value, true
		}
	}
	return "", false
}
