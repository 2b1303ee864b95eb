// Package buildinfo reports which objectgraph build is running.
//
// Release builds set the variables via ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/objectgraph/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/objectgraph/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/objectgraph/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries installed with go install carry no ldflags; [Get] then falls back
// to the module version and VCS stamps recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	devVersion = "dev"
	unknown    = "unknown"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = devVersion

	// Commit is the git commit SHA.
	Commit = unknown

	// Date is the build timestamp.
	Date = unknown
)

// Info is the resolved build information of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
	Modified  bool   `json:"modified,omitempty"`
}

// Get resolves build information. Values set via ldflags win over those
// read from the embedded module build info.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(Version, Commit, Date, bi)
}

func resolve(version, commit, date string, bi *debug.BuildInfo) Info {
	info := Info{Version: version, Commit: commit, Date: date, GoVersion: runtime.Version()}
	if bi == nil {
		return info
	}
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}
	if info.Version == devVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == unknown {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns the commit abbreviated to 12 characters, with a
// "-dirty" suffix for builds from a modified work tree.
func (i Info) ShortCommit() string {
	c := i.Commit
	if len(c) > 12 {
		c = c[:12]
	}
	if i.Modified {
		c += "-dirty"
	}
	return c
}

func (i Info) details() string {
	return fmt.Sprintf("commit: %s\nbuilt: %s\ngo: %s", i.ShortCommit(), i.Date, i.GoVersion)
}

// String formats i as printed by "objectgraph version".
func (i Info) String() string {
	return fmt.Sprintf("version: %s\n%s", i.Version, i.details())
}

// String returns the formatted build information of the running binary.
func String() string {
	return Get().String()
}

// Template returns the version template for cobra. The command's Version
// field supplies the version.
func Template() string {
	return "{{.Name}} version {{.Version}}\n" + Get().details() + "\n"
}
