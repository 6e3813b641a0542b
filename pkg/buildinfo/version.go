// Package buildinfo reports the clustermap version shown by
// `clustermap --version` and attached to debug logs.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/clustermap
//
// Binaries built with `go install` carry no ldflags; their version and VCS
// stamp are read from the embedded module build info instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}
}

// fromBuildInfo fills the variables still at their defaults.
func fromBuildInfo(info *debug.BuildInfo) {
	if v := info.Main.Version; Version == "dev" && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
