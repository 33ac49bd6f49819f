package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is set at build time with -ldflags "-X github.com/cloudposse/capnp-import/pkg/version.Version=...".
var Version = "test"

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	OS        string `json:"os" yaml:"os"`
	Arch      string `json:"arch" yaml:"arch"`
	Revision  string `json:"revision,omitempty" yaml:"revision,omitempty"`
}

// Get returns the build information. Revision comes from the VCS stamp when present.
func Get() Info {
	info := Info{
		Version:   Version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				info.Revision = s.Value
			}
		}
	}
	return info
}

func (i Info) String() string {
	return fmt.Sprintf("capnp-import %s on %s/%s (%s)", i.Version, i.OS, i.Arch, i.GoVersion)
}
