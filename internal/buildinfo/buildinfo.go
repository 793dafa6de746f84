package buildinfo

import "runtime"

// Injectées via -ldflags, par exemple :
//
//	-X github.com/Guilhem-Bonnet/study-schedule/internal/buildinfo.Version=v0.1.0
//	-X github.com/Guilhem-Bonnet/study-schedule/internal/buildinfo.Commit=abcdef
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"goVersion"`
}

func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
}
