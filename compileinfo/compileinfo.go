// Package compileinfo reports what a qtlscan binary was built from, so that
// output files can be traced back to the code that produced them.
package compileinfo

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
)

// Deps whose versions change the numbers or the pictures.
var tracked = []string{
	"gonum.org/v1/gonum",
	"github.com/wcharczuk/go-chart/v2",
	"github.com/montanaflynn/stats",
}

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool

	// Deps maps tracked module paths to the versions linked in.
	Deps map[string]string
}

func (c CompileInfo) String() string {
	commit := c.Commit
	if commit == "" {
		commit = "(unknown)"
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	var deps []string
	for _, path := range tracked {
		if v, ok := c.Deps[path]; ok {
			deps = append(deps, path+"@"+v)
		}
	}
	linked := ""
	if len(deps) > 0 {
		linked = " Linked against " + strings.Join(deps, ", ") + "."
	}

	return fmt.Sprintf("qtlscan %s (%s) built with %s at commit %s%s.%s%s", c.Version, c.Package, c.GoVersion, commit, timeSuffix(c.CommitTime), mod, linked)
}

func timeSuffix(t string) string {
	if t == "" {
		return ""
	}

	return " from " + t
}

func Get() CompileInfo {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return CompileInfo{}
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) CompileInfo {
	out := CompileInfo{
		GoVersion: z.GoVersion,
		Package:   z.Path,
		Version:   z.Main.Version,
		Deps:      make(map[string]string),
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	for _, dep := range z.Deps {
		for _, path := range tracked {
			if dep.Path == path {
				out.Deps[path] = dep.Version
			}
		}
	}

	return out
}

func Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s\n", Get())
}

func PrintToStdErr() {
	Fprint(os.Stderr)
}
