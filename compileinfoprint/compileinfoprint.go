// Package compileinfoprint writes the qtlscan build banner (version, commit,
// and the gonum, go-chart and stats versions linked in) to os.Stderr when a
// command imports it.
package compileinfoprint

import "github.com/carbocation/qtlscan/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
