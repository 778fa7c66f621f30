// texdiag - TeX log diagnostics
//
// texdiag turns TeX build logs and ChkTeX output into diagnostics attributed
// to source files and lines.
package main

import (
	"os"

	"github.com/ccollicutt/texdiag/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
