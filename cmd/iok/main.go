// Iok runs scripts written in the iok language, and provides an interactive
// REPL and a language server for it.
package main

import (
	"os"

	"src.iok.sh/pkg/buildinfo"
	"src.iok.sh/pkg/lsp"
	"src.iok.sh/pkg/prog"
	"src.iok.sh/pkg/shell"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(buildinfo.Program, &lsp.Program{}, &shell.Program{})))
}
