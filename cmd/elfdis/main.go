// Command elfdis decodes the code sections of an ELF64 x86-64 executable
// into Intel-syntax instructions, and inspects its section and symbol
// tables.
package main

import "github.com/vexcore/elfdis/cmd/cli/cmd"

func main() {
	cmd.Execute()
}
