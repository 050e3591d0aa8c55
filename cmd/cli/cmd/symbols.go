package cmd

import (
	"debug/elf"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vexcore/elfdis/internal/elfbin"
)

var symbolsCmd = &cobra.Command{
	Use:     "symbols <path>",
	GroupID: "elf",
	Short:   "List the symbol table and dynamic symbol table",
	Args:    cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		initLogLevel()
		exe, err := elfbin.Open(args[0])
		if err != nil {
			log.WithError(err).Error("failed to open ELF file")
			return err
		}
		defer exe.Close()

		syms, err := exe.Symbols()
		if err != nil {
			log.WithError(err).Error("failed to read symbol table")
			return err
		}
		dyn, err := exe.DynSymbols()
		if err != nil {
			log.WithError(err).Error("failed to read dynamic symbol table")
			return err
		}

		fmt.Println("SYMBOLS")
		printSymbolTable(syms)
		fmt.Println("\nDYNAMIC SYMBOLS")
		printSymbolTable(dyn)
		return nil
	},
}

func printSymbolTable(syms []elf.Symbol) {
	fmt.Printf("%-40s %-12s %-10s %s\n", "NAME", "VALUE", "SIZE", "SECTION")
	for _, s := range syms {
		section := "UND"
		if s.Section < elf.SHN_LORESERVE {
			section = fmt.Sprintf("%d", s.Section)
		}
		fmt.Printf("%-40s %#010x %-10d %s\n", s.Name, s.Value, s.Size, section)
	}
}
