package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vexcore/elfdis/internal/elfbin"
)

var sectionsCmd = &cobra.Command{
	Use:     "sections <path>",
	GroupID: "elf",
	Short:   "List the ELF section header table",
	Args:    cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		initLogLevel()
		exe, err := elfbin.Open(args[0])
		if err != nil {
			log.WithError(err).Error("failed to open ELF file")
			return err
		}
		defer exe.Close()

		fmt.Printf("%-20s %-15s %-12s %-10s %s\n", "NAME", "TYPE", "ADDR", "SIZE", "FLAGS")
		for _, s := range exe.Sections() {
			fmt.Printf("%-20s %-15s %#010x %-10d %s\n", s.Name, s.Type, s.Addr, s.Size, s.Flags)
		}
		return nil
	},
}
