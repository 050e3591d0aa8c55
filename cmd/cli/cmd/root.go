package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

var verbose bool
var noColor bool

var rootCmd = &cobra.Command{
	Use:   "elfdis",
	Short: "x86-64 ELF instruction disassembler",
	Long:  `elfdis reads an ELF64 x86-64 executable and decodes its code sections into Intel-syntax instructions.`,
}

// Execute runs the root command, exiting non-zero on failure per the
// CLI's exit-code contract: zero on success, non-zero on parse/decoding
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "elf",
		Title: "ELF inspection",
	})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable per-instruction debug tracing")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(disassembleCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(symbolsCmd)
}

func initLogLevel() {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	if noColor {
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}
}
