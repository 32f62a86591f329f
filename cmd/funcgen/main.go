package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "funcgen",
	Short: "Typed builder generator for extension function catalogs",
	Long: `funcgen loads simple-extension YAML documents, registers their function
signatures, and emits one typed Go builder entry point per declared variant.`,
}

func main() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)

	rootCmd.PersistentFlags().StringP("manifest", "m", "funcgen.toml", "path to the generation manifest")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
