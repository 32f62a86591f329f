package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the function variants registered from the manifest's extensions",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	out := newOutput(cmd)

	_, store, err := loadStore(cmd, out)
	if err != nil {
		return err
	}

	for _, entry := range store.Entries() {
		fmt.Fprintf(os.Stdout, "%s#%s\n", entry.URI, entry.Name)
		for _, v := range entry.Variants {
			fmt.Fprintf(os.Stdout, "  %-40s %s\n", v.Anchor(), v.Signature())
		}
	}
	return nil
}
