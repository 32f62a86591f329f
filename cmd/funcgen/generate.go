package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/westonpace/substrait-expr/internal/extensions"
	"github.com/westonpace/substrait-expr/internal/funcgen"
	"github.com/westonpace/substrait-expr/internal/registry"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate typed builder entry points from the manifest's extensions",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	out := newOutput(cmd)

	m, store, err := loadStore(cmd, out)
	if err != nil {
		return err
	}

	modules, err := funcgen.Generate(store)
	if err != nil {
		return err
	}
	files, err := funcgen.Render(modules, funcgen.Options{Package: m.Config.Package.Name})
	if err != nil {
		return err
	}

	dir := m.outputDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", dir, err)
	}
	for _, f := range files {
		path := filepath.Join(dir, f.Filename)
		if err := os.WriteFile(path, f.Content, 0o644); err != nil {
			return fmt.Errorf("writing %q: %w", path, err)
		}
		out.infof("wrote %s", path)
	}

	defs := 0
	for _, mod := range modules {
		defs += len(mod.Defs)
	}
	out.successf("generated %d builders across %d files (fingerprint %s)",
		defs, len(files), funcgen.Fingerprint(modules))
	return nil
}

// loadStore loads every extension document named by the manifest, registers
// the entries and freezes the store.
func loadStore(cmd *cobra.Command, out *output) (*manifest, *registry.Store, error) {
	manifestPath, err := cmd.Flags().GetString("manifest")
	if err != nil {
		return nil, nil, err
	}
	m, err := loadManifest(manifestPath)
	if err != nil {
		return nil, nil, err
	}

	store := registry.NewStore()
	for _, ext := range m.Config.Extensions {
		result, err := extensions.LoadFile(ext.URI, m.extensionPath(ext))
		if err != nil {
			return nil, nil, err
		}
		for _, w := range result.Warnings {
			out.warnf("%s", w)
		}
		if err := extensions.RegisterAll(store, result); err != nil {
			return nil, nil, err
		}
		out.infof("loaded %s (%d functions)", ext.URI, len(result.Entries))
	}
	store.Freeze()
	return m, store, nil
}

// output writes progress to stderr, colorized when stderr is a terminal
// unless the --color flag says otherwise.
type output struct {
	colored bool
}

func newOutput(cmd *cobra.Command) *output {
	mode, _ := cmd.Flags().GetString("color")
	switch mode {
	case "on":
		return &output{colored: true}
	case "off":
		return &output{colored: false}
	}
	fd := os.Stderr.Fd()
	return &output{colored: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

func (o *output) infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func (o *output) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.colored {
		msg = color.YellowString("warning: ") + msg
	} else {
		msg = "warning: " + msg
	}
	fmt.Fprintln(os.Stderr, msg)
}

func (o *output) successf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if o.colored {
		msg = color.GreenString(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
}
