package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// manifest is the parsed funcgen.toml: the output package plus the extension
// documents to load. Extension paths are resolved relative to the manifest
// file.
type manifest struct {
	Path   string
	Root   string
	Config manifestConfig
}

type manifestConfig struct {
	Package    packageConfig     `toml:"package"`
	Extensions []extensionConfig `toml:"extension"`
}

type packageConfig struct {
	// Name is the Go package name for the generated files.
	Name string `toml:"name"`
	// Output is the directory the generated files are written to.
	Output string `toml:"output"`
}

type extensionConfig struct {
	// URI is the namespace the document's functions are registered under.
	URI string `toml:"uri"`
	// Path is the location of the YAML document on disk.
	Path string `toml:"path"`
}

func loadManifest(path string) (*manifest, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("package", "output") || strings.TrimSpace(cfg.Package.Output) == "" {
		return nil, fmt.Errorf("%s: missing [package].output", path)
	}
	if len(cfg.Extensions) == 0 {
		return nil, fmt.Errorf("%s: no [[extension]] entries", path)
	}
	for i, ext := range cfg.Extensions {
		if strings.TrimSpace(ext.URI) == "" {
			return nil, fmt.Errorf("%s: [[extension]] %d: missing uri", path, i)
		}
		if strings.TrimSpace(ext.Path) == "" {
			return nil, fmt.Errorf("%s: [[extension]] %d: missing path", path, i)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	return &manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

// extensionPath resolves an extension document path against the manifest
// directory.
func (m *manifest) extensionPath(ext extensionConfig) string {
	if filepath.IsAbs(ext.Path) {
		return ext.Path
	}
	return filepath.Join(m.Root, filepath.FromSlash(ext.Path))
}

// outputDir resolves the output directory against the manifest directory.
func (m *manifest) outputDir() string {
	out := m.Config.Package.Output
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(m.Root, filepath.FromSlash(out))
}
