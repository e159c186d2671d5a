package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lifeviz/internal/config"

	"gopkg.in/yaml.v3"
)

// catalogFile maps a sources catalog. Unknown keys are rejected.
type catalogFile struct {
	Sources []config.SourceConfig `yaml:"sources"`
}

// readCatalog loads the catalog; relative paths resolve against its directory.
func readCatalog(path string) ([]config.SourceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source catalog failed: %w", err)
	}
	var cat catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("parse source catalog failed (%s): %w", path, err)
	}
	dir := filepath.Dir(path)
	out := make([]config.SourceConfig, 0, len(cat.Sources))
	for _, src := range cat.Sources {
		src.Name = strings.TrimSpace(src.Name)
		src.Kind = strings.ToLower(strings.TrimSpace(src.Kind))
		if src.Kind == "" {
			src.Kind = config.SourceCSV
		}
		src.Path = resolvePath(dir, strings.TrimSpace(src.Path))
		out = append(out, src)
	}
	return out, nil
}
