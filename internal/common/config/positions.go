package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PositionCatalog is the list of position names a candidate may apply for.
type PositionCatalog struct {
	Positions []string `yaml:"positions"`
}

// LoadPositions reads a yaml catalog. An empty path yields an empty catalog,
// which disables the position check at intake.
func LoadPositions(path string) (*PositionCatalog, error) {
	if path == "" {
		return &PositionCatalog{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read positions file %s: %w", path, err)
	}
	return ParsePositions(data)
}

// ParsePositions decodes catalog yaml, trimming names and dropping blanks and duplicates.
func ParsePositions(data []byte) (*PositionCatalog, error) {
	var raw PositionCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse positions: %w", err)
	}

	seen := make(map[string]struct{}, len(raw.Positions))
	out := &PositionCatalog{Positions: make([]string, 0, len(raw.Positions))}
	for _, p := range raw.Positions {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out.Positions = append(out.Positions, p)
	}
	return out, nil
}

// Contains reports whether name is in the catalog.
func (c *PositionCatalog) Contains(name string) bool {
	for _, p := range c.Positions {
		if p == name {
			return true
		}
	}
	return false
}

// Empty reports whether no positions are configured.
func (c *PositionCatalog) Empty() bool {
	return c == nil || len(c.Positions) == 0
}
