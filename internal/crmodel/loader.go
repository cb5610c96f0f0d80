package crmodel

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// Format is the serialization of a parse result file.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from the file extension (.json for JSON, otherwise YAML).
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads a parse result from a YAML or JSON file.
func LoadFile(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is supplied by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", crerrors.ErrParseResultNotFound, path)
		}
		return nil, fmt.Errorf("read parse result %s: %w", path, err)
	}
	return Decode(data, DetectFormat(path))
}

// Decode parses a parse result in the given format.
// Materials are validated for conflicting filter lists while decoding.
func Decode(data []byte, format Format) (*ParseResult, error) {
	var result ParseResult

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("%w: %w", crerrors.ErrParseResultInvalid, err)
		}
	default:
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("%w: %w", crerrors.ErrParseResultInvalid, err)
		}
	}

	if err := result.validateFilters(); err != nil {
		return nil, fmt.Errorf("%w: %w", crerrors.ErrParseResultInvalid, err)
	}
	return &result, nil
}

func (r *ParseResult) validateFilters() error {
	for _, p := range r.Pipelines {
		if p == nil {
			continue
		}
		for i, m := range p.Materials {
			if err := FilterOf(m.Material).Validate(); err != nil {
				return fmt.Errorf("pipeline %q: material %d: %w", p.Name, i, err)
			}
		}
	}
	return nil
}

// FilterOf returns the filter of m, or nil for materials without one.
func FilterOf(m Material) *Filter {
	switch v := m.(type) {
	case *GitMaterial:
		return v.Filter
	case *HgMaterial:
		return v.Filter
	case *SvnMaterial:
		return v.Filter
	case *P4Material:
		return v.Filter
	case *TfsMaterial:
		return v.Filter
	case *PluggableSCMMaterial:
		return v.Filter
	case *ConfigRepoMaterial:
		return v.Filter
	default:
		return nil
	}
}
