package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/proforma/internal/model"
)

// Format is an assumption or snapshot file encoding.
type Format string

// Supported file formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (want .toml, .yaml or .json)", filepath.Ext(path))
	}
}

// LoadAssumptions reads a flat name = value file into an AssumptionSet.
// One level of tables (e.g. [balance] and [income]) is flattened.
func LoadAssumptions(path string) (model.AssumptionSet, error) {
	format, err := FormatFor(path)
	if err != nil {
		return model.AssumptionSet{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.AssumptionSet{}, fmt.Errorf("opening assumptions: %w", err)
	}
	defer f.Close()

	set, err := ParseAssumptions(f, format)
	if err != nil {
		return model.AssumptionSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ParseAssumptions decodes r in the given format. Scalar values keep their
// kind, so a text driver surfaces as a type mismatch at projection time.
func ParseAssumptions(r io.Reader, format Format) (model.AssumptionSet, error) {
	raw := make(map[string]any)
	if err := decode(r, format, &raw); err != nil {
		return model.AssumptionSet{}, err
	}
	return model.NewAssumptionSet(flatten(raw)), nil
}

func decode(r io.Reader, format Format, v any) error {
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("parsing toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(v); err != nil && err != io.EOF {
			return fmt.Errorf("parsing yaml: %w", err)
		}
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(v); err != nil {
			return fmt.Errorf("parsing json: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

func flatten(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	var sections []string
	for k, v := range raw {
		if _, ok := v.(map[string]any); ok {
			sections = append(sections, k)
			continue
		}
		out[k] = v
	}
	sort.Strings(sections)
	for _, s := range sections {
		for k, v := range raw[s].(map[string]any) {
			out[k] = v
		}
	}
	return out
}

// LoadSnapshot reads a static balance sheet snapshot.
func LoadSnapshot(path string) (model.Snapshot, error) {
	format, err := FormatFor(path)
	if err != nil {
		return model.Snapshot{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var s model.Snapshot
	if err := decode(f, format, &s); err != nil {
		return model.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// SaveAssumptions writes a as TOML.
func SaveAssumptions(w io.Writer, a model.AssumptionSet) error {
	return toml.NewEncoder(w).Encode(a.Values())
}
