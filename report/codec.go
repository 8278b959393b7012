package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents a serialization format
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// ParseFormat converts a name to a Format
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("unsupported format: %v", value)
}

// FormatOf returns the format implied by a file extension, defaulting to YAML
func FormatOf(location string) Format {
	if strings.EqualFold(path.Ext(location), ".json") {
		return JSON
	}
	return YAML
}

// Encode writes value (a *Report or *DiffReport) in the given format
func Encode(w io.Writer, value interface{}, format Format) error {
	switch format {
	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case YAML, "":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unsupported format: %v", format)
}

// Decode reads a report in the given format
func Decode(r io.Reader, format Format) (*Report, error) {
	result := &Report{}
	if err := decode(r, format, result); err != nil {
		return nil, err
	}
	return result, nil
}

// DecodeDiff reads a diff report in the given format
func DecodeDiff(r io.Reader, format Format) (*DiffReport, error) {
	result := &DiffReport{}
	if err := decode(r, format, result); err != nil {
		return nil, err
	}
	return result, nil
}

func decode(r io.Reader, format Format, target interface{}) error {
	var err error
	switch format {
	case JSON:
		err = json.NewDecoder(r).Decode(target)
	case YAML, "":
		err = yaml.NewDecoder(r).Decode(target)
	default:
		return fmt.Errorf("unsupported format: %v", format)
	}
	if err != nil {
		return fmt.Errorf("failed to decode %v report: %w", format, err)
	}
	return nil
}
