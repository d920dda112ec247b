package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromFile loads a Partial from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Partial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Partial{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Partial{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Partial.
func FromYAML(data []byte) (Partial, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Partial{}, fmt.Errorf("parse yaml: %w", err)
	}
	return fromMap(m), nil
}

// FromJSON parses JSON data into a Partial.
func FromJSON(data []byte) (Partial, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Partial{}, fmt.Errorf("parse json: %w", err)
	}
	return fromMap(m), nil
}

// fromMap extracts known keys from a decoded document. Missing keys and
// values of the wrong type are left unset in the Partial.
func fromMap(m map[string]any) Partial {
	var p Partial
	if v, ok := stringValue(m, "apiKey"); ok {
		p.APIKey = &v
	}
	if v, ok := stringValue(m, "endpoint"); ok {
		p.Endpoint = &v
	}
	if v, ok := stringValue(m, "environment"); ok {
		p.Environment = &v
	}
	if v, ok := boolValue(m, "autoCapture"); ok {
		p.AutoCapture = &v
	}
	if v, ok := floatValue(m, "samplingRate"); ok {
		p.SamplingRate = &v
	}
	if v, ok := boolValue(m, "skip5xxErrors"); ok {
		p.Skip5xxErrors = &v
	}
	if v, ok := stringValue(m, "release"); ok {
		p.Release = &v
	}
	if v, ok := boolValue(m, "trackingConsent"); ok {
		p.TrackingConsent = &v
	}
	return p
}

func stringValue(m map[string]any, key string) (string, bool) {
	if s, ok := m[key].(string); ok {
		return s, true
	}
	return "", false
}

func boolValue(m map[string]any, key string) (bool, bool) {
	if b, ok := m[key].(bool); ok {
		return b, true
	}
	return false, false
}

func floatValue(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
