package platform

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteJSONFile marshals v as indented JSON and writes it to path.
func WriteJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

// ReadJSONFileRaw reads a JSON file into a map to preserve unknown fields.
func ReadJSONFileRaw(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// MergeJSONFile sets the given top-level keys in the JSON object at path,
// keeping every other key. A missing file is created. Keys already holding
// the same value are left alone; changed reports whether the file was written.
func MergeJSONFile(path string, values map[string]interface{}) (changed bool, err error) {
	m := map[string]json.RawMessage{}
	if FileExists(path) {
		if m, err = ReadJSONFileRaw(path); err != nil {
			return false, err
		}
		if m == nil {
			m = map[string]json.RawMessage{}
		}
	}

	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return false, fmt.Errorf("marshaling %s: %w", k, err)
		}
		if old, ok := m[k]; ok && jsonEqual(old, raw) {
			continue
		}
		m[k] = raw
		changed = true
	}
	if !changed {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	return true, WriteJSONFile(path, m)
}

func jsonEqual(a, b json.RawMessage) bool {
	var va, vb interface{}
	if json.Unmarshal(a, &va) != nil || json.Unmarshal(b, &vb) != nil {
		return false
	}
	ca, _ := json.Marshal(va)
	cb, _ := json.Marshal(vb)
	return string(ca) == string(cb)
}

// JSONFileContains reports whether the JSON object at path already holds
// every key in values with an equal value.
func JSONFileContains(path string, values map[string]interface{}) bool {
	m, err := ReadJSONFileRaw(path)
	if err != nil || m == nil {
		return false
	}
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return false
		}
		old, ok := m[k]
		if !ok || !jsonEqual(old, raw) {
			return false
		}
	}
	return true
}
