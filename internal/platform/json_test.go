package platform

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSONFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "out.json")

	data := map[string]string{"key": "value"}
	if err := WriteJSONFile(f, data); err != nil {
		t.Fatalf("WriteJSONFile() error = %v", err)
	}

	got, err := os.ReadFile(f)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}

	want := "{\n  \"key\": \"value\"\n}\n"
	if string(got) != want {
		t.Errorf("WriteJSONFile() content = %q, want %q", got, want)
	}
}

func TestWriteJSONFile_Permissions(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "perms.json")

	_ = WriteJSONFile(f, map[string]string{})

	info, err := os.Stat(f)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("permissions = %o, want 0644", info.Mode().Perm())
	}
}

func TestReadJSONFileRaw(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "raw.json")
	_ = os.WriteFile(f, []byte(`{"name":"bob","nested":{"x":1}}`), 0644)

	m, err := ReadJSONFileRaw(f)
	if err != nil {
		t.Fatalf("ReadJSONFileRaw() error = %v", err)
	}

	if len(m) != 2 {
		t.Fatalf("returned %d keys, want 2", len(m))
	}

	var name string
	if err := json.Unmarshal(m["name"], &name); err != nil {
		t.Fatalf("unmarshaling name: %v", err)
	}
	if name != "bob" {
		t.Errorf("name = %q, want %q", name, "bob")
	}

	if string(m["nested"]) != `{"x":1}` {
		t.Errorf("nested = %s, want %s", m["nested"], `{"x":1}`)
	}
}

func TestReadJSONFileRaw_PreservesRawValues(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "raw.json")
	_ = os.WriteFile(f, []byte(`{"arr":[1,2,3],"bool":true,"null":null}`), 0644)

	m, err := ReadJSONFileRaw(f)
	if err != nil {
		t.Fatalf("ReadJSONFileRaw() error = %v", err)
	}

	if string(m["arr"]) != "[1,2,3]" {
		t.Errorf("arr = %s, want [1,2,3]", m["arr"])
	}
	if string(m["bool"]) != "true" {
		t.Errorf("bool = %s, want true", m["bool"])
	}
	if string(m["null"]) != "null" {
		t.Errorf("null = %s, want null", m["null"])
	}
}

func TestReadJSONFileRaw_MissingFile(t *testing.T) {
	_, err := ReadJSONFileRaw("/nonexistent/path.json")
	if err == nil {
		t.Error("ReadJSONFileRaw() expected error for missing file")
	}
}

func TestReadJSONFileRaw_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(f, []byte(`{invalid`), 0644)

	_, err := ReadJSONFileRaw(f)
	if err == nil {
		t.Error("ReadJSONFileRaw() expected error for invalid JSON")
	}
}

func TestMergeJSONFile_PreservesOtherKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	os.WriteFile(path, []byte(`{"editor.fontSize": 14, "workbench.colorTheme": "Dark+"}`), 0644)

	changed, err := MergeJSONFile(path, map[string]interface{}{
		"editor.fontSize": 16,
		"files.eol":       "\n",
	})
	if err != nil {
		t.Fatalf("MergeJSONFile() error = %v", err)
	}
	if !changed {
		t.Error("expected changed=true")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got["workbench.colorTheme"] != "Dark+" {
		t.Errorf("unrelated key lost: %v", got)
	}
	if got["editor.fontSize"] != float64(16) {
		t.Errorf("editor.fontSize = %v, want 16", got["editor.fontSize"])
	}
}

func TestMergeJSONFile_Unchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	os.WriteFile(path, []byte(`{"a": {"x": 1, "y": 2}}`), 0644)

	changed, err := MergeJSONFile(path, map[string]interface{}{
		"a": map[string]int{"y": 2, "x": 1},
	})
	if err != nil {
		t.Fatalf("MergeJSONFile() error = %v", err)
	}
	if changed {
		t.Error("expected changed=false for equal value")
	}
}

func TestMergeJSONFile_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "settings.json")

	changed, err := MergeJSONFile(path, map[string]interface{}{"k": true})
	if err != nil {
		t.Fatalf("MergeJSONFile() error = %v", err)
	}
	if !changed || !FileExists(path) {
		t.Errorf("changed = %v, exists = %v", changed, FileExists(path))
	}
}

func TestJSONFileContains(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	want := map[string]interface{}{"editor.formatOnSave": true, "editor.rulers": []int{100}}

	if JSONFileContains(path, want) {
		t.Error("missing file should not contain anything")
	}

	os.WriteFile(path, []byte(`{"editor.formatOnSave": true}`), 0644)
	if JSONFileContains(path, want) {
		t.Error("expected false when a key is missing")
	}

	os.WriteFile(path, []byte(`{"editor.formatOnSave": true, "editor.rulers": [100], "x": 1}`), 0644)
	if !JSONFileContains(path, want) {
		t.Error("expected true when every key matches")
	}

	os.WriteFile(path, []byte(`{"editor.formatOnSave": false, "editor.rulers": [100]}`), 0644)
	if JSONFileContains(path, want) {
		t.Error("expected false when a value differs")
	}
}
