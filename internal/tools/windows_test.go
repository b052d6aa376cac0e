package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/lamchakchan/devtool-installer/internal/installer"
)

// fakeRegistry answers reg.exe query and add calls from memory.
type fakeRegistry map[string]map[string]int

func (f fakeRegistry) run(args ...string) (string, error) {
	key := strings.TrimPrefix(args[1], hkcu)
	switch args[0] {
	case "query":
		vals, ok := f[key]
		if !ok {
			return "", errors.New("exit status 1")
		}
		var b strings.Builder
		b.WriteString("HKEY_CURRENT_USER\\" + key + "\r\n")
		for name, v := range vals {
			fmt.Fprintf(&b, "    %s    REG_DWORD    0x%x\r\n", name, v)
		}
		return b.String(), nil
	case "add":
		n, err := strconv.Atoi(args[7])
		if err != nil {
			return "", err
		}
		if f[key] == nil {
			f[key] = make(map[string]int)
		}
		f[key][args[3]] = n
		return "", nil
	}
	return "", fmt.Errorf("unexpected reg %v", args)
}

func TestParseRegDWORDs(t *testing.T) {
	out := "HKEY_CURRENT_USER\\Software\\Microsoft\\Windows\\CurrentVersion\\Explorer\\Advanced\r\n" +
		"    Hidden    REG_DWORD    0x1\r\n" +
		"    HideFileExt    REG_DWORD    0x0\r\n" +
		"    TaskbarGlomLevel    REG_DWORD    0x10\r\n" +
		"    Start_TrackDocs    REG_SZ    1\r\n"
	got := parseRegDWORDs(out)
	want := map[string]int{"Hidden": 1, "HideFileExt": 0, "TaskbarGlomLevel": 16}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %d, want %d", k, got[k], v)
		}
	}
}

func TestBrowserPrivacy(t *testing.T) {
	reg := fakeRegistry{}
	stub(t, &runReg, reg.run)
	tool := BrowserPrivacy()
	ctx := context.Background()

	if tool.IsInstalled(ctx) {
		t.Error("no policy keys should not count as applied")
	}

	// A key with only some of the policies is not applied.
	reg[browserPolicyKeys[0]] = map[string]int{"PromptForDownloadLocation": 1}
	if tool.IsInstalled(ctx) {
		t.Error("partial policies should not count as applied")
	}

	if err := tool.Install(ctx, installer.Discard); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	for _, key := range browserPolicyKeys {
		if !dwordsSet(reg[key], browserPolicies) {
			t.Errorf("%s = %v", key, reg[key])
		}
	}
	if !tool.IsInstalled(ctx) {
		t.Error("policies should count as applied after install")
	}

	// One browser drifting is enough to re-apply.
	reg[browserPolicyKeys[1]]["MetricsReportingEnabled"] = 1
	if tool.IsInstalled(ctx) {
		t.Error("a changed policy should be detected")
	}
}

func TestBrowserPrivacyCancelled(t *testing.T) {
	reg := fakeRegistry{}
	stub(t, &runReg, reg.run)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := BrowserPrivacy().Install(ctx, installer.Discard); !errors.Is(err, context.Canceled) {
		t.Errorf("Install() error = %v, want context.Canceled", err)
	}
	if len(reg) != 0 {
		t.Errorf("registry written after cancel: %v", reg)
	}
}

func TestExplorerSettings(t *testing.T) {
	reg := fakeRegistry{explorerKey: {"Hidden": 2, "HideFileExt": 1}}
	stub(t, &runReg, reg.run)
	tool := ExplorerSettings()
	ctx := context.Background()

	if tool.IsInstalled(ctx) {
		t.Error("defaults should not count as configured")
	}
	if err := tool.Install(ctx, installer.Discard); err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if reg[explorerKey]["Hidden"] != 1 || reg[explorerKey]["HideFileExt"] != 0 {
		t.Errorf("explorer key = %v", reg[explorerKey])
	}
	if !tool.IsInstalled(ctx) {
		t.Error("settings should count as configured after install")
	}
}

func TestExplorerSettingsRegError(t *testing.T) {
	stub(t, &runReg, func(...string) (string, error) { return "", errors.New("access denied") })
	err := ExplorerSettings().Install(context.Background(), installer.Discard)
	if err == nil || !strings.Contains(err.Error(), "Hidden") {
		t.Errorf("Install() error = %v", err)
	}
}

func TestMergeINISection(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{
			name: "empty file",
			in:   "",
			want: "[wsl2]\nmemory=4GB\nswap=8GB\nlocalhostForwarding=true\n",
		},
		{
			name: "other section kept",
			in:   "[experimental]\nautoMemoryReclaim=gradual\n",
			want: "[experimental]\nautoMemoryReclaim=gradual\n\n[wsl2]\nmemory=4GB\nswap=8GB\nlocalhostForwarding=true\n",
		},
		{
			name: "values replaced in place",
			in:   "[wsl2]\n# cap it\nMemory = 16GB\nprocessors=4\nswap=0\n",
			want: "[wsl2]\n# cap it\nmemory=4GB\nprocessors=4\nswap=8GB\nlocalhostForwarding=true\n",
		},
		{
			name: "missing keys added before the next section",
			in:   "[wsl2]\nmemory=2GB\n\n[experimental]\nsparseVhd=true\n",
			want: "[wsl2]\nmemory=4GB\nswap=8GB\nlocalhostForwarding=true\n\n[experimental]\nsparseVhd=true\n",
		},
		{
			name: "crlf kept",
			in:   "[wsl2]\r\nmemory=2GB\r\n",
			want: "[wsl2]\r\nmemory=4GB\r\nswap=8GB\r\nlocalhostForwarding=true\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeINISection(tt.in, "wsl2", wslSettings)
			if got != tt.want {
				t.Errorf("got:\n%q\nwant:\n%q", got, tt.want)
			}
			if again := mergeINISection(got, "wsl2", wslSettings); again != got {
				t.Errorf("second merge changed the file:\n%q", again)
			}
		})
	}
}

func TestWSLConfigured(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"[wsl2]\nmemory=4GB\nswap=8GB\n", true},
		{"[WSL2]\r\nmemory = 4gb\r\nswap = 8GB\r\n", true},
		{"[wsl2]\nmemory=8GB\nswap=8GB\n", false},
		{"[wsl2]\n# memory=4GB\nswap=8GB\n", false},
		{"[experimental]\nmemory=4GB\nswap=8GB\n", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := wslConfigured(tt.content); got != tt.want {
			t.Errorf("wslConfigured(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestMergeWSLConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	tool := WSLConfig()
	if tool.IsInstalled(context.Background()) {
		t.Error("missing .wslconfig should not count as configured")
	}

	path := filepath.Join(home, ".wslconfig")
	if err := os.WriteFile(path, []byte("[wsl2]\nmemory=12GB\n"), 0644); err != nil {
		t.Fatal(err)
	}
	changed, err := mergeWSLConfigFile(path)
	if err != nil || !changed {
		t.Fatalf("mergeWSLConfigFile() = %v, %v", changed, err)
	}
	if !tool.IsInstalled(context.Background()) {
		t.Error("merged .wslconfig should count as configured")
	}
	if changed, _ := mergeWSLConfigFile(path); changed {
		t.Error("second merge should be a no-op")
	}
}
