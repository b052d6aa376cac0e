package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// runReg runs reg.exe and returns its output. Seam for tests.
var runReg = func(args ...string) (string, error) {
	return platform.Output("reg", args...)
}

const hkcu = `HKCU\`

type dword struct {
	name  string
	value int
}

// browserPolicyKeys are the per-user policy keys of the Chromium browsers.
var browserPolicyKeys = []string{
	`SOFTWARE\Policies\Google\Chrome`,
	`SOFTWARE\Policies\Microsoft\Edge`,
	`SOFTWARE\Policies\BraveSoftware\Brave`,
}

var browserPolicies = []dword{
	{"PromptForDownloadLocation", 1},
	{"BackgroundModeEnabled", 0},
	{"MetricsReportingEnabled", 0},
	{"StartupBoostEnabled", 0},
	{"AutofillAddressEnabled", 0},
	{"AutofillCreditCardEnabled", 0},
	{"PasswordManagerEnabled", 0},
	{"HardwareAccelerationModeEnabled", 1},
}

const explorerKey = `Software\Microsoft\Windows\CurrentVersion\Explorer\Advanced`

var explorerSettings = []dword{
	{"Hidden", 1},
	{"HideFileExt", 0},
}

// parseRegDWORDs reads the REG_DWORD values out of `reg query` output:
//
//	HKEY_CURRENT_USER\SOFTWARE\Policies\Google\Chrome
//	    PromptForDownloadLocation    REG_DWORD    0x1
func parseRegDWORDs(out string) map[string]int {
	vals := make(map[string]int)
	for _, line := range strings.Split(out, "\n") {
		f := strings.Fields(line)
		if len(f) != 3 || f[1] != "REG_DWORD" {
			continue
		}
		if n, err := strconv.ParseInt(f[2], 0, 64); err == nil {
			vals[f[0]] = int(n)
		}
	}
	return vals
}

// regDWORDs returns the DWORD values under HKCU\key. ok is false when the
// key does not exist.
func regDWORDs(key string) (vals map[string]int, ok bool) {
	out, err := runReg("query", hkcu+key)
	if err != nil {
		return nil, false
	}
	return parseRegDWORDs(out), true
}

func dwordsSet(vals map[string]int, want []dword) bool {
	for _, d := range want {
		if v, ok := vals[d.name]; !ok || v != d.value {
			return false
		}
	}
	return true
}

func setDWORD(key string, d dword) error {
	if _, err := runReg("add", hkcu+key, "/v", d.name, "/t", "REG_DWORD", "/d", strconv.Itoa(d.value), "/f"); err != nil {
		return fmt.Errorf("setting %s\\%s: %w", key, d.name, err)
	}
	return nil
}

// BrowserPrivacy returns the settings applier for Chromium browser policies
// (Windows only).
func BrowserPrivacy() *Tool {
	return &Tool{
		Name:        "Browser Privacy Settings",
		Category:    installer.CrossPlatform,
		Description: "Configure browsers: ask download location, disable background/analytics/startup boost/auto-update",
		Platforms:   []string{"windows"},
		AlwaysRun:   true,
		CheckFn:     func(context.Context) bool { return browserPoliciesApplied() },
		InstallFn:   applyBrowserPolicies,
	}
}

// browserPoliciesApplied is true when some browser has a policy key and
// every such key carries all the policies.
func browserPoliciesApplied() bool {
	found := false
	for _, key := range browserPolicyKeys {
		vals, ok := regDWORDs(key)
		if !ok {
			continue
		}
		found = true
		if !dwordsSet(vals, browserPolicies) {
			return false
		}
	}
	return found
}

func applyBrowserPolicies(ctx context.Context, r installer.Reporter) error {
	for i, key := range browserPolicyKeys {
		r.StatusProgress("Writing policies to "+key, i*100/len(browserPolicyKeys))
		for _, d := range browserPolicies {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := setDWORD(key, d); err != nil {
				return err
			}
		}
	}
	r.Status("Restart open browsers to apply the new policies")
	r.Progress(100)
	return nil
}

// ExplorerSettings returns the settings applier for Windows Explorer.
func ExplorerSettings() *Tool {
	return &Tool{
		Name:        "Windows Explorer Settings",
		Category:    installer.CrossPlatform,
		Description: "Configure Windows Explorer: show hidden files, show file extensions",
		Platforms:   []string{"windows"},
		AlwaysRun:   true,
		CheckFn: func(context.Context) bool {
			vals, ok := regDWORDs(explorerKey)
			return ok && dwordsSet(vals, explorerSettings)
		},
		InstallFn: func(ctx context.Context, r installer.Reporter) error {
			for i, d := range explorerSettings {
				if err := ctx.Err(); err != nil {
					return err
				}
				r.StatusProgress(fmt.Sprintf("Setting %s = %d", d.name, d.value), i*100/len(explorerSettings))
				if err := setDWORD(explorerKey, d); err != nil {
					return err
				}
			}
			r.Status("Restart Explorer or sign out to see the change")
			r.Progress(100)
			return nil
		},
	}
}

type iniSetting struct {
	key, value string
}

// wslSettings are written to the [wsl2] section of ~/.wslconfig.
var wslSettings = []iniSetting{
	{"memory", "4GB"},
	{"swap", "8GB"},
	{"localhostForwarding", "true"},
}

func wslConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, ".wslconfig"), nil
}

// WSLConfig returns the settings applier that caps WSL2 memory (Windows only).
func WSLConfig() *Tool {
	return &Tool{
		Name:        "WSL2 Memory Limit",
		Category:    installer.CrossPlatform,
		Description: "Configure WSL2: limit memory to 4GB, swap to 8GB (.wslconfig)",
		Platforms:   []string{"windows"},
		AlwaysRun:   true,
		CheckFn: func(context.Context) bool {
			path, err := wslConfigPath()
			if err != nil {
				return false
			}
			content, err := os.ReadFile(path)
			return err == nil && wslConfigured(string(content))
		},
		InstallFn: applyWSLConfig,
	}
}

func wslConfigured(content string) bool {
	vals := iniSection(content, "wsl2")
	return strings.EqualFold(vals["memory"], "4GB") && strings.EqualFold(vals["swap"], "8GB")
}

func applyWSLConfig(ctx context.Context, r installer.Reporter) error {
	r.StatusProgress("Enabling WSL...", 10)
	if err := platform.RunCapture("wsl", "--install", "--no-distribution"); err != nil {
		r.Warning(fmt.Sprintf("wsl --install: %v", err))
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.StatusProgress("Updating WSL...", 40)
	if err := platform.RunCapture("wsl", "--update"); err != nil {
		r.Warning(fmt.Sprintf("wsl --update: %v", err))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := wslConfigPath()
	if err != nil {
		return err
	}
	r.StatusProgress("Updating "+path, 80)
	changed, err := mergeWSLConfigFile(path)
	if err != nil {
		return fmt.Errorf("updating .wslconfig: %w", err)
	}
	if changed {
		r.Status("Run 'wsl --shutdown' for the new limits to take effect")
	} else {
		r.Status(".wslconfig already up to date")
	}
	r.Progress(100)
	return nil
}

func mergeWSLConfigFile(path string) (changed bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	merged := mergeINISection(string(content), "wsl2", wslSettings)
	if merged == string(content) {
		return false, nil
	}
	return true, os.WriteFile(path, []byte(merged), 0644)
}

func iniHeader(line string) (name string, ok bool) {
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		return strings.TrimSpace(line[1 : len(line)-1]), true
	}
	return "", false
}

// iniSection returns the key=value pairs of one section, keys lowercased.
func iniSection(content, section string) map[string]string {
	vals := make(map[string]string)
	in := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if name, ok := iniHeader(line); ok {
			in = strings.EqualFold(name, section)
			continue
		}
		if !in || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			vals[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		}
	}
	return vals
}

// mergeINISection sets each setting inside section, replacing existing keys
// in place and adding missing ones at the end of the section. The section
// is appended when absent. Other sections, comments and the file's line
// endings are kept.
func mergeINISection(content, section string, settings []iniSetting) string {
	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}
	var lines []string
	if content != "" {
		lines = strings.Split(strings.TrimSuffix(strings.ReplaceAll(content, "\r\n", "\n"), "\n"), "\n")
	}

	done := make([]bool, len(settings))
	var out []string
	// flush adds the settings not yet written, ahead of any blank lines
	// that separate the section from the next one.
	flush := func() {
		var add []string
		for i, s := range settings {
			if !done[i] {
				add = append(add, s.key+"="+s.value)
				done[i] = true
			}
		}
		at := len(out)
		for at > 0 && strings.TrimSpace(out[at-1]) == "" {
			at--
		}
		out = slices.Insert(out, at, add...)
	}

	in, seen := false, false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if name, ok := iniHeader(trimmed); ok {
			if in {
				flush()
			}
			in = strings.EqualFold(name, section)
			seen = seen || in
			out = append(out, line)
			continue
		}
		if in {
			if k, _, ok := strings.Cut(trimmed, "="); ok {
				k = strings.TrimSpace(k)
				for i, s := range settings {
					if strings.EqualFold(k, s.key) {
						line = s.key + "=" + s.value
						done[i] = true
						break
					}
				}
			}
		}
		out = append(out, line)
	}
	if in {
		flush()
	}
	if !seen {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, "["+section+"]")
		flush()
	}
	return strings.Join(out, eol) + eol
}
