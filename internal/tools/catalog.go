package tools

import (
	"log/slog"

	"github.com/lamchakchan/devtool-installer/internal/config"
	"github.com/lamchakchan/devtool-installer/internal/installer"
)

// Builtins returns every built-in tool in menu order, regardless of platform.
func Builtins() []*Tool {
	return []*Tool{
		DotNetSDK(), DotNetSDK10(), VSCode(),
		Python(), Pip(), Poetry(), UV(), VCBuildTools(),
		Node(), NodeVersion(20), NodeVersion(22), NVMWindows(), NPM(), NodeDevTools(), Flowise(),
		Git(), GitDefaults(), PowerShell(), WindowsTerminal(), DockerDesktop(),
		PostgreSQL(), DBeaver(), Postman(), Ngrok(), OhMyPosh(), DeveloperFonts(), VSCodeSettings(),
		GoogleChrome(), Firefox(), Brave(), Opera(), BrowserPrivacy(),
		NotepadPlusPlus(), RustDesk(), WireGuard(), ExplorerSettings(), WSLConfig(),
		JQ(), Shellcheck(), Tmux(),
	}
}

// Catalog returns the tools shown in the menu: built-ins supported on this
// OS, then the custom tools from cfg, minus anything cfg disables. A custom
// tool that fails to build is logged and skipped.
func Catalog(cfg *config.Config) []installer.Installer {
	if cfg == nil {
		d := config.Defaults()
		cfg = &d
	}
	var out []installer.Installer
	for _, t := range Builtins() {
		if !t.Supported(goos) {
			continue
		}
		if cfg.IsDisabled(t.Name) {
			slog.Debug("tool disabled by config", "tool", t.Name)
			continue
		}
		out = append(out, t)
	}
	for _, tc := range cfg.Tools {
		t, err := FromConfig(tc)
		if err != nil {
			slog.Warn("skipping custom tool", "tool", tc.Name, "err", err)
			continue
		}
		if cfg.IsDisabled(t.Name) {
			continue
		}
		out = append(out, t)
	}
	return out
}
