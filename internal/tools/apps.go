package tools

import (
	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// GoogleChrome returns the Google Chrome tool definition.
func GoogleChrome() *Tool {
	return &Tool{
		Name:        "Google Chrome",
		Category:    installer.CrossPlatform,
		Description: "Fast, secure web browser from Google",
		Binary:      "google-chrome",
		Packages: Packages{
			platform.PMWinget: "Google.Chrome",
			platform.PMChoco:  "googlechrome",
			platform.PMScoop:  "googlechrome",
			platform.PMBrew:   "google-chrome",
		},
		InstallCmd: "https://www.google.com/chrome/",
	}
}

// Firefox returns the Mozilla Firefox tool definition.
func Firefox() *Tool {
	return &Tool{
		Name:        "Mozilla Firefox",
		Category:    installer.CrossPlatform,
		Description: "Privacy-focused open source web browser",
		Binary:      "firefox",
		Packages: Packages{
			platform.PMWinget: "Mozilla.Firefox",
			platform.PMChoco:  "firefox",
			platform.PMScoop:  "firefox",
			platform.PMBrew:   "firefox",
			platform.PMApt:    "firefox",
			platform.PMDnf:    "firefox",
			platform.PMPacman: "firefox",
			platform.PMApk:    "firefox",
		},
	}
}

// Brave returns the Brave Browser tool definition.
func Brave() *Tool {
	return &Tool{
		Name:        "Brave Browser",
		Category:    installer.CrossPlatform,
		Description: "Privacy-focused Chromium browser with built-in ad blocking",
		Binary:      "brave-browser",
		Packages: Packages{
			platform.PMWinget: "Brave.Brave",
			platform.PMChoco:  "brave",
			platform.PMBrew:   "brave-browser",
		},
		InstallCmd: "https://brave.com/linux/",
	}
}

// Opera returns the Opera Browser tool definition.
func Opera() *Tool {
	return &Tool{
		Name:        "Opera Browser",
		Category:    installer.CrossPlatform,
		Description: "Feature-rich web browser with built-in VPN and productivity tools",
		Binary:      "opera",
		Packages: Packages{
			platform.PMWinget: "Opera.Opera",
			platform.PMChoco:  "opera",
			platform.PMBrew:   "opera",
		},
		InstallCmd: "https://www.opera.com/download",
	}
}

// DBeaver returns the DBeaver Community tool definition.
func DBeaver() *Tool {
	return &Tool{
		Name:        "DBeaver",
		Category:    installer.CrossPlatform,
		Description: "Universal database tool for developers, database administrators, and analysts",
		Binary:      "dbeaver",
		Packages: Packages{
			platform.PMWinget: "DBeaver.DBeaver",
			platform.PMChoco:  "dbeaver",
			platform.PMScoop:  "dbeaver",
			platform.PMBrew:   "dbeaver-community",
		},
		InstallCmd: "https://dbeaver.io/download/",
	}
}

// Ngrok returns the ngrok tool definition.
func Ngrok() *Tool {
	return &Tool{
		Name:        "Ngrok",
		Category:    installer.CrossPlatform,
		Description: "Secure tunneling service for exposing local services to the internet",
		Binary:      "ngrok",
		Packages: Packages{
			platform.PMWinget: "ngrok.ngrok",
			platform.PMChoco:  "ngrok",
			platform.PMScoop:  "ngrok",
			platform.PMBrew:   "ngrok",
		},
		InstallCmd: "https://ngrok.com/download",
	}
}

// NotepadPlusPlus returns the Notepad++ tool definition (Windows only).
func NotepadPlusPlus() *Tool {
	return &Tool{
		Name:        "Notepad++",
		Category:    installer.CrossPlatform,
		Description: "Free source code editor and Notepad replacement with syntax highlighting",
		Binary:      "notepad++",
		Platforms:   []string{"windows"},
		Packages: Packages{
			platform.PMWinget: "Notepad++.Notepad++",
			platform.PMChoco:  "notepadplusplus",
			platform.PMScoop:  "notepadplusplus",
		},
	}
}

// RustDesk returns the RustDesk tool definition.
func RustDesk() *Tool {
	return &Tool{
		Name:        "RustDesk",
		Category:    installer.CrossPlatform,
		Description: "Open-source remote desktop client with self-hosted server support",
		Binary:      "rustdesk",
		Packages: Packages{
			platform.PMWinget: "RustDesk.RustDesk",
			platform.PMChoco:  "rustdesk",
			platform.PMBrew:   "rustdesk",
		},
		InstallCmd: "https://github.com/rustdesk/rustdesk/releases",
	}
}

// WireGuard returns the WireGuard tool definition. Outside Windows and macOS
// it installs the wg command line tools.
func WireGuard() *Tool {
	return &Tool{
		Name:        "WireGuard",
		Category:    installer.CrossPlatform,
		Description: "Fast, modern, secure VPN tunnel",
		Binary:      "wg",
		Packages: Packages{
			platform.PMWinget: "WireGuard.WireGuard",
			platform.PMChoco:  "wireguard",
			platform.PMBrew:   "wireguard-tools",
			platform.PMApt:    "wireguard-tools",
			platform.PMDnf:    "wireguard-tools",
			platform.PMPacman: "wireguard-tools",
			platform.PMApk:    "wireguard-tools",
		},
	}
}
