package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// Git returns the Git tool definition.
func Git() *Tool {
	return &Tool{
		Name:        "Git",
		Category:    installer.CrossPlatform,
		Description: "Distributed version control system for tracking changes in source code",
		Binary:      "git",
		Packages: Packages{
			platform.PMWinget: "Git.Git",
			platform.PMChoco:  "git",
			platform.PMScoop:  "git",
			platform.PMBrew:   "git",
			platform.PMApt:    "git",
			platform.PMDnf:    "git",
			platform.PMPacman: "git",
			platform.PMApk:    "git",
		},
	}
}

// PowerShell returns the PowerShell 7 tool definition.
func PowerShell() *Tool {
	return &Tool{
		Name:        "PowerShell 7",
		Category:    installer.CrossPlatform,
		Description: "Cross-platform task automation shell and scripting language",
		Binary:      "pwsh",
		Packages: Packages{
			platform.PMWinget: "Microsoft.PowerShell",
			platform.PMChoco:  "powershell-core",
			platform.PMScoop:  "pwsh",
			platform.PMBrew:   "powershell",
			platform.PMPacman: "powershell-bin",
		},
		InstallCmd: "https://learn.microsoft.com/powershell/scripting/install/installing-powershell",
	}
}

// WindowsTerminal returns the Windows Terminal tool definition.
func WindowsTerminal() *Tool {
	return &Tool{
		Name:        "Windows Terminal",
		Category:    installer.CrossPlatform,
		Description: "Modern tabbed terminal for command-line users on Windows",
		Binary:      "wt",
		Platforms:   []string{"windows"},
		Packages: Packages{
			platform.PMWinget: "Microsoft.WindowsTerminal",
			platform.PMChoco:  "microsoft-windows-terminal",
			platform.PMScoop:  "windows-terminal",
		},
	}
}

// DockerDesktop returns the Docker tool definition. On Linux it installs
// the engine from the distribution's packages.
func DockerDesktop() *Tool {
	return &Tool{
		Name:        "Docker Desktop",
		Category:    installer.CrossPlatform,
		Description: "Container platform for developing, shipping, and running applications",
		Binary:      "docker",
		Packages: Packages{
			platform.PMWinget: "Docker.DockerDesktop",
			platform.PMChoco:  "docker-desktop",
			platform.PMBrew:   "docker",
			platform.PMApt:    "docker.io",
			platform.PMDnf:    "moby-engine",
			platform.PMPacman: "docker",
			platform.PMApk:    "docker",
		},
	}
}

// PostgreSQL returns the PostgreSQL tool definition.
func PostgreSQL() *Tool {
	return &Tool{
		Name:        "PostgreSQL",
		Category:    installer.CrossPlatform,
		Description: "PostgreSQL database server for data storage and management",
		Binary:      "psql",
		Packages: Packages{
			platform.PMWinget: "PostgreSQL.PostgreSQL.16",
			platform.PMChoco:  "postgresql16",
			platform.PMScoop:  "postgresql",
			platform.PMBrew:   "postgresql@16",
			platform.PMApt:    "postgresql",
			platform.PMDnf:    "postgresql-server",
			platform.PMPacman: "postgresql",
			platform.PMApk:    "postgresql",
		},
	}
}

// Postman returns the Postman tool definition.
func Postman() *Tool {
	return &Tool{
		Name:        "Postman",
		Category:    installer.CrossPlatform,
		Description: "API platform for building, testing, and documenting APIs",
		Binary:      "postman",
		Packages: Packages{
			platform.PMWinget: "Postman.Postman",
			platform.PMChoco:  "postman",
			platform.PMScoop:  "postman",
			platform.PMBrew:   "postman",
		},
		InstallCmd: "https://www.postman.com/downloads/",
	}
}

// OhMyPosh returns the Oh My Posh tool definition.
func OhMyPosh() *Tool {
	return &Tool{
		Name:        "Oh My Posh",
		Category:    installer.CrossPlatform,
		Description: "Prompt theme engine for PowerShell and other shells",
		Binary:      "oh-my-posh",
		Packages:    ohMyPoshPackages,
		InstallFn:   installOhMyPosh,
	}
}

var ohMyPoshPackages = Packages{
	platform.PMWinget: "JanDeDobbeleer.OhMyPosh",
	platform.PMChoco:  "oh-my-posh",
	platform.PMScoop:  "oh-my-posh",
	platform.PMBrew:   "jandedobbeleer/oh-my-posh/oh-my-posh",
}

func installOhMyPosh(ctx context.Context, r installer.Reporter) error {
	if hasPackageFor(ohMyPoshPackages) {
		if err := installPackage(ctx, r, "Oh My Posh", ohMyPoshPackages); err == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if goos == "windows" {
		return fmt.Errorf("oh my posh: %w", errNoPackageManager)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("getting home dir: %w", err)
	}
	localBin := filepath.Join(home, ".local", "bin")
	if err := os.MkdirAll(localBin, 0755); err != nil {
		return fmt.Errorf("creating local bin dir: %w", err)
	}
	r.StatusProgress("Running the official Oh My Posh installer...", 40)
	script := fmt.Sprintf("curl -s https://ohmyposh.dev/install.sh | bash -s -- -d %q", localBin)
	if err := platform.RunCapture("bash", "-c", script); err != nil {
		return fmt.Errorf("oh my posh installer: %w", err)
	}
	addToShellPath(r, home, localBin)
	r.Progress(100)
	return nil
}

// JQ returns the jq tool definition.
func JQ() *Tool {
	return &Tool{
		Name:        "jq",
		Category:    installer.CrossPlatform,
		Description: "Command-line JSON processor",
		Binary:      "jq",
		Packages: Packages{
			platform.PMWinget: "jqlang.jq",
			platform.PMChoco:  "jq",
			platform.PMScoop:  "jq",
			platform.PMBrew:   "jq",
			platform.PMApt:    "jq",
			platform.PMDnf:    "jq",
			platform.PMPacman: "jq",
			platform.PMApk:    "jq",
		},
	}
}

// Shellcheck returns the ShellCheck tool definition.
func Shellcheck() *Tool {
	return &Tool{
		Name:        "ShellCheck",
		Category:    installer.CrossPlatform,
		Description: "Static analysis for shell scripts",
		Binary:      "shellcheck",
		Packages: Packages{
			platform.PMWinget: "koalaman.shellcheck",
			platform.PMChoco:  "shellcheck",
			platform.PMScoop:  "shellcheck",
			platform.PMBrew:   "shellcheck",
			platform.PMApt:    "shellcheck",
			platform.PMDnf:    "ShellCheck",
			platform.PMPacman: "shellcheck",
			platform.PMApk:    "shellcheck",
		},
	}
}

// Tmux returns the tmux tool definition.
func Tmux() *Tool {
	return &Tool{
		Name:        "tmux",
		Category:    installer.CrossPlatform,
		Description: "Terminal multiplexer for persistent sessions",
		Binary:      "tmux",
		Platforms:   []string{"darwin", "linux", "freebsd"},
		Packages: Packages{
			platform.PMBrew:   "tmux",
			platform.PMApt:    "tmux",
			platform.PMDnf:    "tmux",
			platform.PMPacman: "tmux",
			platform.PMApk:    "tmux",
		},
	}
}
