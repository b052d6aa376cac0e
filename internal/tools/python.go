package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// pythonCmd is the interpreter name on the current OS.
func pythonCmd() string {
	if goos == "windows" {
		return "python"
	}
	return "python3"
}

// pythonModuleWorks reports whether `python -m <module> --version` succeeds.
func pythonModuleWorks(module string) bool {
	if !lookPath(pythonCmd()) {
		return false
	}
	return platform.RunQuiet(pythonCmd(), "-m", module, "--version") == nil
}

// Python returns the Python interpreter tool definition.
func Python() *Tool {
	return &Tool{
		Name:        "Python",
		Category:    installer.Python,
		Description: "Python programming language interpreter and standard library",
		Binary:      pythonCmd(),
		Packages: Packages{
			platform.PMWinget: "Python.Python.3.12",
			platform.PMChoco:  "python312",
			platform.PMScoop:  "python",
			platform.PMBrew:   "python@3.12",
			platform.PMApt:    "python3 python3-venv",
			platform.PMDnf:    "python3",
			platform.PMPacman: "python",
			platform.PMApk:    "python3",
		},
		CheckFn: func(context.Context) bool {
			// The Windows Store alias answers to `python` without an interpreter.
			return lookPath(pythonCmd()) && platform.RunQuiet(pythonCmd(), "--version") == nil
		},
		VersionFn: func() (string, error) {
			return platform.Output(pythonCmd(), "--version")
		},
	}
}

// pipSystemPackages install pip for interpreters that ship without
// ensurepip, as Debian-family ones do.
var pipSystemPackages = Packages{
	platform.PMApt:    "python3-pip",
	platform.PMDnf:    "python3-pip",
	platform.PMPacman: "python-pip",
	platform.PMApk:    "py3-pip",
}

// Pip returns the pip tool definition. Packages only serve the ensurepip
// fallback.
func Pip() *Tool {
	return &Tool{
		Name:         "Pip",
		Category:     installer.Python,
		Description:  "Python package installer and manager",
		Dependencies: []string{"Python"},
		InstallCmd:   pythonCmd() + " -m ensurepip --upgrade",
		Packages:     pipSystemPackages,
		CheckFn: func(context.Context) bool {
			return pythonModuleWorks("pip")
		},
		InstallFn: installPip,
		VersionFn: func() (string, error) {
			return platform.Output(pythonCmd(), "-m", "pip", "--version")
		},
	}
}

func installPip(ctx context.Context, r installer.Reporter) error {
	py := pythonCmd()
	r.StatusProgress("Ensuring pip is installed...", 20)
	if err := platform.RunCapture(py, "-m", "ensurepip", "--upgrade"); err != nil {
		r.Warning("ensurepip failed, trying the system package...")
		if perr := installPackage(ctx, r, "pip", pipSystemPackages); perr != nil {
			return fmt.Errorf("ensurepip: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.StatusProgress("Upgrading pip to the latest version...", 60)
	if err := platform.RunCapture(py, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		if !pythonModuleWorks("pip") {
			return fmt.Errorf("upgrading pip: %w", err)
		}
		r.Warning(fmt.Sprintf("pip is installed but could not be upgraded: %v", err))
	}
	r.Progress(100)
	return nil
}

// Poetry returns the Poetry tool definition.
func Poetry() *Tool {
	return &Tool{
		Name:         "Poetry",
		Category:     installer.Python,
		Description:  "Python dependency management and packaging tool",
		Dependencies: []string{"Python", "Pip"},
		Binary:       "poetry",
		InstallCmd:   pythonCmd() + " -m pip install --user poetry",
		CheckFn: func(context.Context) bool {
			return lookPath("poetry") || pythonModuleWorks("poetry")
		},
		InstallFn: installPoetry,
	}
}

func installPoetry(ctx context.Context, r installer.Reporter) error {
	py := pythonCmd()
	r.StatusProgress("Installing Poetry using pip...", 30)
	if err := platform.RunCapture(py, "-m", "pip", "install", "--user", "poetry"); err != nil {
		return fmt.Errorf("pip install poetry: %w", err)
	}
	if base, err := platform.Output(py, "-m", "site", "--user-base"); err == nil && base != "" {
		if goos == "windows" {
			scripts := filepath.Join(base, "Scripts")
			platform.PrependPath(scripts)
			if !lookPath("poetry") {
				r.Warning(fmt.Sprintf("Add %s to your PATH to run poetry directly", scripts))
			}
		} else if home, herr := os.UserHomeDir(); herr == nil {
			addToShellPath(r, home, filepath.Join(base, "bin"))
		}
	}
	r.Progress(100)
	return nil
}

// UV returns the uv tool definition.
func UV() *Tool {
	return &Tool{
		Name:        "uv",
		Category:    installer.Python,
		Description: "Extremely fast Python package installer and resolver (Rust-based, replaces pip/virtualenv)",
		Binary:      "uv",
		Packages: Packages{
			platform.PMWinget: "astral-sh.uv",
			platform.PMScoop:  "uv",
			platform.PMBrew:   "uv",
			platform.PMPacman: "uv",
		},
		InstallFn: installUV,
	}
}

func installUV(ctx context.Context, r installer.Reporter) error {
	if hasPackageFor(UV().Packages) {
		if err := installPackage(ctx, r, "uv", UV().Packages); err == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	r.StatusProgress("Running the official uv installer...", 40)
	var err error
	if goos == "windows" {
		err = platform.RunCapture("powershell", "-ExecutionPolicy", "Bypass", "-Command",
			"irm https://astral.sh/uv/install.ps1 | iex")
	} else {
		err = platform.RunCapture("sh", "-c", "curl -LsSf https://astral.sh/uv/install.sh | sh")
	}
	if err != nil {
		return fmt.Errorf("uv installer: %w", err)
	}
	if home, herr := os.UserHomeDir(); herr == nil {
		if goos == "windows" {
			platform.PrependPath(filepath.Join(home, ".local", "bin"))
		} else {
			addToShellPath(r, home, filepath.Join(home, ".local", "bin"))
		}
	}
	r.Progress(100)
	return nil
}

// VCBuildTools returns the Visual C++ Build Tools definition (Windows only).
func VCBuildTools() *Tool {
	return &Tool{
		Name:        "Visual C++ Build Tools",
		Category:    installer.Python,
		Description: "Microsoft Visual C++ Build Tools for compiling Python packages",
		Platforms:   []string{"windows"},
		Packages: Packages{
			platform.PMWinget: "Microsoft.VisualStudio.2022.BuildTools",
			platform.PMChoco:  "visualstudio2022buildtools",
		},
	}
}
