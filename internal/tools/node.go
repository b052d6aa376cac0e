package tools

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

const (
	// NodeMinMajor is the oldest Node.js major version treated as installed.
	NodeMinMajor = 18
	// NodeLTSVersion is the pinned LTS version for binary download fallback.
	NodeLTSVersion = "22.12.0"
)

var nodePackages = Packages{
	platform.PMWinget: "OpenJS.NodeJS.LTS",
	platform.PMChoco:  "nodejs-lts",
	platform.PMScoop:  "nodejs-lts",
	platform.PMBrew:   "node",
	platform.PMDnf:    "nodejs npm",
	platform.PMPacman: "nodejs npm",
	platform.PMApk:    "nodejs npm",
}

// nodeDevPackages are the global packages installed by Node.js Development Tools.
var nodeDevPackages = []string{"typescript", "ts-node", "nodemon", "eslint", "prettier"}

// Node returns the Node.js tool definition.
func Node() *Tool {
	return &Tool{
		Name:        "Node.js",
		Category:    installer.NodeJS,
		Description: "Node.js JavaScript runtime with npm included",
		Binary:      "node",
		Packages:    nodePackages,
		Elevates:    true, // NodeSource setup and apt
		CheckFn: func(context.Context) bool {
			return lookPath("node") && nodeMeetsMinimum()
		},
		InstallFn: installNode,
		VersionFn: func() (string, error) {
			return platform.Output("node", "--version")
		},
	}
}

// NPM returns the npm self-upgrade tool definition.
func NPM() *Tool {
	return &Tool{
		Name:         "NPM",
		Category:     installer.NodeJS,
		Description:  "Node Package Manager - Package manager for JavaScript",
		Dependencies: []string{"Node.js"},
		Binary:       "npm",
		InstallCmd:   "npm install -g npm@latest",
		InstallFn: func(ctx context.Context, r installer.Reporter) error {
			r.StatusProgress("Updating npm to the latest version...", 30)
			if err := platform.RunCapture("npm", "install", "-g", "npm@latest"); err != nil {
				return fmt.Errorf("npm install -g npm@latest: %w", err)
			}
			r.Progress(100)
			return nil
		},
		VersionFn: func() (string, error) {
			return platform.Output("npm", "--version")
		},
	}
}

// NodeDevTools returns the bundle of global Node.js development packages.
func NodeDevTools() *Tool {
	return &Tool{
		Name:         "Node.js Development Tools",
		Category:     installer.NodeJS,
		Description:  "Global TypeScript, ts-node, nodemon, ESLint and Prettier",
		Dependencies: []string{"Node.js", "NPM"},
		InstallCmd:   "npm install -g " + strings.Join(nodeDevPackages, " "),
		CheckFn: func(context.Context) bool {
			return npmGlobalsInstalled(nodeDevPackages...)
		},
		InstallFn: func(ctx context.Context, r installer.Reporter) error {
			return installNpmGlobals(ctx, r, nodeDevPackages...)
		},
	}
}

// Flowise returns the Flowise tool definition.
func Flowise() *Tool {
	return &Tool{
		Name:         "Flowise",
		Category:     installer.NodeJS,
		Description:  "Flowise - Drag & drop UI to build your customized LLM flow",
		Dependencies: []string{"Node.js", "NPM"},
		Binary:       "flowise",
		InstallCmd:   "npm install -g flowise",
		InstallFn: func(ctx context.Context, r installer.Reporter) error {
			return installNpmGlobals(ctx, r, "flowise")
		},
	}
}

// NodeVersion returns a tool that pins one Node.js major release next to
// the LTS install.
func NodeVersion(major int) *Tool {
	v := strconv.Itoa(major)
	pkgs := Packages{
		platform.PMWinget: "OpenJS.NodeJS." + v,
		platform.PMBrew:   "node@" + v,
	}
	return &Tool{
		Name:        "Node.js " + v,
		Category:    installer.NodeJS,
		Description: "Node.js " + v + " JavaScript runtime with npm included",
		Packages:    pkgs,
		InstallCmd:  "nvm install " + v,
		CheckFn: func(context.Context) bool {
			if lookPath("node") {
				if out, err := platform.Output("node", "--version"); err == nil && nodeMajor(out) == major {
					return true
				}
			}
			return packageListed(pkgs)
		},
	}
}

// NVMWindows returns the nvm-windows tool definition (Windows only).
func NVMWindows() *Tool {
	return &Tool{
		Name:        "NVM for Windows",
		Category:    installer.NodeJS,
		Description: "Node.js version manager for Windows (nvm-windows v1.2.2)",
		Binary:      "nvm",
		Platforms:   []string{"windows"},
		Packages: Packages{
			platform.PMWinget: "CoreyButler.NVMforWindows",
			platform.PMChoco:  "nvm",
			platform.PMScoop:  "nvm",
		},
		VersionFn: func() (string, error) {
			return platform.Output("nvm", "version")
		},
	}
}

// npmGlobalsInstalled reports whether every package shows up in the global
// npm tree.
func npmGlobalsInstalled(pkgs ...string) bool {
	if !lookPath("npm") {
		return false
	}
	out, err := platform.Output("npm", "list", "-g", "--depth=0")
	if err != nil && out == "" {
		return false
	}
	return npmListHas(out, pkgs...)
}

func npmListHas(out string, pkgs ...string) bool {
	for _, p := range pkgs {
		if !strings.Contains(out, " "+p+"@") {
			return false
		}
	}
	return true
}

// installNpmGlobals installs each package in turn, spreading progress evenly.
// Every package is attempted; the error lists those that failed.
func installNpmGlobals(ctx context.Context, r installer.Reporter, pkgs ...string) error {
	var failed []string
	for i, p := range pkgs {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.StatusProgress(fmt.Sprintf("Installing %s...", p), i*100/len(pkgs))
		if err := platform.RunCapture("npm", "install", "-g", p); err != nil {
			r.Error(fmt.Sprintf("Failed to install %s: %v", p, err))
			failed = append(failed, p)
			continue
		}
		r.Success(p + " installed successfully")
	}
	r.Progress(100)
	if len(failed) > 0 {
		return fmt.Errorf("npm packages failed: %s", strings.Join(failed, ", "))
	}
	return nil
}

// nodeMeetsMinimum checks if the installed node version >= NodeMinMajor.
func nodeMeetsMinimum() bool {
	ver, err := platform.Output("node", "--version")
	if err != nil {
		return false
	}
	return nodeMajor(ver) >= NodeMinMajor
}

// nodeMajor parses "v20.5.1" into 20, or 0.
func nodeMajor(ver string) int {
	ver = strings.TrimPrefix(strings.TrimSpace(ver), "v")
	major, err := strconv.Atoi(strings.SplitN(ver, ".", 2)[0])
	if err != nil {
		return 0
	}
	return major
}

// installNode tries asdf, then the system package managers, then the
// official binary archive.
func installNode(ctx context.Context, r installer.Reporter) error {
	if lookPath("asdf") {
		r.StatusProgress("Detected asdf, installing Node.js via asdf...", 10)
		if err := installNodeViaAsdf(); err == nil {
			return nil
		}
		r.Warning("asdf install failed, trying other methods...")
	}

	if lookPath("apt-get") && goos == "linux" {
		r.StatusProgress("Installing Node.js via NodeSource + apt...", 10)
		if err := installNodeViaApt(); err == nil {
			r.Progress(100)
			return nil
		}
		r.Warning("NodeSource install failed, trying other methods...")
	}

	if hasPackageFor(nodePackages) {
		err := installPackage(ctx, r, "Node.js", nodePackages)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	r.StatusProgress("Downloading Node.js binary from nodejs.org...", 0)
	return installNodeBinary(ctx, r)
}

// installNodeViaAsdf installs Node.js using asdf version manager.
func installNodeViaAsdf() error {
	out, err := platform.Output("asdf", "plugin", "list")
	if err != nil || !strings.Contains(out, "nodejs") {
		if err := platform.RunQuiet("asdf", "plugin", "add", "nodejs"); err != nil {
			return fmt.Errorf("asdf plugin add nodejs: %w", err)
		}
	}
	if err := platform.RunCapture("asdf", "install", "nodejs", "latest"); err != nil {
		return fmt.Errorf("asdf install nodejs latest: %w", err)
	}
	if err := platform.RunQuiet("asdf", "set", "--home", "nodejs", "latest"); err != nil {
		return fmt.Errorf("asdf set nodejs: %w", err)
	}
	if err := platform.RunQuiet("asdf", "reshim", "nodejs"); err != nil {
		return fmt.Errorf("asdf reshim nodejs: %w", err)
	}
	return nil
}

// installNodeViaApt installs Node.js using the NodeSource repository for modern LTS.
func installNodeViaApt() error {
	setupCmd := "curl -fsSL https://deb.nodesource.com/setup_22.x | "
	if lookPath("sudo") && !platform.IsRoot() {
		setupCmd += "sudo -n -E bash -"
	} else {
		setupCmd += "bash -"
	}
	if err := platform.RunCapture("bash", "-c", setupCmd); err != nil {
		return fmt.Errorf("NodeSource setup: %w", err)
	}
	return installSystemPackages(platform.PMApt, []string{"nodejs"})
}

// nodeArch returns the Node.js architecture name for arch.
func nodeArch(arch string) string {
	switch arch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	default:
		return arch
	}
}

// nodeDist returns the archive base name and extension for an OS/arch pair.
func nodeDist(osName, arch string) (base, ext string) {
	platformName := osName
	switch osName {
	case "windows":
		platformName = "win"
		ext = "zip"
	case "linux":
		ext = "tar.xz"
	default:
		ext = "tar.gz"
	}
	base = fmt.Sprintf("node-v%s-%s-%s", NodeLTSVersion, platformName, nodeArch(arch))
	return base, ext
}

// nodeArchiveURL returns the download URL for the given OS/arch pair.
func nodeArchiveURL(osName, arch string) (url, ext string) {
	base, ext := nodeDist(osName, arch)
	return fmt.Sprintf("https://nodejs.org/dist/v%s/%s.%s", NodeLTSVersion, base, ext), ext
}

// installNodeBinary downloads and unpacks a Node.js release under the
// user's local lib dir.
func installNodeBinary(ctx context.Context, r installer.Reporter) error {
	dlURL, ext := nodeArchiveURL(goos, goarch)

	tmpDir, err := os.MkdirTemp("", "node-install-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, "node."+ext)
	progress := platform.DownloadPercent(func(pct int) {
		r.StatusProgress(fmt.Sprintf("Downloading Node.js... %d%%", pct), pct*8/10)
	})
	if err := platform.Download(ctx, dlURL, archivePath, progress); err != nil {
		return fmt.Errorf("downloading Node.js: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("getting home dir: %w", err)
	}
	nodeDir := nodeInstallDir(home)
	if err := os.MkdirAll(nodeDir, 0755); err != nil {
		return fmt.Errorf("creating nodejs dir: %w", err)
	}

	r.StatusProgress("Extracting Node.js...", 85)
	base, _ := nodeDist(goos, goarch)
	if err := extractNodeArchive(archivePath, nodeDir, base); err != nil {
		return fmt.Errorf("extracting Node.js: %w", err)
	}

	binDir := filepath.Join(nodeDir, "bin")
	if goos == "windows" {
		binDir = nodeDir
	}
	platform.PrependPath(binDir)

	if goos != "windows" {
		localBin := filepath.Join(home, ".local", "bin")
		if err := os.MkdirAll(localBin, 0755); err != nil {
			return fmt.Errorf("creating local bin dir: %w", err)
		}
		if err := symlinkNodeBinaries(binDir, localBin); err != nil {
			return err
		}
		addToShellPath(r, home, localBin)
	} else {
		r.Warning(fmt.Sprintf("Add %s to your PATH to use Node.js in new terminals", binDir))
	}
	r.Progress(100)
	return nil
}

func nodeInstallDir(home string) string {
	if goos == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "Programs", "nodejs")
		}
	}
	return filepath.Join(home, ".local", "lib", "nodejs")
}

// symlinkNodeBinaries creates symlinks for node, npm, npx in localBin.
func symlinkNodeBinaries(nodeBinDir, localBin string) error {
	for _, bin := range []string{"node", "npm", "npx"} {
		src := filepath.Join(nodeBinDir, bin)
		dst := filepath.Join(localBin, bin)
		if platform.FileExists(src) {
			os.Remove(dst)
			if err := os.Symlink(src, dst); err != nil {
				return fmt.Errorf("symlinking %s: %w", bin, err)
			}
		}
	}
	return nil
}

// extractNodeArchive unpacks the release tree under prefix/ into destDir.
// Archives other than .tar.gz are handed to the system tar, which reads xz
// and zip.
func extractNodeArchive(archive, destDir, prefix string) error {
	if !strings.HasSuffix(archive, ".tar.gz") {
		return platform.RunCapture("tar", "-xf", archive, "-C", destDir, "--strip-components=1")
	}

	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	root := prefix + "/"
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if !strings.HasPrefix(header.Name, root) {
			continue
		}
		relPath := strings.TrimPrefix(header.Name, root)
		if relPath == "" || strings.Contains(relPath, "..") {
			continue
		}
		if err := extractTarEntry(tr, header, filepath.Join(destDir, filepath.FromSlash(relPath))); err != nil {
			return err
		}
	}
	return nil
}

// extractTarEntry writes a single tar entry (dir, file, or symlink) to destPath.
func extractTarEntry(tr *tar.Reader, header *tar.Header, destPath string) error {
	switch header.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(destPath, 0755)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}
		outFile, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
		if err != nil {
			return err
		}
		if _, err := io.Copy(outFile, tr); err != nil {
			outFile.Close()
			return err
		}
		return outFile.Close()
	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
			return err
		}
		os.Remove(destPath)
		return os.Symlink(header.Linkname, destPath)
	}
	return nil
}
