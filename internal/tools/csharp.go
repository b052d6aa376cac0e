package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// DotNetSDK returns the .NET SDK tool definition.
func DotNetSDK() *Tool {
	return &Tool{
		Name:        ".NET SDK",
		Category:    installer.CSharp,
		Description: ".NET development framework for building modern applications",
		Binary:      "dotnet",
		Packages: Packages{
			platform.PMWinget: "Microsoft.DotNet.SDK.8",
			platform.PMChoco:  "dotnet-8.0-sdk",
			platform.PMScoop:  "dotnet-sdk",
			platform.PMBrew:   "dotnet-sdk",
			platform.PMApt:    "dotnet-sdk-8.0",
			platform.PMDnf:    "dotnet-sdk-8.0",
			platform.PMPacman: "dotnet-sdk",
		},
		InstallCmd: "https://dotnet.microsoft.com/download",
		CheckFn: func(context.Context) bool {
			// The runtime alone also ships a dotnet binary.
			if !lookPath("dotnet") {
				return false
			}
			out, err := platform.Output("dotnet", "--list-sdks")
			return err == nil && strings.TrimSpace(out) != ""
		},
		VersionFn: func() (string, error) {
			return platform.Output("dotnet", "--version")
		},
	}
}

// DotNetSDK10 returns the .NET 10 SDK tool definition. It installs beside
// the .NET 8 SDK and is detected by its own SDK entry.
func DotNetSDK10() *Tool {
	return &Tool{
		Name:        ".NET 10 SDK",
		Category:    installer.CSharp,
		Description: ".NET 10.0 development framework for building modern applications",
		Packages: Packages{
			platform.PMWinget: "Microsoft.DotNet.SDK.10",
			platform.PMChoco:  "dotnet-10.0-sdk",
			platform.PMApt:    "dotnet-sdk-10.0",
			platform.PMDnf:    "dotnet-sdk-10.0",
		},
		InstallCmd: "https://dotnet.microsoft.com/download/dotnet/10.0",
		CheckFn: func(context.Context) bool {
			if !lookPath("dotnet") {
				return false
			}
			out, err := platform.Output("dotnet", "--list-sdks")
			return err == nil && hasSDKMajor(out, 10)
		},
	}
}

// hasSDKMajor reports whether a `dotnet --list-sdks` listing has an SDK of
// the given major version. Lines look like "10.0.100 [C:\Program Files\dotnet\sdk]".
func hasSDKMajor(listing string, major int) bool {
	prefix := strconv.Itoa(major) + "."
	for _, line := range strings.Split(listing, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return true
		}
	}
	return false
}

// VSCode returns the Visual Studio Code tool definition.
func VSCode() *Tool {
	return &Tool{
		Name:        "Visual Studio Code",
		Category:    installer.CSharp,
		Description: "Lightweight but powerful source code editor with extensive extension support",
		Binary:      "code",
		Packages: Packages{
			platform.PMWinget: "Microsoft.VisualStudioCode",
			platform.PMChoco:  "vscode",
			platform.PMScoop:  "vscode",
			platform.PMBrew:   "visual-studio-code",
			platform.PMPacman: "code",
		},
		InstallCmd: "https://code.visualstudio.com/download",
	}
}
