package tools

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/lamchakchan/devtool-installer/internal/config"
	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// FromConfig builds a tool from a config entry. The check command marks the
// tool installed when it exits 0; without one the tool name is looked up in
// PATH.
func FromConfig(tc config.ToolConfig) (*Tool, error) {
	name := strings.TrimSpace(tc.Name)
	if name == "" {
		return nil, fmt.Errorf("custom tool: name is required")
	}

	category := installer.CrossPlatform
	if tc.Category != "" {
		c, err := installer.ParseCategory(tc.Category)
		if err != nil {
			return nil, fmt.Errorf("custom tool %q: %w", name, err)
		}
		category = c
	}

	install, err := splitCommand(tc.Install)
	if err != nil {
		return nil, fmt.Errorf("custom tool %q: install: %w", name, err)
	}
	if len(install) == 0 {
		return nil, fmt.Errorf("custom tool %q: install is required", name)
	}
	elevated := install[0] == "sudo"
	install = nonInteractiveSudo(install)
	check, err := splitCommand(tc.Check)
	if err != nil {
		return nil, fmt.Errorf("custom tool %q: check: %w", name, err)
	}

	t := &Tool{
		Name:         name,
		Category:     category,
		Description:  tc.Description,
		Dependencies: tc.Dependencies,
		AlwaysRun:    tc.AlwaysRun,
		InstallCmd:   tc.Install,
		Sudo:         elevated,
		InstallFn: func(ctx context.Context, r installer.Reporter) error {
			r.StatusProgress("Running "+install[0]+"...", 30)
			if err := platform.RunCapture(install[0], install[1:]...); err != nil {
				return err
			}
			r.Progress(100)
			return nil
		},
	}
	if len(check) > 0 {
		t.CheckFn = func(context.Context) bool {
			return platform.RunQuiet(check[0], check[1:]...) == nil
		}
	} else {
		t.Binary = name
	}
	return t, nil
}

// nonInteractiveSudo adds -n to a sudo command line. The credential is
// cached before the batch starts, and a captured sudo must not prompt.
func nonInteractiveSudo(args []string) []string {
	if len(args) == 0 || args[0] != "sudo" || slices.Contains(args[1:], "-n") {
		return args
	}
	return append([]string{"sudo", "-n"}, args[1:]...)
}

func splitCommand(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return shellquote.Split(s)
}
