package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/installer/installertest"
	"github.com/lamchakchan/devtool-installer/internal/registry"
)

func testRegistry() (*registry.Registry, map[string]*installertest.Fake) {
	fakes := map[string]*installertest.Fake{
		"Git":     installertest.New("Git", installer.CrossPlatform).Installed(true),
		"Node.js": installertest.New("Node.js", installer.NodeJS),
		"NPM":     installertest.New("NPM", installer.NodeJS, "Node.js"),
		"Broken":  installertest.New("Broken", installer.CrossPlatform),
	}
	fakes["Broken"].InstallFunc = func(context.Context, installer.Reporter) error {
		return errors.New("boom")
	}
	return registry.New([]installer.Installer{
		fakes["Git"], fakes["Node.js"], fakes["NPM"], fakes["Broken"],
	}), fakes
}

func TestRunInstallSucceeds(t *testing.T) {
	reg, fakes := testRegistry()
	var buf bytes.Buffer
	if err := runInstall(context.Background(), &buf, reg, []string{"node.js"}, false); err != nil {
		t.Fatalf("runInstall() error: %v\n%s", err, buf.String())
	}
	if fakes["Node.js"].Calls() != 1 {
		t.Errorf("Node.js installs = %d, want 1", fakes["Node.js"].Calls())
	}
	out := buf.String()
	for _, want := range []string{"[1/1] Node.js", "Succeeded: 1", "Total:     1/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunInstallSkipsInstalled(t *testing.T) {
	reg, fakes := testRegistry()
	var buf bytes.Buffer
	if err := runInstall(context.Background(), &buf, reg, []string{"Git"}, false); err != nil {
		t.Fatalf("runInstall() error: %v", err)
	}
	if fakes["Git"].Calls() != 0 {
		t.Error("installed tool ran without --force")
	}
	if !strings.Contains(buf.String(), "Nothing to do") {
		t.Errorf("output:\n%s", buf.String())
	}

	buf.Reset()
	if err := runInstall(context.Background(), &buf, reg, []string{"Git"}, true); err != nil {
		t.Fatalf("runInstall(force) error: %v", err)
	}
	if fakes["Git"].Calls() != 1 {
		t.Error("--force should reinstall")
	}
}

func TestRunInstallReportsBlockedAndFailed(t *testing.T) {
	reg, _ := testRegistry()
	var buf bytes.Buffer
	err := runInstall(context.Background(), &buf, reg, []string{"NPM", "Broken"}, false)
	if err == nil {
		t.Fatal("expected an error when tools fail or are blocked")
	}
	out := buf.String()
	for _, want := range []string{"Failed:    1", "Blocked:   1: NPM (needs Node.js)", "Total:     2/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunInstallPrimesSudo(t *testing.T) {
	cached := false
	primed := 0
	origCached, origPrime := sudoCached, primeSudo
	sudoCached = func() bool { return cached }
	primeSudo = func() error { primed++; return nil }
	t.Cleanup(func() { sudoCached, primeSudo = origCached, origPrime })

	reg, fakes := testRegistry()
	fakes["Node.js"].Sudo = true
	var buf bytes.Buffer
	if err := runInstall(context.Background(), &buf, reg, []string{"Node.js"}, false); err != nil {
		t.Fatalf("runInstall() error: %v", err)
	}
	if primed != 1 {
		t.Errorf("sudo primed %d times, want 1", primed)
	}

	cached = true
	if err := runInstall(context.Background(), &buf, reg, []string{"Node.js"}, true); err != nil {
		t.Fatalf("runInstall(force) error: %v", err)
	}
	if primed != 1 {
		t.Error("a cached credential should not prompt again")
	}
}

func TestRunInstallUnknownTool(t *testing.T) {
	reg, _ := testRegistry()
	var buf bytes.Buffer
	err := runInstall(context.Background(), &buf, reg, []string{"Nope"}, false)
	if err == nil || !strings.Contains(err.Error(), `unknown tool "Nope"`) {
		t.Errorf("err = %v", err)
	}
}

func TestRunInstallCancelled(t *testing.T) {
	reg, fakes := testRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := runInstall(ctx, &buf, reg, []string{"Node.js"}, false); err == nil {
		t.Error("expected cancellation error")
	}
	if fakes["Node.js"].Calls() != 0 {
		t.Error("cancelled run installed a tool")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := buf.String(); got != "devtool-installer dev\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestDoctorCommand(t *testing.T) {
	t.Setenv("DEVTOOL_INSTALLER_LOG_SINK", "none")
	cfg := t.TempDir() + "/config.yaml"
	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", cfg, "doctor"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("doctor: %v", err)
	}
	if !strings.Contains(buf.String(), "Developer Environment Status") {
		t.Errorf("doctor output:\n%s", buf.String())
	}
}
