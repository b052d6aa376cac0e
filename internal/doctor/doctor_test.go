package doctor

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/installer/installertest"
	"github.com/lamchakchan/devtool-installer/internal/registry"
)

func sampleRegistry() *registry.Registry {
	return registry.New([]installer.Installer{
		installertest.New("Python", installer.Python).Installed(true),
		installertest.New("Pip", installer.Python, "Python"),
		installertest.New("Node.js", installer.NodeJS),
		installertest.New("NPM", installer.NodeJS, "Node.js"),
		installertest.New("Git Defaults", installer.CrossPlatform, "Git", "Nonexistent").AlwaysRun(),
		installertest.New("Git", installer.CrossPlatform).Installed(true),
	})
}

func TestRunToReport(t *testing.T) {
	var buf bytes.Buffer
	rep, err := RunTo(context.Background(), &buf, sampleRegistry(), Options{})
	if err != nil {
		t.Fatalf("RunTo() error: %v", err)
	}

	want := Report{Total: 6, Installed: 2, Missing: 3, AlwaysRun: 1, Unmet: 1}
	if rep != want {
		t.Errorf("report = %+v, want %+v", rep, want)
	}

	out := buf.String()
	for _, s := range []string{
		"[Python Development]",
		"[OK] Python",
		"[MISSING] Pip",
		"[WARN] NPM needs Node.js",
		"[ALWAYS] Git Defaults",
		"Installed: 2/6",
		"Missing: 3",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
	if strings.Contains(out, "[C# Development]") {
		t.Error("empty category should not be printed")
	}
	if strings.Contains(out, "Nonexistent") {
		t.Error("unknown dependency should be treated as satisfied")
	}
}

func TestRunToAllInstalled(t *testing.T) {
	reg := registry.New([]installer.Installer{
		installertest.New("Git", installer.CrossPlatform).Installed(true),
	})
	var buf bytes.Buffer
	rep, err := RunTo(context.Background(), &buf, reg, Options{})
	if err != nil {
		t.Fatalf("RunTo() error: %v", err)
	}
	if rep.Missing != 0 || rep.Installed != 1 {
		t.Errorf("report = %+v", rep)
	}
	if !strings.Contains(buf.String(), "All tools are installed.") {
		t.Errorf("expected healthy summary, got:\n%s", buf.String())
	}
}

func TestRunToCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if _, err := RunTo(ctx, &buf, sampleRegistry(), Options{}); err == nil {
		t.Error("RunTo() with cancelled context should fail")
	}
}

type versioned struct {
	*installertest.Fake
}

func (versioned) Version() (string, error) { return "v1.2.3", nil }

func TestRunToVersions(t *testing.T) {
	reg := registry.New([]installer.Installer{
		versioned{installertest.New("Git", installer.CrossPlatform).Installed(true)},
	})

	var buf bytes.Buffer
	if _, err := RunTo(context.Background(), &buf, reg, Options{Versions: true}); err != nil {
		t.Fatalf("RunTo() error: %v", err)
	}
	if !strings.Contains(buf.String(), "[OK] Git: v1.2.3") {
		t.Errorf("expected version in output, got:\n%s", buf.String())
	}

	buf.Reset()
	if _, err := RunTo(context.Background(), &buf, reg, Options{}); err != nil {
		t.Fatalf("RunTo() error: %v", err)
	}
	if strings.Contains(buf.String(), "v1.2.3") {
		t.Error("version should only be queried with Versions set")
	}
}
