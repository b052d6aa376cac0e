package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lamchakchan/devtool-installer/internal/config"
	"github.com/lamchakchan/devtool-installer/internal/doctor"
	"github.com/lamchakchan/devtool-installer/internal/installer"
	"github.com/lamchakchan/devtool-installer/internal/logging"
	"github.com/lamchakchan/devtool-installer/internal/menu"
	"github.com/lamchakchan/devtool-installer/internal/platform"
	"github.com/lamchakchan/devtool-installer/internal/registry"
	"github.com/lamchakchan/devtool-installer/internal/tools"
	"github.com/lamchakchan/devtool-installer/internal/tui"
)

// version is set via -ldflags at build time
var version = "dev"

// Seams for tests.
var (
	sudoCached = platform.SudoCached
	primeSudo  = func() error { return platform.RunAttached(platform.SudoValidateCommand()) }
)

// app is the state shared by every command, set up in PersistentPreRunE.
type app struct {
	cfgFile  string
	cfg      *config.Config
	reg      *registry.Registry
	closeLog func() error
}

func main() {
	platform.InitColor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		// The menu already told the user.
		if !errors.Is(err, tui.ErrNotInteractive) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "devtool-installer",
		Short: "Set up a developer workstation from a checklist",
		Long: `devtool-installer shows a categorized checklist of developer tools
(.NET, Python, Node.js and cross-platform tools), marks what is already
installed, and installs the selected tools one at a time.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(cmd.Context(), a.reg, tui.Options{Version: version, Menu: a.cfg.Menu})
		},
	}
	root.SetVersionTemplate("devtool-installer {{.Version}}\n")
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default $"+config.EnvConfigPath+" or the user config dir)")

	root.AddCommand(newDoctorCmd(a), newInstallCmd(a), newVersionCmd())
	return root
}

// setup loads config, starts logging and builds the registry.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.cfgFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	closeLog, err := logging.Init(cfg.Log, logging.Options{Version: version})
	if err != nil {
		return fmt.Errorf("starting logger: %w", err)
	}
	a.closeLog = closeLog

	a.reg = registry.New(tools.Catalog(cfg), registry.WithConcurrency(cfg.Detect.Concurrency))
	slog.Info("starting", "command", cmd.Name(), "config", path, "tools", a.reg.Len())
	return nil
}

func newDoctorCmd(a *app) *cobra.Command {
	var versions bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Print which tools are installed, grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := doctor.RunTo(cmd.Context(), cmd.OutOrStdout(), a.reg, doctor.Options{Versions: versions})
			return err
		},
	}
	cmd.Flags().BoolVar(&versions, "versions", false, "ask installed tools for their version")
	return cmd
}

func newInstallCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "install [--force] <name>...",
		Short: "Install tools by name without the interactive menu",
		Example: `  devtool-installer install Git "Node.js" NPM
  devtool-installer install --force "VS Code Settings"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), cmd.OutOrStdout(), a.reg, args, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "reinstall tools that are already installed")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Nothing to load.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "devtool-installer %s\n", version)
		},
	}
}

// runInstall installs the named tools through the same sequencer as the
// menu, printing progress to w. It fails when any tool failed or was
// blocked, or when the run was interrupted.
func runInstall(ctx context.Context, w io.Writer, reg *registry.Registry, names []string, force bool) error {
	for _, n := range names {
		if reg.InstallerByName(n) == nil {
			return fmt.Errorf("unknown tool %q (run \"devtool-installer doctor\" to list tools)", n)
		}
	}

	m := menu.New(reg)
	m.Load(ctx)
	for _, e := range m.Entries() {
		for _, n := range names {
			if installer.SameName(e.Info().Name, n) {
				e.Selected = true
			}
		}
	}
	if force {
		m.ToggleForce()
	}

	batch := m.Commit()
	if batch == nil {
		platform.PrintOK(w, "Nothing to do: every requested tool is already installed. Use --force to reinstall.")
		return nil
	}

	if batch.NeedsSudo() && !sudoCached() {
		// Installs capture their output, so sudo gets the terminal now.
		if err := primeSudo(); err != nil {
			slog.Warn("sudo authentication failed", "err", err)
			platform.PrintWarn(w, "sudo authentication failed; system package installs will fail")
		}
	}

	r := installer.NewWriterReporter(w)
	batch.Run(ctx, reg, func(i int, it *menu.Item) installer.Reporter {
		platform.PrintStep(w, i+1, batch.Total(), it.Name())
		r.Reset()
		return r
	}, nil)

	platform.PrintBanner(w, "Summary")
	fmt.Fprintf(w, "Succeeded: %d\nFailed:    %d\n", batch.Succeeded, batch.Failed)
	if batch.Blocked > 0 {
		var blocked []string
		for _, it := range batch.Items {
			if it.Outcome == menu.Blocked {
				blocked = append(blocked, fmt.Sprintf("%s (needs %s)", it.Name(), strings.Join(it.Unmet, ", ")))
			}
		}
		fmt.Fprintf(w, "Blocked:   %d: %s\n", batch.Blocked, strings.Join(blocked, "; "))
	}
	fmt.Fprintf(w, "Total:     %d/%d\n", batch.Attempted(), batch.Total())

	switch {
	case batch.Cancelled():
		return errors.New("installation cancelled")
	case batch.Failed+batch.Blocked > 0:
		return fmt.Errorf("%d of %d tools did not install", batch.Failed+batch.Blocked, batch.Total())
	}
	return nil
}
