package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime/debug"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/lamchakchan/devtool-installer/internal/config"
	"github.com/lamchakchan/devtool-installer/internal/menu"
	"github.com/lamchakchan/devtool-installer/internal/platform"
)

// NotInteractiveMessage is printed when there is no console to draw on.
const NotInteractiveMessage = "This application requires an interactive console environment."

// ErrNotInteractive is returned by Run when stdin or stdout is not a terminal.
var ErrNotInteractive = errors.New("no interactive console")

// Seams for tests.
var (
	isInteractive  = platform.IsInteractive
	restartCommand = platform.RestartCommand
	sudoCached     = platform.SudoCached
	sudoValidate   = platform.SudoValidateCommand
)

// Options configure the interactive menu.
type Options struct {
	Version string
	Menu    config.MenuConfig
}

// appModel is the root model that manages the navigation stack.
type appModel struct {
	stack     []tea.Model // view navigation stack
	width     int
	height    int
	theme     Theme
	altScreen bool
	fault     string // recovered panic shown until the next key
	restart   bool   // run the restart command after exit
}

// Run starts the interactive menu over cat and blocks until the user quits.
// It returns ErrNotInteractive, after printing a notice and waiting
// Menu.NonInteractiveDelay, when there is no terminal.
func Run(ctx context.Context, cat menu.Catalog, opts Options) error {
	if !isInteractive() {
		platform.PrintFail(os.Stderr, NotInteractiveMessage)
		slog.Warn("no interactive console")
		select {
		case <-ctx.Done():
		case <-time.After(opts.Menu.NonInteractiveDelay):
		}
		return ErrNotInteractive
	}

	theme := DefaultTheme()
	if accessible(os.Getenv) {
		theme = PlainTheme()
	}
	app := newApp(ctx, cat, opts, theme)

	p := tea.NewProgram(app, tea.WithContext(ctx))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if m, ok := result.(*appModel); ok && m.restart {
		return runRestart(restartCommand())
	}
	return nil
}

func newApp(ctx context.Context, cat menu.Catalog, opts Options, theme Theme) *appModel {
	app := &appModel{
		theme:     theme,
		altScreen: !theme.Plain,
	}
	app.stack = []tea.Model{newMenuView(ctx, cat, opts, &app.theme)}
	return app
}

// runRestart reboots the machine with the console attached so sudo can
// prompt.
func runRestart(cmd *exec.Cmd) error {
	slog.Info("restarting", "cmd", cmd.String())
	if err := platform.RunAttached(cmd); err != nil {
		return fmt.Errorf("running restart command: %w", err)
	}
	return nil
}

func (m *appModel) Init() tea.Cmd {
	if len(m.stack) > 0 {
		return m.stack[len(m.stack)-1].Init()
	}
	return nil
}

func (m *appModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.recovered("update", r)
			model, cmd = m, nil
		}
	}()

	if m.fault != "" {
		if _, ok := msg.(tea.KeyPressMsg); ok {
			m.fault = ""
			return m, nil
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.forward(msg)

	case PushViewMsg:
		m.stack = append(m.stack, msg.Model)
		initCmd := msg.Model.Init()
		// Forward current window size to newly pushed view.
		var sizeCmd tea.Cmd
		if m.width > 0 && m.height > 0 {
			sizeCmd = m.forward(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		return m, tea.Batch(initCmd, sizeCmd)

	case PopViewMsg:
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			return m, nil
		}
		return m, tea.Quit

	case restartMsg:
		m.restart = true
		return m, tea.Quit
	}

	return m, m.forward(msg)
}

// forward hands msg to the top of the stack.
func (m *appModel) forward(msg tea.Msg) tea.Cmd {
	if len(m.stack) == 0 {
		return nil
	}
	updated, cmd := m.stack[len(m.stack)-1].Update(msg)
	m.stack[len(m.stack)-1] = updated
	return cmd
}

func (m *appModel) recovered(where string, r any) {
	slog.Error("recovered panic in menu loop", "where", where, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
	m.fault = fmt.Sprint(r)
}

func (m *appModel) View() (v tea.View) {
	v.AltScreen = m.altScreen
	defer func() {
		if r := recover(); r != nil {
			m.recovered("view", r)
			v.Content = m.faultView()
		}
	}()

	if m.fault != "" {
		v.Content = m.faultView()
		return v
	}
	if len(m.stack) > 0 {
		v.Content = m.stack[len(m.stack)-1].View().Content
	}
	return v
}

func (m *appModel) faultView() string {
	return m.theme.Alert("Unexpected error: "+m.fault) + "\n\n" +
		m.theme.HelpDesc.Render("Press any key to continue")
}
