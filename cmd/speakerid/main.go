package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/alkime/speakerid/internal/backend"
	"github.com/alkime/speakerid/internal/batch"
	"github.com/alkime/speakerid/internal/config"
	"github.com/alkime/speakerid/internal/enrollment"
	"github.com/alkime/speakerid/internal/logger"
	"github.com/alkime/speakerid/internal/server"
	"github.com/alkime/speakerid/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
)

// CLI defines the speakerid command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch terminal UI for enrollment and transcription"`

	// Subcommands
	Batch BatchCmd `cmd:"" help:"Enroll speakers and transcribe a conversation without the UI"`
	Serve ServeCmd `cmd:"" help:"Run a development recognition backend"`
}

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	Backend string `flag:"" optional:"" help:"Backend base URL (overrides BACKEND_URI)"`
}

// Run executes the TUI command.
func (c *TUICmd) Run(cfg *config.Config) error {
	if err := applyBackend(cfg, c.Backend); err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to LOG_FILE or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		//nolint:gosec // Log file path comes from the operator's environment
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()

		out = f
	}

	log := logger.SetupLogger(cfg, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctl := enrollment.New(log)
	if err := ctl.SelectSpeakerCount(cfg.DefaultSpeakers); err != nil {
		return fmt.Errorf("invalid default speaker count: %w", err)
	}

	client := newClient(cfg, log)

	p := tea.NewProgram(
		tui.New(tui.Config{Context: ctx, Cancel: cancel}, ctl, client),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	if text := ctl.Transcription(); text != "" {
		fmt.Println(text)
	}

	return nil
}

// BatchCmd runs the whole workflow from flags or a roster file.
type BatchCmd struct {
	Speaker      []string `flag:"" short:"s" sep:"none" placeholder:"NAME=PATH" help:"Speaker name and voice sample (repeatable)"`
	Conversation string   `flag:"" short:"c" type:"path" help:"Conversation recording to transcribe"`
	Roster       string   `flag:"" type:"existingfile" help:"YAML roster of speakers and conversation"`
	Backend      string   `flag:"" optional:"" help:"Backend base URL (overrides BACKEND_URI)"`
}

// Run executes the batch command.
func (c *BatchCmd) Run(cfg *config.Config) error {
	if err := applyBackend(cfg, c.Backend); err != nil {
		return err
	}

	log := logger.SetupLogger(cfg, os.Stderr)

	var (
		plan batch.Plan
		err  error
	)

	if c.Roster != "" {
		plan, err = batch.PlanFromRoster(c.Roster, c.Conversation)
	} else {
		plan, err = batch.PlanFromFlags(c.Speaker, c.Conversation)
	}

	if err != nil {
		return fmt.Errorf("invalid batch input: %w", err)
	}

	ctl := enrollment.New(log)

	text, err := batch.Run(context.Background(), ctl, newClient(cfg, log), plan)
	if err != nil {
		return err
	}

	fmt.Println(text)

	return nil
}

// ServeCmd runs the development backend.
type ServeCmd struct {
	Port string `flag:"" optional:"" help:"Listen port (overrides PORT)"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(cfg *config.Config) error {
	if c.Port != "" {
		cfg.Port = c.Port
	}

	log := logger.SetupLogger(cfg, os.Stdout)

	log.Info("Starting development backend",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := server.Run(server.New(cfg, log)); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

func applyBackend(cfg *config.Config, uri string) error {
	if uri != "" {
		cfg.BackendURI = uri
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

func newClient(cfg *config.Config, log *slog.Logger) *backend.Client {
	return backend.NewClient(backend.ClientConfig{
		BaseURL: cfg.BackendURI,
		Timeout: cfg.BackendTimeout,
		Logger:  log,
	})
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("speakerid"),
		kong.Description("Enroll speakers by voice sample, then transcribe conversations."),
		kong.UsageOnError(),
		kong.Bind(cfg),
	)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
