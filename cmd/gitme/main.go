package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/marcin-skalski/gitme/internal/board"
	"github.com/marcin-skalski/gitme/internal/config"
	"github.com/marcin-skalski/gitme/internal/github"
	"github.com/marcin-skalski/gitme/internal/launch"
	"github.com/marcin-skalski/gitme/internal/logging"
	"github.com/marcin-skalski/gitme/internal/refresh"
	"github.com/marcin-skalski/gitme/internal/telemetry"
	"github.com/marcin-skalski/gitme/internal/tui"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "add-repo":
			return addRepo(args[1:])
		case "remove-repo":
			return removeRepo(args[1:])
		case "--version", "version":
			fmt.Println("gitme", version)
			return nil
		}
	}

	defaultConfig, err := config.DefaultPath()
	if err != nil {
		return err
	}

	var configPath, logLevel, logFile string
	var noTUI bool
	flagSet := pflag.NewFlagSet("gitme", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", defaultConfig, "path to config file")
	flagSet.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config")
	flagSet.StringVar(&logFile, "log-file", "", "log file path; overrides the config")
	flagSet.BoolVar(&noTUI, "no-tui", false, "run the refresh loop without the terminal UI")
	flagSet.Usage = func() { printHelp(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}

	enableTUI := !noTUI && os.Getenv("GITME_TUI") != "0" &&
		isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	logger, closer, err := logging.Setup(logging.Options{File: cfg.LogFile, Level: cfg.Log.Level, TUI: enableTUI})
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, version)
	if err != nil {
		logger.Warn("tracing disabled", "err", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("flush traces", "err", err)
			}
		}()
	}

	token, err := github.ResolveToken(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	gh := github.NewClient(github.Options{BaseURL: cfg.APIURL, Token: token}, logger)

	username := cfg.Username
	if username == "" {
		me, err := gh.AuthenticatedUser(ctx)
		if err != nil {
			return fmt.Errorf("resolve username (set username in %s to skip): %w", configPath, err)
		}
		username = me.Login
		logger.Info("using authenticated user", "user", username)
	}

	state := board.NewState()
	rec := refresh.New(state, gh, cfg.Repositories, username, logger)

	if !enableTUI {
		logger.Info("gitme starting (headless)", "config", configPath, "version", version)
		rec.OnUpdate(func() { logSummary(logger, state) })
		return rec.Run(ctx, cfg.RefreshInterval)
	}

	paths := make(map[string]string, len(cfg.Repositories))
	for _, repo := range cfg.Repositories {
		paths[repo.FullName()] = repo.Dir()
	}

	m := tui.NewModel(ctx, tui.Options{
		State:     state,
		Refresher: rec,
		Launcher:  launch.New(cfg.Command, cfg.CommandArgs, logger),
		Paths:     paths,
		Username:  username,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	rec.OnUpdate(func() { p.Send(tui.StateChangedMsg{}) })

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("gitme starting", "config", configPath, "version", version)
		if err := rec.Run(loopCtx, cfg.RefreshInterval); err != nil {
			logger.Error("refresh loop", "err", err)
		}
	}()

	_, err = p.Run()
	cancel()
	<-done
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// logSummary reports the board after each state change in headless mode.
func logSummary(logger *slog.Logger, state *board.State) {
	st := state.CurrentLoadingState()
	switch st.Kind {
	case board.Loaded:
		snap := state.Snapshot()
		logger.Info("board updated",
			"repo", st.Repo,
			"review_requested", snap.Counts[board.PanelReview],
			"assigned", snap.Counts[board.PanelAssigned])
	case board.Failed:
		logger.Error("refresh failed", "repo", st.Repo, "err", st.Message)
	}
}

func addRepo(args []string) error {
	var configPath, path string
	flagSet := pflag.NewFlagSet("add-repo", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to config file")
	flagSet.StringVar(&path, "path", "", "local checkout used by the review command")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return errors.New("usage: gitme add-repo OWNER/NAME [--path DIR]")
	}

	owner, name, err := config.ParseRepository(flagSet.Arg(0))
	if err != nil {
		return err
	}
	return editConfig(configPath, os.Stdout, func(cfg *config.Config) error {
		return cfg.AddRepository(config.RepoConfig{Owner: owner, Name: name, SystemPath: path})
	}, "added "+owner+"/"+name)
}

func removeRepo(args []string) error {
	var configPath string
	flagSet := pflag.NewFlagSet("remove-repo", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "path to config file")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if flagSet.NArg() != 1 {
		return errors.New("usage: gitme remove-repo OWNER/NAME")
	}

	owner, name, err := config.ParseRepository(flagSet.Arg(0))
	if err != nil {
		return err
	}
	return editConfig(configPath, os.Stdout, func(cfg *config.Config) error {
		return cfg.RemoveRepository(owner, name)
	}, "removed "+owner+"/"+name)
}

func editConfig(configPath string, out io.Writer, edit func(*config.Config) error, done string) error {
	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	cfg, err := config.LoadOrEmpty(configPath)
	if err != nil {
		return err
	}
	if err := edit(cfg); err != nil {
		return err
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (%s)\n", done, configPath)
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `gitme shows the open pull requests waiting for your review and the ones
assigned to you, grouped by repository.

Usage:
  gitme [flags]
  gitme add-repo OWNER/NAME [--path DIR]
  gitme remove-repo OWNER/NAME

Flags:
%s`, flagSet.FlagUsages())
}
