package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/miosa/osa-chat/app"
	"github.com/miosa/osa-chat/client"
	"github.com/miosa/osa-chat/clipboard"
	"github.com/miosa/osa-chat/config"
	"github.com/miosa/osa-chat/logger"
	"github.com/miosa/osa-chat/style"
	"github.com/miosa/osa-chat/tokenizer"
)

var version = "dev"

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config.toml")
	initConfig := flag.Bool("init", false, "Write a default config file and exit")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.BoolVar(showVersion, "V", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("osa-chat %s\n", version)
		os.Exit(0)
	}

	if *initConfig {
		if err := config.Save(*configPath, config.Default()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *configPath)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	closeLog := logger.Init(logger.Config{
		DataDir: config.Dir(),
		File:    cfg.Log.File,
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
	})
	defer closeLog()

	if *noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	switch {
	case cfg.Theme != "":
		if !style.SetTheme(cfg.Theme) {
			slog.Warn("unknown theme, using auto-detect", "theme", cfg.Theme)
			autoTheme()
		}
	default:
		autoTheme()
	}

	slog.Info("starting", "version", version, "endpoint", cfg.BaseURL, "theme", style.CurrentThemeName)

	m := app.New(client.New(cfg.BaseURL), app.Options{
		Endpoint: cfg.BaseURL,
		Version:  version,
		WordWrap: cfg.WordWrap,
		Sidebar:  cfg.Sidebar,
		Copier:   clipboard.System{},
		LoadTokenizer: func() (*tokenizer.Counter, error) {
			return tokenizer.Load(tokenizer.DefaultEncoding)
		},
		Log: slog.Default(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		slog.Error("program exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// autoTheme picks light or dark from the terminal background.
func autoTheme() {
	if lipgloss.HasDarkBackground() {
		style.SetTheme("dark")
	} else {
		style.SetTheme("light")
	}
}
