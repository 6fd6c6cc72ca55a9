package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-client/internal/api"
	"github.com/nhle/todo-client/internal/app"
	"github.com/nhle/todo-client/internal/credential"
	"github.com/nhle/todo-client/internal/model"
	"github.com/nhle/todo-client/internal/session"
	"github.com/nhle/todo-client/internal/store"
	appsync "github.com/nhle/todo-client/internal/sync"
	"github.com/nhle/todo-client/internal/theme"
	"github.com/nhle/todo-client/internal/todo"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the YAML config file")
	serverFlag := flag.String("server", "", "override the API base URL")
	forget := flag.Bool("logout", false, "forget the remembered session and exit")
	flag.Parse()

	if err := run(*configPath, *serverFlag, *forget); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath, server string, forget bool) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if server != "" {
		cfg.API.BaseURL = strings.TrimRight(server, "/")
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// The TUI owns stdout, so everything logged goes to a file.
	logFile, err := tea.LogToFile(cfg.LogPath(), "")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	durable, err := credential.Open(cfg.Storage.CredentialsDir)
	if err != nil {
		log.Printf("durable keyring unavailable, falling back to memory: %v", err)
		durable = credential.Memory()
	}
	sess := session.New(durable, credential.Memory())

	if forget {
		if err := sess.Clear(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println("Sesi tersimpan telah dihapus.")
		return nil
	}

	if _, err := sess.Restore(); err != nil {
		log.Printf("restoring session: %v", err)
	}

	client := api.NewClient(cfg.API.BaseURL, sess,
		api.WithTimeout(time.Duration(cfg.API.TimeoutSec)*time.Second),
	)
	log.Printf("using todo API at %s", client.BaseURL())

	cache := todo.NewStore()
	ctrl := appsync.New(client, cache)

	history, err := store.NewSQLiteStore(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer history.Close()

	theme.Apply(cfg.Display.Theme)

	m := app.New(app.Deps{
		Session: sess,
		API:     client,
		Todos:   cache,
		Sync:    ctrl,
		History: history,

		Config:     cfg,
		ConfigPath: configPath,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
