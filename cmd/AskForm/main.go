package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/AskForm/internal/config"
	"github.com/VarunSharma3520/AskForm/internal/fs"
	"github.com/VarunSharma3520/AskForm/internal/llm"
	"github.com/VarunSharma3520/AskForm/internal/logger"
	"github.com/VarunSharma3520/AskForm/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Printf("Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup so it completes before main exits.
func run() error {
	apiURL := flag.String("api-url", "", "base URL of the service exposing /api/ask (default from ASKFORM_API_URL or saved settings)")
	taskFlag := flag.String("task", "", "task id to associate prompts with")
	subtaskFlag := flag.String("subtask", "", "subtask id to associate prompts with")
	style := flag.String("style", "", "reply style: auto, dark, light, notty or plain")
	flag.Parse()

	// Ensure vault exists before starting UI
	if err := fs.EnsureVaultExists(config.VaultPath()); err != nil {
		return fmt.Errorf("failed to ensure vault folder exists: %w", err)
	}

	appLogger, err := logger.NewLogger(config.LogPath())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	if *apiURL == "" {
		*apiURL = config.APIURL()
	}
	if *style == "" {
		*style = config.Style()
	}

	taskID, err := resolveID(*taskFlag, config.TaskID)
	if err != nil {
		return fmt.Errorf("invalid task id: %w", err)
	}
	subtaskID, err := resolveID(*subtaskFlag, config.SubtaskID)
	if err != nil {
		return fmt.Errorf("invalid subtask id: %w", err)
	}

	appLogger.Info("Starting AskForm", map[string]interface{}{
		"api_url": *apiURL,
		"style":   *style,
		"vault":   config.VaultPath(),
	})

	client := llm.NewClient(*apiURL, nil, appLogger)

	p := tea.NewProgram(
		ui.InitialModel(ui.Options{
			Client:    client,
			Logger:    appLogger,
			TaskID:    taskID,
			SubtaskID: subtaskID,
			Style:     *style,
		}),
		tea.WithAltScreen(),
		tea.WithOutput(os.Stdout),
	)

	if _, err := p.Run(); err != nil {
		appLogger.Error("TUI exited with error", err, nil)
		return err
	}
	return nil
}

// resolveID prefers the flag value and falls back to the configured id.
func resolveID(flagValue string, fallback func() (*int64, error)) (*int64, error) {
	if flagValue == "" {
		return fallback()
	}
	id, err := config.ParseID(flagValue)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
