// Command chatterm runs the WhiteRabbit chat widget in a terminal against the
// configured text generator.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/config"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/persona"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/ai"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/chat"
)

var (
	personaID   string
	profileFile string
	startOpen   bool
)

var rootCmd = &cobra.Command{
	Use:   "chatterm",
	Short: "Chat with WhiteRabbit from the terminal",
	Long: `chatterm mounts one chat widget session and renders it in the terminal.

Keys:
  ctrl+t  open or close the widget
  enter   send the input line
  ctrl+c  quit`,
	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	rootCmd.Flags().StringVarP(&personaID, "persona", "p", "", "persona id (defaults to the first persona)")
	rootCmd.Flags().StringVar(&profileFile, "profile", "", "YAML profile file (overrides PROFILE_FILE)")
	rootCmd.Flags().BoolVar(&startOpen, "open", true, "start with the widget open")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if profileFile != "" {
		cfg.Profile.File = profileFile
	}

	var personas persona.Store = persona.NewSeedStore()
	if cfg.Profile.File != "" {
		if personas, err = persona.LoadFile(cfg.Profile.File); err != nil {
			return err
		}
	}

	// the TUI owns the terminal, so generator logs are discarded
	logger := zap.NewNop()
	generator := ai.Unconfigured(cfg.AI.Provider)
	if cfg.AI.Enabled() {
		if generator, err = ai.NewGenerator(cmd.Context(), cfg.AI, logger); err != nil {
			return fmt.Errorf("init generator: %w", err)
		}
	}

	svc := chat.NewService(personas, generator, chat.Options{Timeout: cfg.AI.ExchangeTimeout, Logger: logger})
	session, err := svc.CreateSession(context.Background(), personaID)
	if err != nil {
		return err
	}
	defer func() { _ = svc.DeleteSession(context.Background(), session.ID()) }()

	name := persona.Seed()[0].Name
	if p, ok := personas.FindByID(session.Snapshot().PersonaID); ok {
		name = p.Name
	}
	if startOpen {
		session.Open()
	}

	_, err = tea.NewProgram(newModel(session, name), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
