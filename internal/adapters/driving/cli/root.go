// Package cli implements the Metrick command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/charislam/metrick/internal/adapters/driven/config/file"
	"github.com/charislam/metrick/internal/adapters/driven/docsource/rest"
	"github.com/charislam/metrick/internal/adapters/driven/generation/openai"
	"github.com/charislam/metrick/internal/adapters/driven/storage/sqlite"
	"github.com/charislam/metrick/internal/core/ports/driven"
	"github.com/charislam/metrick/internal/core/ports/driving"
	"github.com/charislam/metrick/internal/core/services"
	"github.com/charislam/metrick/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services wired in initServices and used by the command handlers.
var (
	store           *sqlite.Store
	samplerService  driving.SamplerService
	questionService driving.QuestionService
	sessionService  driving.SessionManager
	settingsService driving.SettingsService
)

var (
	verboseFlag bool
	dataDirFlag string
	configDir   string
)

var rootCmd = &cobra.Command{
	Use:   "metrick",
	Short: "Build and annotate relevance-judgment datasets for documentation search",
	Long: `Metrick builds evaluation datasets for documentation search quality.

It draws stratified samples from a documentation source, generates and
curates annotation questions, and records relevancy judgements for every
question-document pair in an annotation session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		// Version and help need no storage.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.metrick/data)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.metrick)")
}

// initServices builds the adapter and service graph for one command
// invocation.
func initServices() error {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService = services.NewSettingsService(configStore)

	store, err = sqlite.NewStore(dataDirFlag)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	invalidations := services.NewInvalidations()

	// The document source and the question generator are optional
	// until configured. Reads still work without them; operations
	// that need them fail with a pointer at the settings command.
	var source driven.DocumentSource
	if baseURL := settingsService.SourceBaseURL(); baseURL != "" {
		s, err := rest.NewSource(rest.Config{
			BaseURL: baseURL,
			APIKey:  settingsService.SourceAPIKey(),
		})
		if err != nil {
			return fmt.Errorf("configuring document source: %w", err)
		}
		source = s
	}
	samplerService = services.NewSamplerService(store.Samples(), source, invalidations)

	var generator driven.QuestionGenerator
	if apiKey := settingsService.APIKey(); apiKey != "" {
		g, err := openai.NewGenerator(openai.Config{APIKey: apiKey})
		if err != nil {
			return fmt.Errorf("configuring question generator: %w", err)
		}
		generator = g
	}
	questionService = services.NewQuestionService(store.Questions(), store.Samples(), generator, settingsService, invalidations)

	sessionService = services.NewSessionService(store.Sessions(), store.Questions(), store.Samples(), invalidations)
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
