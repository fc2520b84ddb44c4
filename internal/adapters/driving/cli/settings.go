package cli

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the generation API key and the documentation
source endpoint.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key",
	Short: "Store the question generation API key",
	RunE:  runSettingsSetAPIKey,
}

var settingsRemoveAPIKeyCmd = &cobra.Command{
	Use:   "remove-api-key",
	Short: "Delete the stored API key",
	RunE:  runSettingsRemoveAPIKey,
}

var settingsSetSourceURLCmd = &cobra.Command{
	Use:   "set-source-url <url>",
	Short: "Set the documentation source endpoint",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsSetSourceURL,
}

var settingsSetSourceKeyCmd = &cobra.Command{
	Use:   "set-source-key",
	Short: "Store the documentation source bearer token",
	RunE:  runSettingsSetSourceKey,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetAPIKeyCmd)
	settingsCmd.AddCommand(settingsRemoveAPIKeyCmd)
	settingsCmd.AddCommand(settingsSetSourceURLCmd)
	settingsCmd.AddCommand(settingsSetSourceKeyCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	cmd.Println("Current Settings")
	cmd.Println("================")

	if key := settingsService.APIKey(); key != "" {
		cmd.Printf("API Key:    %s\n", maskAPIKey(key))
	} else {
		cmd.Println("API Key:    (not set)")
	}

	if url := settingsService.SourceBaseURL(); url != "" {
		cmd.Printf("Source URL: %s\n", url)
	} else {
		cmd.Println("Source URL: (not set)")
	}
	return nil
}

func runSettingsSetAPIKey(cmd *cobra.Command, _ []string) error {
	cmd.Print("Enter API key: ")
	key := readPassword()
	cmd.Println()
	if key == "" {
		return errors.New("no API key entered")
	}

	if err := settingsService.SetAPIKey(key); err != nil {
		return err
	}
	cmd.Println("API key saved.")
	return nil
}

func runSettingsRemoveAPIKey(cmd *cobra.Command, _ []string) error {
	if err := settingsService.RemoveAPIKey(); err != nil {
		return err
	}
	cmd.Println("API key removed.")
	return nil
}

func runSettingsSetSourceKey(cmd *cobra.Command, _ []string) error {
	cmd.Print("Enter source token (empty clears it): ")
	key := readPassword()
	cmd.Println()

	if err := settingsService.SetSourceAPIKey(key); err != nil {
		return err
	}
	if key == "" {
		cmd.Println("Source token cleared.")
	} else {
		cmd.Println("Source token saved.")
	}
	return nil
}

func runSettingsSetSourceURL(cmd *cobra.Command, args []string) error {
	url := strings.TrimRight(args[0], "/")
	if err := settingsService.SetSourceBaseURL(url); err != nil {
		return err
	}
	cmd.Printf("Source URL set to %s\n", url)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
