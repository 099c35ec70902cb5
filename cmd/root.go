package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"easyapp_server/config"
	"easyapp_server/internal/ai"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "easyapp",
	Short: "easyapp - generate Android app.easy projects from a description and an icon",
	Long: `easyapp sends an app name, feature description, icon and AdMob app ID to a
generative model and packages the six returned project files into a zip archive.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loadDotEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
	rootCmd.AddCommand(serveCmd, generateCmd, validateCmd)
}

// loadDotEnv must run before viper reads the environment.
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		// It's common for .env to not exist (e.g., in production), so only log a warning
		// if the error is something other than "file not found".
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
	} else {
		log.Println("Info: Loaded environment variables from .env file.")
	}
}

func newGenerator(cfg config.Config) *ai.Generator {
	return ai.NewGenerator(ai.ProviderConfig{
		Provider: cfg.ModelProvider,
		APIKey:   cfg.APIKey(),
		Model:    cfg.Model(),
		BaseURL:  cfg.BaseURL(),
	})
}
