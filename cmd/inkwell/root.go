package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inkwell"
)

var (
	verbose     bool
	apiURL      string
	configPath  string
	sessionFile string

	cfg *inkwell.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "A command-line client for a personal notes service",
	Long: `inkwell keeps you logged in to a notes service and lets you list,
search, create, edit and delete your notes from the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := inkwell.LoadConfig(configPath)
		if err != nil {
			fatal("Failed to load config", err)
		}
		cfg = loaded

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Notes service base URL (default from config, then "+inkwell.DefaultAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $INKWELL_CONFIG, ./.inkwell.yaml, ~/.config/inkwell/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "Where the login session is stored")
}

// openNotebook builds a Notebook from config, environment and flags, in
// increasing order of precedence.
func openNotebook(extra ...inkwell.Option) *inkwell.Notebook {
	url := cfg.APIURL
	if apiURL != "" {
		url = apiURL
	}

	opts := []inkwell.Option{inkwell.WithLogger(slog.Default())}
	opts = append(opts, cfg.Options()...)
	if sessionFile != "" {
		opts = append(opts, inkwell.WithSessionFile(sessionFile))
	}
	opts = append(opts, extra...)

	nb, err := inkwell.New(url, opts...)
	if err != nil {
		fatal("Failed to initialize inkwell", err)
	}
	return nb
}
