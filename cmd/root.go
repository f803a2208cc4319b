// Package cmd implements the careermatrix command line.
package cmd

import (
	"fmt"

	"careermatrix/config"
	"careermatrix/logger"
	"careermatrix/matrix"
	"careermatrix/store"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debugMode  bool
	storeKind  string
	dataDir    string
	serverURL  string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config

	version = "dev"
)

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "careermatrix",
	Short: "Edit career progression matrices in the terminal",
	Long: `careermatrix edits career matrices: a grid of job positions by
seniority levels, with free-text cells and colored arrows describing
progression paths between them.

Templates live in a local directory by default. Point --store remote and
--server-url at a running "careermatrix serve" to share them.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	cobra.OnInitialize(initLogging)
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default $HOME/.careermatrix/config.yaml)")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.StringVar(&storeKind, "store", "", "Template store: file, memory or remote")
	flags.StringVar(&dataDir, "data-dir", "", "Template directory for the file store")
	flags.StringVar(&serverURL, "server-url", "", "Base URL of the template server for the remote store")
}

func initLogging() {
	logger.SetDebug(debugMode)
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadAndMerge(configPath)
	if err != nil {
		return err
	}
	if storeKind != "" {
		loaded.Store.Kind = storeKind
	}
	if dataDir != "" {
		loaded.Store.Dir = dataDir
	}
	if serverURL != "" {
		loaded.Store.URL = serverURL
	}
	cfg = loaded
	return nil
}

// Execute runs the root command.
func Execute() error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func openStore() (store.Store, error) {
	st, err := store.Open(store.Options{Kind: cfg.Store.Kind, Dir: cfg.Store.Dir, URL: cfg.Store.URL})
	if err != nil {
		return nil, fmt.Errorf("error opening %s store: %w", cfg.Store.Kind, err)
	}
	return st, nil
}

// fallbackTemplate builds the template persisted for an unknown id. The
// built-in example is used unless the config names other axes.
func fallbackTemplate(id string) *matrix.Template {
	if cfg.Axes.Equal(matrix.DefaultAxes()) {
		return matrix.DefaultTemplate(id)
	}
	return matrix.NewTemplate(matrix.TemplateInfo{ID: id, Name: id}, cfg.Axes)
}
