package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sentralab/sentra/internal/model"
)

const version = "0.1.0"

var (
	cfgFile string
	verbose bool
	jsonOut bool

	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sentra",
	Short: "Sentra - deterministic content threat analysis",
	Long: `Sentra scores text content for threat signals: weighted pattern
categories, entity co-occurrence, and sentiment, folded into a 0-100
risk score with a reasoning trace you can replay.

The verdict is deterministic and computed locally. An LLM provider,
when configured, can annotate a verdict; it can never change or
replace one.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx flowing into every RunE.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("sentra v" + version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sentra/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit raw JSON instead of the summary view")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.json", rootCmd.PersistentFlags().Lookup("json"))

	rootCmd.AddCommand(versionCmd)
}

// addLLMFlags registers the shared enhancement flags on a command.
func addLLMFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM enhancement of verdicts")
	cmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (provider default when empty)")
}

// initConfig reads in config file and SENTRA_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.sentra")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SENTRA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Bound explicitly: environment-only settings must survive the merge
	// into the typed config.
	for _, key := range []string{
		"engine.anonymize", "engine.local_mode",
		"llm.provider", "llm.model", "llm.base_url",
		"server.port", "cache.enabled",
	} {
		_ = viper.BindEnv(key)
	}

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration: defaults, then the config
// file and bound environment variables, then per-command flags on top.
// Decoding is weakly typed, so env strings fill bool and duration fields.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}

	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	cfg.Output.JSON = cfg.Output.JSON || jsonOut
	return cfg, nil
}

// applyLLMFlags switches on enhancement when --llm is set and resolves the
// provider credential from the environment, the only place keys are
// accepted from.
func applyLLMFlags(cfg *model.Config) error {
	if llmEnabled {
		cfg.Engine.LocalMode = false
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
	}
	if cfg.Engine.LocalMode || cfg.LLM.Provider == "" {
		return nil
	}

	switch cfg.LLM.Provider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return nil
}
