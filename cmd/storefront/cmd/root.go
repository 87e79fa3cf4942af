// Package cmd implements the storefront CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/storefront/internal/config"
	"github.com/donaldgifford/storefront/internal/dummyjson"
	"github.com/donaldgifford/storefront/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "storefront",
		Short: "Browse the demo catalog and manage a cart",
		Long: "storefront is a command-line client for a product catalog API.\n" +
			"It pages through and searches products, keeps favorites, and\n" +
			"manages a shopping cart seeded from a server-held cart.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default $HOME/.storefront.yaml)")
	rootCmd.PersistentFlags().
		String("api", "", "catalog API base URL (default https://dummyjson.com)")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		String("log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().
		Bool("quiet", false, "discard all log output")

	cobra.CheckErr(viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))
	cobra.CheckErr(viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format")))
	cobra.CheckErr(viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")))

	rootCmd.AddCommand(productsCmd())
	rootCmd.AddCommand(cartCmd())
	rootCmd.AddCommand(shopCmd())
	rootCmd.AddCommand(mockServerCmd())
	rootCmd.AddCommand(versionCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".storefront")
	}

	viper.SetEnvPrefix("STOREFRONT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig reads the config file viper found, or the defaults when there
// is none, then applies flag and environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if path := viper.ConfigFileUsed(); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if v := viper.GetString("api.base_url"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := viper.GetString("logging.level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("logging.format"); v != "" {
		cfg.Logging.Format = v
	}
	if v := viper.GetInt("cart.id"); v > 0 {
		cfg.Cart.ID = v
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	if viper.GetBool("quiet") {
		return logger.Discard()
	}
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}

func newClient(cfg *config.Config, log *slog.Logger) *dummyjson.Client {
	c, _ := newLimitedClient(cfg, log)
	return c
}

// newLimitedClient also returns the client's rate limiter, for callers that
// report how many remote calls went out.
func newLimitedClient(cfg *config.Config, log *slog.Logger) (*dummyjson.Client, *dummyjson.RateLimiter) {
	rl := dummyjson.NewRateLimiter(cfg.API.RateLimit.PerSecond, cfg.API.RateLimit.Burst)
	log.Debug("remote catalog client",
		"base_url", cfg.API.BaseURL,
		"rate_per_second", cfg.API.RateLimit.PerSecond,
		"burst", rl.Burst(),
	)
	return dummyjson.NewClient(
		dummyjson.WithBaseURL(cfg.API.BaseURL),
		dummyjson.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		dummyjson.WithRateLimiter(rl),
		dummyjson.WithLogger(logger.Component(log, "dummyjson")),
	), rl
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
