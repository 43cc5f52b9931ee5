package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Akamitori/qcvault/internal/archive"
	"github.com/Akamitori/qcvault/internal/config"
)

var cfgFile string
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "qcvault",
	Short: "qcvault - validate and load a post archive",
	Long: `qcvault loads a directory of post files, validates every file against
a schema, rejects archives with duplicate titles and returns the posts
newest first.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig(_ *cobra.Command) error {
	v := viper.New()

	v.SetDefault("archiveDir", "posts")
	v.SetDefault("schemaFile", "")
	v.SetDefault("addr", ":1313")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("QCVAULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	configErr := v.ReadInConfig()
	if configErr != nil {
		if _, ok := configErr.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", configErr)
		}
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	logger, err := config.NewLogger(appConfig.Log, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if configErr != nil {
		slog.Debug("no config file found, using defaults and environment")
	} else {
		slog.Debug("using config file", "path", v.ConfigFileUsed())
	}
	return nil
}

// archiveDir picks the directory argument over the configured one.
func archiveDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return appConfig.ArchiveDir
}

func loadSchema() (*archive.Schema, error) {
	if appConfig.SchemaFile == "" {
		return archive.DefaultSchema()
	}
	return archive.LoadSchema(appConfig.SchemaFile)
}
