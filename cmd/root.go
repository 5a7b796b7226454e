// Package cmd holds the comorbidity command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ariebrainware/comorbidity-network/config"
	"github.com/ariebrainware/comorbidity-network/logger"
)

// state is filled by the root command before any subcommand runs.
type state struct {
	v       *viper.Viper
	envFile string
	cfg     *config.Config
	log     *logger.Logger
}

// RootCommand creates and returns the root command
func RootCommand() *cobra.Command {
	st := &state{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "comorbidity",
		Short:         "Disease comorbidity network",
		Long:          `Derive disease comorbidities from shared gene associations and serve them over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if err := setupFlags(rootCmd, st.v, &st.envFile); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		serveCommand(st),
		seedCommand(st),
		recomputeCommand(st),
		tokenCommand(st),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return st.initialize()
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if st.log != nil {
			st.log.Sync()
		}
	}

	return rootCmd
}

// setupFlags defines flags that override configuration keys.
func setupFlags(rootCmd *cobra.Command, v *viper.Viper, envFile *string) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(envFile, "env-file", ".env", "Path to an optional .env file")
	flags.String("db-driver", "", "Database driver: postgres, mysql or sqlite")
	flags.String("db-path", "", "SQLite database file")
	flags.Int("batch-size", 0, "Rows per upsert batch")
	flags.String("strategy", "", "Pair enumeration strategy: naive or indexed")

	bindings := map[string]string{
		"DBDRIVER":             "db-driver",
		"DBPATH":               "db-path",
		"BATCH_SIZE":           "batch-size",
		"COMORBIDITY_STRATEGY": "strategy",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}

func (st *state) initialize() error {
	var envFiles []string
	if st.envFile != "" {
		envFiles = append(envFiles, st.envFile)
	}
	cfg, err := config.LoadConfig(st.v, envFiles...)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	st.cfg = cfg
	st.log = log.With("app", cfg.AppName)
	return nil
}
