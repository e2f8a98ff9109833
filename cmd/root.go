package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/skillpath/internal/app"
	"github.com/abhisek/skillpath/internal/config"
	"github.com/abhisek/skillpath/internal/logging"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:          "skillpath",
	Short:        "Skill assessments and job role readiness",
	Long:         "SkillPath tracks a learner's skills, runs timed assessments and reports readiness for job roles.",
	SilenceUsage: true,
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Path to config file (default: skillpath.yaml in the user config dir or cwd)")
	pf.String("db", "", "Path to SQLite database file (overrides SKILLPATH_DATABASE_PATH)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-file", "", "Write JSON logs to this file instead of stderr")
	pf.StringP("user", "u", defaultUser(), "Learner ID (default from SKILLPATH_USER)")

	_ = v.BindPFlag("database.path", pf.Lookup("db"))
	_ = v.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = v.BindPFlag("log.file", pf.Lookup("log-file"))

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(gapCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(adaptiveCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultUser() string {
	if u := os.Getenv("SKILLPATH_USER"); u != "" {
		return u
	}
	return "local"
}

func userFlag(cmd *cobra.Command) (string, error) {
	u, _ := cmd.Flags().GetString("user")
	if u == "" {
		return "", fmt.Errorf("--user is required")
	}
	return u, nil
}

// openDeps loads configuration and builds the dependency graph. Commands
// that draw a TUI log to a file next to the database unless a log file
// is configured.
func openDeps(cmd *cobra.Command, tui bool) (*app.Deps, error) {
	cfg, err := config.Load(config.Options{ConfigFile: cfgFile, Viper: v})
	if err != nil {
		return nil, err
	}
	if tui && cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(cfg.Database.Path), "skillpath.log")
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	d, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return d, nil
}
