// Package cli wires the practicecomp commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/practicecomp/compensation-engine/internal/calculation"
	"github.com/practicecomp/compensation-engine/internal/config"
	"github.com/practicecomp/compensation-engine/internal/domain"
	"github.com/practicecomp/compensation-engine/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Environment variables read for flag defaults (a .env file is honored)
const (
	EnvConfig    = "PRACTICECOMP_CONFIG"
	EnvLogLevel  = "PRACTICECOMP_LOG_LEVEL"
	EnvLogFormat = "PRACTICECOMP_LOG_FORMAT"
)

type app struct {
	configPath string
	logLevel   string
	logFormat  string

	out    io.Writer
	logger *zap.SugaredLogger
}

// NewRootCommand builds the command tree. Reports go to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: logging.NewNop()}

	root := &cobra.Command{
		Use:           "practicecomp",
		Short:         "Practice compensation and multi-year projection engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.NewLogger(a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", os.Getenv(EnvConfig), "practice configuration YAML (env "+EnvConfig+")")
	flags.StringVar(&a.logLevel, "log-level", envOr(EnvLogLevel, "warn"), "debug, info, warn or error (env "+EnvLogLevel+")")
	flags.StringVar(&a.logFormat, "log-format", envOr(EnvLogFormat, "console"), "console or json")

	root.AddCommand(
		a.newRunCommand(),
		a.newProjectCommand(),
		a.newSnapshotCommand(),
		a.newTaxesCommand(),
		a.newHistoryCommand(),
		a.newPortionCommand(),
		a.newExampleCommand(),
	)
	return root
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (a *app) loadConfig() (*domain.Configuration, error) {
	if a.configPath == "" {
		return nil, fmt.Errorf("no configuration: pass --config or set %s", EnvConfig)
	}
	cfg, err := config.NewInputParser().LoadFromFile(a.configPath)
	if err != nil {
		return nil, err
	}
	a.logger.Infow("configuration loaded", "path", a.configPath, "scenarios", len(cfg.Scenarios), "history_rows", len(cfg.History))
	return cfg, nil
}

func (a *app) engine(debug bool) *calculation.CompensationEngine {
	ce := calculation.NewCompensationEngine()
	ce.Debug = debug
	ce.SetLogger(a.logger)
	return ce
}

// selectScenarios narrows cfg to the named scenario when name is set
func selectScenarios(cfg *domain.Configuration, name string) error {
	if name == "" {
		return nil
	}
	s, ok := cfg.FindScenario(name)
	if !ok {
		return fmt.Errorf("scenario %q not found", name)
	}
	cfg.Scenarios = []domain.Scenario{*s}
	return nil
}
