package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/logging"
	"tableflip.dev/propertease/pkg/record"
	"tableflip.dev/propertease/pkg/store"
)

// Loader opens the persistence commands run against.
type Loader func(cfg *store.FileConfig, log *zap.Logger) (store.Persistence, error)

func diskvLoader(cfg *store.FileConfig, log *zap.Logger) (store.Persistence, error) {
	return store.Load(cfg, store.WithLogger(log))
}

// env lazily builds the configuration, logger and services shared by every
// subcommand of one invocation.
type env struct {
	load     Loader
	config   func() (*store.FileConfig, error)
	now      func() time.Time
	logLevel string

	cfg *store.FileConfig
	log *zap.Logger
	svc *app.Service
}

func New() *cobra.Command {
	return NewWithLoader(diskvLoader)
}

// NewWithLoader builds the command tree over the persistence returned by load.
func NewWithLoader(load Loader) *cobra.Command {
	return newRoot(&env{load: load, config: store.LoadConfig})
}

func newRoot(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use: "propertease",
		Short: base.Wrap80("Plan a real estate social media calendar: one idea, " +
			"category and image prompt per day."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&e.logLevel, "log-level", "",
		"Log level: debug, info, warn or error. Overrides logLevel in .propertease.yaml.")

	AddCommands(cmd, e)
	return cmd
}

func AddCommands(topLevel *cobra.Command, e *env) {
	addMonth(topLevel, e)
	addNav(topLevel, e)
	addDay(topLevel, e)
	addGenerate(topLevel, e)
	addPrompt(topLevel, e)
	addAutoSchedule(topLevel, e)
	addExport(topLevel, e)
	addCategories(topLevel, e)
	addWatch(topLevel, e)
	addInfo(topLevel, e)
	addMCP(topLevel, e)
	addVersion(topLevel)
	addCompletions(topLevel, e)
}

func (e *env) loadConfig() (*store.FileConfig, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	return cfg, nil
}

func (e *env) logger() (*zap.Logger, error) {
	if e.log != nil {
		return e.log, nil
	}
	level := e.logLevel
	if level == "" {
		cfg, err := e.loadConfig()
		if err != nil {
			return nil, err
		}
		level = cfg.LogLevel
	}
	l, err := logging.New(level)
	if err != nil {
		return nil, err
	}
	e.log = l
	return l, nil
}

func settingsFrom(cfg *store.FileConfig) (app.Settings, error) {
	s := app.DefaultSettings()
	if strings.TrimSpace(cfg.Category) != "" {
		c, err := record.ParseCategory(cfg.Category)
		if err != nil {
			return app.Settings{}, fmt.Errorf("config category: %w", err)
		}
		s.Category = c
	}
	if strings.TrimSpace(cfg.StylePack) != "" {
		s.StylePack = cfg.StylePack
	}
	s.AllowProject = cfg.AllowProject
	return s, nil
}

// service returns the app.Service for this invocation.
func (e *env) service() (*app.Service, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := e.logger()
	if err != nil {
		return nil, err
	}
	settings, err := settingsFrom(cfg)
	if err != nil {
		return nil, err
	}
	p, err := e.load(cfg, log)
	if err != nil {
		return nil, err
	}
	e.svc = &app.Service{
		Persistence: p,
		Settings:    settings,
		Logger:      log,
		Now:         e.now,
	}
	return e.svc, nil
}

// month resolves an optional YYYY-MM argument, defaulting to the last month.
func (e *env) month(ctx context.Context, args []string) (calendar.MonthKey, error) {
	svc, err := e.service()
	if err != nil {
		return "", err
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return svc.LastMonth(ctx)
	}
	return calendar.ParseMonthKey(strings.TrimSpace(args[0]))
}

// day resolves a YYYY-MM-DD argument or a bare day number of the last month.
func (e *env) day(ctx context.Context, raw string) (calendar.DayKey, error) {
	svc, err := e.service()
	if err != nil {
		return "", err
	}
	month, err := svc.LastMonth(ctx)
	if err != nil {
		return "", err
	}
	return app.ParseDay(raw, month)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
