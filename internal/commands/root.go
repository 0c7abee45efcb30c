package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/balkashynov/cafedesk/internal/config"
	"github.com/balkashynov/cafedesk/internal/db"
	"github.com/balkashynov/cafedesk/internal/logging"
	"github.com/balkashynov/cafedesk/internal/session"
	"github.com/balkashynov/cafedesk/internal/timer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	verbose    bool
)

// app holds everything a command needs once initialized
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	store    *db.Store
	timers   *timer.Manager
	engine   *session.Engine
	closeLog func() error
}

var cafe *app

var rootCmd = &cobra.Command{
	Use:   "cafedesk",
	Short: "Prepaid session desk for a gaming cafe",
	Long: `cafedesk tracks consoles and PCs through prepaid sessions: plan and collect
payment, start the clock, extend, and close out with extra charges. Live countdowns
warn before a session runs out and flag it when time is up.`,
	SilenceUsage: true,
}

// initApp loads config, opens the database and wires the engine
func initApp() error {
	if cafe != nil {
		return nil
	}

	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Logging.Level)
	logCfg.File = cfg.Logging.File
	logCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
	logCfg.MaxBackups = cfg.Logging.MaxBackups
	logCfg.Console = verbose
	if verbose && logCfg.Level > zerolog.DebugLevel {
		logCfg.Level = zerolog.DebugLevel
	}

	logger, closeLog, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	store, err := db.Open(cfg.Database.Path)
	if err != nil {
		_ = closeLog()
		return err
	}

	if err := store.Seed(context.Background(), cfg.SeedSystems()); err != nil {
		_ = store.Close()
		_ = closeLog()
		return err
	}

	timers := timer.NewManager(timer.Config{
		WarningThreshold: cfg.Timer.WarningThreshold,
		PollInterval:     cfg.Timer.PollInterval,
		EventBuffer:      cfg.Timer.EventBuffer,
		Logger:           logger,
	})

	cafe = &app{
		cfg:      cfg,
		log:      logger,
		store:    store,
		timers:   timers,
		engine:   session.NewEngine(store, session.WithTimers(timers), session.WithLogger(logger)),
		closeLog: closeLog,
	}

	logger.Debug().Str("config", path).Str("database", cfg.Database.Path).Msg("cafedesk initialized")
	return nil
}

// shutdown stops timers and releases the database and log file
func shutdown() {
	if cafe == nil {
		return
	}
	cafe.timers.StopAll()
	if err := cafe.store.Close(); err != nil {
		cafe.log.Error().Err(err).Msg("failed to close database")
	}
	_ = cafe.closeLog()
	cafe = nil
}

// withApp wraps a command function to initialize the app first
func withApp(fn func(*cobra.Command, []string)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := initApp(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fn(cmd, args)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	defer shutdown()
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cafedesk %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.cafedesk/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also log to stderr")

	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(systemsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.SetHelpCommand(helpCmd)
}
