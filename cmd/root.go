package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/cafe-core/internal/config"
	"github.com/Tiliavir/cafe-core/internal/content"
	"github.com/Tiliavir/cafe-core/internal/kvstore"
	"github.com/Tiliavir/cafe-core/internal/logging"
	"github.com/Tiliavir/cafe-core/internal/model"
	"github.com/Tiliavir/cafe-core/internal/presence"
	"github.com/Tiliavir/cafe-core/internal/roster"
	"github.com/Tiliavir/cafe-core/internal/settings"
	"github.com/Tiliavir/cafe-core/internal/timetrack"
)

var (
	flagStore     string
	flagLogLevel  string
	flagEphemeral bool
)

var rootCmd = &cobra.Command{
	Use:   "cafe",
	Short: "cafe – staff clock-in, presence and shop configuration",
	Long: `cafe records staff clock-in/clock-out events, shows who is in the shop,
and manages the global and per-store POS configuration.
All data is stored as JSON files in ~/.cafe/data (override with CAFE_HOME).`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Store id (default: store_id from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagEphemeral, "ephemeral", false, "Keep data in memory only")

	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(presenceCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(syncCmd)
}

// app is the wiring shared by every command.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	loc     *time.Location
	kv      kvstore.Store
	events  *timetrack.EventLog
	tracker *timetrack.Tracker
	global  *settings.Store[settings.GlobalConfig]
	pos     *settings.POSRegistry
	catalog *content.Catalog
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagStore != "" {
		cfg.StoreID = flagStore
	}
	log := logging.Must(cfg.LogLevel, cfg.LogFormat)
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}

	var kv kvstore.Store
	if flagEphemeral {
		kv = kvstore.NewMemStore()
	} else {
		fs, err := kvstore.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		kv = fs
	}

	events := timetrack.NewEventLog(kv, loc, log)
	return &app{
		cfg:     cfg,
		log:     log,
		loc:     loc,
		kv:      kv,
		events:  events,
		tracker: timetrack.NewTracker(events, log),
		global:  settings.NewGlobalStore(kv, settings.WithLogger(log)),
		pos:     settings.NewPOSRegistry(kv, settings.WithLogger(log)),
		catalog: content.NewCatalog(kv, log),
	}, nil
}

func (a *app) close() {
	_ = a.log.Sync()
}

func (a *app) roster() (*roster.Roster, error) {
	return roster.Load(a.cfg.RosterFile)
}

func (a *app) user(id string) (model.User, error) {
	if id == "" {
		return model.User{}, fmt.Errorf("--user is required")
	}
	r, err := a.roster()
	if err != nil {
		return model.User{}, err
	}
	return r.Find(id)
}

func (a *app) aggregator() *presence.Aggregator {
	agg := presence.NewAggregator(a.loc)
	agg.LateHour = a.cfg.LateHour
	return agg
}

// withApp adapts a command body that needs the wiring.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, a)
	}
}
