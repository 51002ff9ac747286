package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spadewatch/internal/config"
	"spadewatch/internal/httpapi"
	"spadewatch/internal/metrics"
	"spadewatch/internal/notify"
	"spadewatch/internal/servers"
	"spadewatch/internal/tracker"
	"spadewatch/internal/watcher"
)

var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Version: version,

	Use:   "spadewatch",
	Short: "Watches an OpenSpades server and notifies when its map changes",

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		logLevel, logger := getLogger(os.Stderr)
		defer func() { _ = logger.Sync() }()

		if err := config.ReadFile(viper.GetViper(), cfgFile); err != nil {
			return err
		}
		cfg, err := config.Read(viper.GetViper())
		if err != nil {
			return err
		}

		parsedLogLevel, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warn("invalid log level specified, using INFO instead", zap.String("logLevel", cfg.LogLevel))
			parsedLogLevel = zapcore.InfoLevel
		}
		logLevel.SetLevel(parsedLogLevel)

		logger = logger.With(zap.String("instance", uuid.NewString()))
		logger.Info("starting spadewatch", zap.String("version", version))
		logger.Info("parsed configuration", cfg.Fields()...)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg, logger, os.Stdout)
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "specifies a config file to load")

	configFlags := config.Flags()
	rootCmd.Flags().AddFlagSet(configFlags)
	cobra.CheckErr(config.Bind(viper.GetViper(), configFlags))
}

func getLogger(w io.Writer) (zap.AtomicLevel, *zap.Logger) {
	logLevel := zap.NewAtomicLevel()
	logConfig := zap.NewProductionEncoderConfig()
	logConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	consoleEncoder := zapcore.NewConsoleEncoder(logConfig)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(w), logLevel)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return logLevel, logger
}

// run wires the watcher from cfg and blocks until ctx ends, or after one
// tick in once mode.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdout io.Writer) error {
	notifier, err := notify.New(notify.Options{
		Logger:  logger.Named("notify"),
		Backend: cfg.Notifier,
		AppName: cfg.AppName,
	})
	if err != nil {
		return err
	}

	favorites := tracker.NewFavoriteSet(cfg.Favorites...)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	board := watcher.NewBoard(watcher.BoardOptions{
		Target:    cfg.ServerName,
		URL:       cfg.URL,
		Favorites: favorites,
		Interval:  cfg.Interval,
	})

	w, err := watcher.New(watcher.Options{
		Logger: logger.Named("watcher"),
		Fetcher: servers.NewFetcher(servers.FetcherOptions{
			URL:       cfg.URL,
			Timeout:   cfg.Timeout,
			UserAgent: "spadewatch/" + version,
		}),
		Notifier:   notifier,
		Output:     stdout,
		ServerName: cfg.ServerName,
		Favorites:  favorites,
		Interval:   cfg.Interval,
		Presentation: watcher.Presentation{
			Title:         cfg.Title,
			FavoriteTitle: cfg.FavoriteTitle,
			Icon:          cfg.Icon,
			FavoriteIcon:  cfg.FavoriteIcon,
		},
		Metrics: metrics.New(reg),
		Board:   board,
	})
	if err != nil {
		return err
	}

	if cfg.Once {
		_, _ = w.Tick(ctx, tracker.State{})
		return nil
	}

	if cfg.StatusAddr != "" {
		statusServer, err := httpapi.NewServer(httpapi.ServerOptions{
			Logger:        logger.Named("httpapi"),
			ListenAddress: cfg.StatusAddr,
			Source:        board,
			Gatherer:      reg,
			RateLimit:     cfg.StatusRateLimit,
			Burst:         cfg.StatusBurst,
		})
		if err != nil {
			return err
		}

		l, err := statusServer.Listen()
		if err != nil {
			return err
		}

		go func() {
			if err := statusServer.Serve(l); err != nil {
				logger.Error("status endpoint failed", zap.Error(err))
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := statusServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to shut down status endpoint", zap.Error(err))
			}
		}()
	}

	return w.Run(ctx)
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
