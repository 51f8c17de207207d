// Command scenedemo loads scenes authored with node metadata, turns the
// metadata into components and runs the shooting squares demo on top of them.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/milk9111/sceneextras/assets"
	"github.com/milk9111/sceneextras/config"
	"github.com/milk9111/sceneextras/extras"
)

type flags struct {
	configPath string
	logLevel   string
	headless   bool
	ticks      int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := buildRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "scenedemo",
		Short:         "Run the shooting squares scene demo",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, &f)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ticks") {
				cfg.Ticks = f.ticks
			}
			return run(cmd.Context(), cfg, log, f.headless)
		},
	}

	root.PersistentFlags().StringVar(&f.configPath, "config", "", "Config file (.yaml, .json or .toml)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level: trace|debug|info|warn|error (overrides config)")
	root.Flags().BoolVar(&f.headless, "headless", false, "Run without a window")
	root.Flags().IntVar(&f.ticks, "ticks", 0, "Stop after this many updates in headless mode (0 runs until interrupted)")

	inspectCmd := &cobra.Command{
		Use:     "inspect <scene>",
		Short:   "Print every node with metadata and how it decodes",
		Example: "  scenedemo inspect scenes/shooting_squares.gltf#Scene0",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, &f)
			if err != nil {
				return err
			}
			key := cfg.ExtrasKey
			if key == "" {
				key = extras.DefaultKey
			}
			return inspect(cmd.OutOrStdout(), assets.FS(cfg.AssetsDir), args[0], key, log)
		},
	}
	root.AddCommand(inspectCmd)
	return root
}

func setup(cmd *cobra.Command, f *flags) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	log, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func newLogger(level string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger, headless bool) error {
	reg := prometheus.NewRegistry()
	host, err := NewHost(cfg, log, reg)
	if err != nil {
		return err
	}
	defer host.Close()

	if cfg.HotReload {
		if err := host.WatchAssets(); err != nil {
			return err
		}
	}

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("metrics shutdown")
			}
		}()
	}

	if headless {
		log.Info().Int("ticks", cfg.Ticks).Int("tps", cfg.TPS).Msg("running headless")
		if err := host.Run(ctx, cfg.Ticks); err != nil {
			return err
		}
		for _, st := range host.Status() {
			log.Info().Str("scene", string(st.ID)).Stringer("state", st.State).Int("entities", st.Spawned).Msg("scene status")
		}
		return nil
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("scenedemo")
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(NewGame(host))
}

func serveMetrics(addr string, reg *prometheus.Registry, log zerolog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()
	return srv
}
