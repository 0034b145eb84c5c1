package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"highway_router/pkg/api"
	"highway_router/pkg/config"
	"highway_router/pkg/protocol"
)

func newServeCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var (
		addr          string
		corsOrigin    string
		maxConcurrent int
		cacheTTL      time.Duration
		dialect       string
		seed          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the highway over HTTP",
		Long: `Start the JSON API. Stations and vehicles live in memory for the
lifetime of the process; --seed preloads them from a request file such as
the output of "highway import".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Addr = addr
			}
			if flags.Changed("cors-origin") {
				cfg.CORSOrigin = corsOrigin
			}
			if flags.Changed("max-concurrent") {
				cfg.MaxConcurrent = maxConcurrent
			}
			if flags.Changed("path-cache-ttl") {
				cfg.PathCacheTTL = cacheTTL
			}
			if flags.Changed("dialect") {
				cfg.Dialect = dialect
			}
			if cfg.MaxConcurrent < 1 {
				return fmt.Errorf("--max-concurrent must be positive, got %d", cfg.MaxConcurrent)
			}
			d, err := protocol.DialectByName(cfg.Dialect)
			if err != nil {
				return err
			}

			session := protocol.NewSession(d)
			defer session.Close()

			if seed != "" {
				if err := seedSession(cmd, session, seed); err != nil {
					return err
				}
			}

			srvCfg := api.DefaultConfig(cfg.Addr)
			srvCfg.CORSOrigin = cfg.CORSOrigin
			srvCfg.MaxConcurrent = cfg.MaxConcurrent

			srv := api.NewServer(srvCfg, api.NewHandlers(session, cfg.PathCacheTTL))
			if err := api.ListenAndServe(cmd.Context(), srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (env HIGHWAY_ADDR)")
	cmd.Flags().StringVar(&corsOrigin, "cors-origin", "", "Comma-separated CORS origins, empty = same-origin (env HIGHWAY_CORS_ORIGIN)")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "Concurrent request limit (env HIGHWAY_MAX_CONCURRENT)")
	cmd.Flags().DurationVar(&cacheTTL, "path-cache-ttl", time.Minute, "Lifetime of cached path answers (env HIGHWAY_PATH_CACHE_TTL)")
	cmd.Flags().StringVar(&dialect, "dialect", "en", "Vocabulary for /api/v1/commands: en or it (env HIGHWAY_DIALECT)")
	cmd.Flags().StringVar(&seed, "seed", "", "Request file applied before serving")
	return cmd
}

// seedSession applies every request in path, discarding the responses.
func seedSession(cmd *cobra.Command, session *protocol.Session, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	start := time.Now()
	if err := session.Run(cmd.Context(), f, io.Discard); err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}
	stats := session.Stats()
	printSuccess(cmd, "Seeded %d stations and %d vehicles from %s in %s",
		stats.Stations, stats.Cars, path, time.Since(start).Round(time.Millisecond))
	return nil
}
