package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"highway_router/pkg/config"
	"highway_router/pkg/protocol"
)

func newRunCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Answer protocol requests from a file or standard input",
		Long: `Read one request per line and write one response per line to standard
output. Requests are add-station, add-car, scrap-car, scrap-station and
plan-path; the Italian keywords are accepted as well. Malformed lines
are reported on standard error and skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dialect") {
				cfg.Dialect = dialect
			}
			d, err := protocol.DialectByName(cfg.Dialect)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open requests: %w", err)
				}
				defer f.Close()
				in = f
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			session := protocol.NewSession(d)
			defer session.Close()

			if err := session.Run(ctx, in, cmd.OutOrStdout()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dialect, "dialect", "en", "Response vocabulary: en or it (env HIGHWAY_DIALECT)")
	return cmd
}
