package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	statsd "github.com/smira/go-dogstatsd"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cmd := rootCommand()
	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Error executing command")
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statsd-send <kind> <name> [value]",
		Short: "Send a single DogStatsD metric over UDP",
		Long: `Send a single DogStatsD metric over UDP.

Kind is one of increment, decrement, count, gauge, histogram, distribution, set.`,
		Args:         cobra.RangeArgs(2, 3),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevelStr, _ := cmd.Flags().GetString("log-level")
			logLevel, err := zerolog.ParseLevel(logLevelStr)
			if err != nil {
				return err
			}

			zerolog.SetGlobalLevel(logLevel)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := DefaultConfig()

			if path, _ := cmd.Flags().GetString("config"); path != "" {
				var err error
				if cfg, err = LoadConfig(path); err != nil {
					return err
				}
			}

			if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
				return err
			}

			var value string
			if len(args) > 2 {
				value = args[2]
			}

			m, err := BuildMetric(args[0], args[1], value)
			if err != nil {
				return err
			}

			return send(cmd.Context(), cfg, m.WithTags(cfg.MetricTags()...))
		},
	}

	cmd.PersistentFlags().StringP("log-level", "l", "error", "loglevel")

	cmd.Flags().StringP("config", "c", "", "YAML config file")
	cmd.Flags().StringP("bind", "b", "0.0.0.0:0", "local UDP address to bind to")
	cmd.Flags().StringP("addr", "a", "127.0.0.1:8125", "DogStatsD collector address")
	cmd.Flags().StringP("prefix", "p", "", "metric name prefix")
	cmd.Flags().StringSliceP("tag", "t", nil, "tag, either label or key:value (repeatable)")
	cmd.Flags().Duration("timeout", 0, "write timeout")
	cmd.Flags().Bool("async", false, "send through the non-blocking client")

	return cmd
}

func send(ctx context.Context, cfg Config, m statsd.Metric) error {
	options := append(cfg.ClientOptions(), statsd.Logger(log.Logger))

	client, err := statsd.Dial(cfg.Bind, cfg.Addr, options...)
	if err != nil {
		return err
	}

	var n int

	if cfg.Async {
		async := statsd.NewAsyncClient(client)
		defer async.Close() //nolint:errcheck

		n, err = async.Send(ctx, m)
	} else {
		defer client.Close() //nolint:errcheck

		n, err = client.Send(m)
	}

	if err != nil {
		return err
	}

	log.Info().Str("addr", cfg.Addr).Int("bytes", n).Str("metric", m.Name()).Msg("Metric sent")

	return nil
}
