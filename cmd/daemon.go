// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/multical/multicald/internal/config"
	"github.com/multical/multicald/internal/daemon"
	"github.com/multical/multicald/internal/mqtt"
	"github.com/multical/multicald/pkg/kmp"
)

var configPath string

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Poll the meter periodically and publish readings to MQTT",
	Long: `Run the readout daemon: poll the configured parameters on a fixed
interval and publish each reading set as JSON to <topic>/values.

Connection, meter model and broker all come from the config file; the
connection flags are ignored. Without an mqtt section the daemon logs
readings but publishes nothing. SIGINT and SIGTERM shut it down cleanly.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	port, err := portFromConfig(cfg.SerialDevice)
	if err != nil {
		return err
	}

	client := kmp.NewClient(port, cfg.Kamstrup.Version, logger)

	specs := make([]kmp.ParamSpec, 0, len(cfg.Kamstrup.Parameters))
	for _, p := range cfg.Kamstrup.Parameters {
		specs = append(specs, kmp.ParseSpec(p))
	}

	var sink daemon.Publisher
	if cfg.MQTT.Host != "" {
		pub, err := mqtt.NewPublisher(cfg.MQTT, logger)
		if err != nil {
			return err
		}
		if err := pub.Connect(); err != nil {
			return err
		}
		defer pub.Disconnect()

		if cfg.MQTT.HADiscovery {
			if err := pub.AnnounceSensors(client.Registry().Model(), polledNames(client.Registry(), specs)); err != nil {
				logger.Error().Err(err).Msg("Home Assistant discovery failed")
			}
		}

		sink = pub
	} else {
		logger.Warn().Msg("no mqtt host configured, running without publishing")
	}

	interval := time.Duration(cfg.Kamstrup.PollInterval) * time.Minute
	d := daemon.New(client, sink, specs, interval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d.Run(ctx)
	logger.Info().Msg(client.Stats().String())
	return nil
}

// polledNames maps the polled specs back to announceable names. An
// empty spec list polls the whole table; raw addresses without a table
// name have no sensible sensor metadata and are left unannounced.
func polledNames(reg *kmp.Registry, specs []kmp.ParamSpec) []string {
	if len(specs) == 0 {
		return reg.Names()
	}

	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		addr, err := reg.Resolve(spec)
		if err != nil {
			continue
		}
		key := reg.KeyFor(spec, addr)
		if _, err := reg.Resolve(kmp.Name(key)); err == nil {
			names = append(names, key)
		}
	}
	return names
}
