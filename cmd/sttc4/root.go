// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"
	"time"

	"github.com/GermanBionicSystems/sttc4/sttc4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"periph.io/x/host/v3"
)

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "sttc4",
		Short: "STTC4 CO2 sensor probe",
		Long: `sttc4 opens an I2C bus, reads the product id of an STTC4 CO2 sensor and
reports whether the device answered with the expected identity.

Settings are read from --config when given, then overridden by flags.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Open the sensor and verify its product id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configFile)
			if err != nil {
				return err
			}
			log := setupLogger(cfg.Log, os.Stderr)
			if _, err := host.Init(); err != nil {
				return err
			}
			return runProbe(cfg, log, newPrinter(os.Stdout), &sttc4.Opts{Logger: log})
		},
	}
	probeCmd.Flags().StringP("bus", "b", "", "I2C bus name, empty for the first bus found")
	probeCmd.Flags().Uint16P("addr", "a", sttc4.DefaultAddress, "7-bit I2C address")
	probeCmd.Flags().IntP("retries", "r", 2, "Additional open attempts after a failure")
	probeCmd.Flags().Duration("delay", 100*time.Millisecond, "Pause between open attempts")

	commandsCmd := &cobra.Command{
		Use:   "commands",
		Short: "List the sensor command words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newPrinter(os.Stdout).commands()
		},
	}

	rootCmd.AddCommand(probeCmd, commandsCmd)
	return rootCmd
}

// resolveConfig loads configFile, or the defaults when it is empty, and
// applies every flag of cmd that was set on the command line.
func resolveConfig(cmd *cobra.Command, configFile string) (*Config, error) {
	cfg := defaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = loadConfig(configFile); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	var err error
	if flags.Changed("bus") {
		if cfg.Bus.Name, err = flags.GetString("bus"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("addr") {
		if cfg.Bus.Address, err = flags.GetUint16("addr"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("retries") {
		if cfg.Retries, err = flags.GetInt("retries"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.Delay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("log-level") {
		if cfg.Log.Level, err = flags.GetString("log-level"); err != nil {
			return nil, err
		}
	}
	if cfg.Retries < 0 {
		return nil, errors.New("retries must be >= 0")
	}
	return cfg, nil
}

// runProbe opens the sensor, retrying up to cfg.Retries more times, and
// prints the outcome.
func runProbe(cfg *Config, log logrus.FieldLogger, out *printer, opts *sttc4.Opts) error {
	dev := sttc4.New(opts)
	defer func() {
		if err := dev.Close(); err != nil {
			log.WithError(err).Warn("closing device")
		}
	}()

	var err error
	for attempt := 0; attempt <= cfg.Retries; attempt++ {
		if attempt > 0 {
			time.Sleep(cfg.Delay)
		}
		err = dev.Open(cfg.Bus.Address, cfg.Bus.Name)
		if err == nil {
			break
		}
		log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"state":   dev.State().String(),
		}).Warn("open failed")
		if errors.Is(err, sttc4.ErrIdentityMismatch) {
			// A different part answered. Asking again will not change that.
			break
		}
	}
	if perr := out.status(dev, err); perr != nil && err == nil {
		err = perr
	}
	return err
}
