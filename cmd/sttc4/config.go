// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GermanBionicSystems/sttc4/sttc4"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the probe configuration. It is read from an optional YAML file
// and then overridden by command line flags.
type Config struct {
	Bus     BusConfig     `yaml:"bus"`
	Log     LogConfig     `yaml:"log"`
	Retries int           `yaml:"retries"`
	Delay   time.Duration `yaml:"delay"`
}

type BusConfig struct {
	// Name of the bus as understood by i2creg.Open. Empty selects the first
	// bus found.
	Name    string `yaml:"name"`
	Address uint16 `yaml:"address"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Bus: BusConfig{
			Address: sttc4.DefaultAddress,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Retries: 2,
		Delay:   100 * time.Millisecond,
	}
}

// loadConfig reads path on top of the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Retries < 0 {
		return nil, fmt.Errorf("config %s: retries must be >= 0, got %d", path, cfg.Retries)
	}
	return cfg, nil
}

func setupLogger(cfg LogConfig, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return log
}
