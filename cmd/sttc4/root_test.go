// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/GermanBionicSystems/sttc4/sttc4"
	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

var productIDReply = []uint8{
	0x09, 0x01, 0x73, 0x01, 0x8a, 0xd4,
	0x12, 0x34, 0x37, 0x56, 0x78, 0x7d,
	0x9a, 0xbc, 0xe0, 0xde, 0xf0, 0xaa}

// Valid CRCs, product id 0x0902018a.
var otherReply = []uint8{
	0x09, 0x02, 0x20, 0x01, 0x8a, 0xd4,
	0x12, 0x34, 0x37, 0x56, 0x78, 0x7d,
	0x9a, 0xbc, 0xe0, 0xde, 0xf0, 0xaa}

type nopCloser struct {
	i2c.Bus
}

func (nopCloser) Close() error { return nil }

// playbackOpts returns Opts whose opener fails fails times before handing out
// a playback bus replying r.
func playbackOpts(fails int, r []uint8) (*sttc4.Opts, *int) {
	opened := 0
	return &sttc4.Opts{Open: func(string) (i2c.BusCloser, error) {
		opened++
		if opened <= fails {
			return nil, errors.New("i2creg: bus not ready")
		}
		return nopCloser{&i2ctest.Playback{
			Ops: []i2ctest.IO{
				{Addr: sttc4.DefaultAddress, R: []uint8{0xff}},
				{Addr: sttc4.DefaultAddress, W: []uint8{0x36, 0x5b}, R: r},
			},
			DontPanic: true,
		}}, nil
	}}, &opened
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestRunProbe(t *testing.T) {
	var tests = []struct {
		name    string
		fails   int
		retries int
		reply   []uint8
		err     error
		opened  int
		output  string
	}{
		{name: "ready", reply: productIDReply, opened: 1, output: "ready product_id=0x0901018a"},
		{name: "retry", fails: 2, retries: 2, reply: productIDReply, opened: 3, output: "ready"},
		{name: "retries exhausted", fails: 3, retries: 1, reply: productIDReply, err: sttc4.ErrTransportUnavailable, opened: 2, output: "closed"},
		{name: "wrong device", retries: 3, reply: otherReply, err: sttc4.ErrIdentityMismatch, opened: 1, output: "open"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Retries = test.retries
			cfg.Delay = 0
			opts, opened := playbackOpts(test.fails, test.reply)
			var buf bytes.Buffer
			err := runProbe(cfg, quietLogger(), &printer{w: &buf}, opts)
			if test.err == nil && err != nil {
				t.Fatal(err)
			}
			if test.err != nil && !errors.Is(err, test.err) {
				t.Fatalf("runProbe() returned %v expected %v", err, test.err)
			}
			if *opened != test.opened {
				t.Errorf("bus opened %d times expected %d", *opened, test.opened)
			}
			if !strings.Contains(buf.String(), test.output) {
				t.Errorf("output %q does not contain %q", buf.String(), test.output)
			}
		})
	}
}

func TestRootFlags(t *testing.T) {
	cmd := newRootCmd()
	probe, _, err := cmd.Find([]string{"probe"})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"bus", "addr", "retries", "delay"} {
		if probe.Flags().Lookup(name) == nil {
			t.Errorf("probe has no --%s flag", name)
		}
	}
	if f := probe.Flags().Lookup("addr"); f != nil && f.DefValue != "100" {
		t.Errorf("--addr default %s expected 100", f.DefValue)
	}
}

func TestResolveConfig(t *testing.T) {
	path := writeConfig(t, `
bus:
  name: "/dev/i2c-1"
  address: 0x65
log:
  level: warn
retries: 4
delay: 250ms
`)
	fromFile := Config{
		Bus:     BusConfig{Name: "/dev/i2c-1", Address: 0x65},
		Log:     LogConfig{Level: "warn", Format: "text"},
		Retries: 4,
		Delay:   250 * time.Millisecond,
	}
	var tests = []struct {
		name   string
		config string
		args   []string
		want   func(c *Config)
		err    bool
	}{
		{name: "file only", config: path, want: func(c *Config) {}},
		{name: "flags win", config: path, args: []string{"--addr", "0x61", "--retries", "0"},
			want: func(c *Config) { c.Bus.Address = 0x61; c.Retries = 0 }},
		{name: "short flags", config: path, args: []string{"-b", "3", "--delay", "1s"},
			want: func(c *Config) { c.Bus.Name = "3"; c.Delay = time.Second }},
		{name: "inherited log level", config: path, args: []string{"--log-level", "debug"},
			want: func(c *Config) { c.Log.Level = "debug" }},
		{name: "flag equal to default still wins", config: path, args: []string{"--addr", "100"},
			want: func(c *Config) { c.Bus.Address = sttc4.DefaultAddress }},
		{name: "negative retries", config: path, args: []string{"--retries", "-1"}, err: true},
		{name: "missing file", config: path + ".missing", err: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cmd, _, err := newRootCmd().Find([]string{"probe"})
			if err != nil {
				t.Fatal(err)
			}
			if err := cmd.ParseFlags(test.args); err != nil {
				t.Fatal(err)
			}
			cfg, err := resolveConfig(cmd, test.config)
			if test.err {
				if err == nil {
					t.Errorf("resolveConfig() returned %#v expected an error", cfg)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			want := fromFile
			test.want(&want)
			if diff := cmp.Diff(&want, cfg); diff != "" {
				t.Errorf("resolveConfig() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd, _, err := newRootCmd().Find([]string{"probe"})
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.ParseFlags([]string{"--bus", "2"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := resolveConfig(cmd, "")
	if err != nil {
		t.Fatal(err)
	}
	want := defaultConfig()
	want.Bus.Name = "2"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("resolveConfig() mismatch (-want +got):\n%s", diff)
	}
}
