// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/GermanBionicSystems/sttc4/sttc4"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const resetSeq = "\033[0m"

var (
	colorReady  = color.NRGBA{0, 200, 0, 255}
	colorOpen   = color.NRGBA{230, 180, 0, 255}
	colorClosed = color.NRGBA{200, 0, 0, 255}
)

// printer writes probe results, with a colored status block when the output
// is a terminal.
type printer struct {
	w       io.Writer
	color   bool
	palette *ansi256.Palette
}

func newPrinter(f *os.File) *printer {
	tty := isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	return &printer{w: colorable.NewColorable(f), color: tty, palette: ansi256.Default}
}

func (p *printer) block(s sttc4.State) string {
	if !p.color {
		return ""
	}
	c := colorClosed
	switch s {
	case sttc4.StateReady:
		c = colorReady
	case sttc4.StateOpen:
		c = colorOpen
	}
	return p.palette.Block(c) + resetSeq + " "
}

// status prints one line describing dev after an open attempt.
func (p *printer) status(dev *sttc4.Dev, err error) error {
	s := dev.State()
	if err != nil {
		_, werr := fmt.Fprintf(p.w, "%s%s %s: %v\n", p.block(s), dev, s, err)
		return werr
	}
	_, werr := fmt.Fprintf(p.w, "%s%s %s product_id=%s\n", p.block(s), dev, s, dev.ProductID())
	return werr
}

// commands prints the opcode table.
func (p *printer) commands() error {
	for _, c := range sttc4.Commands() {
		note := ""
		if !c.IsWord() {
			note = "  (payload byte)"
		}
		if _, err := fmt.Fprintf(p.w, "%-40s % x%s\n", c, c.Frame(), note); err != nil {
			return err
		}
	}
	return nil
}
