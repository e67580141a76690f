// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sttc4

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

const (
	// DefaultAddress is the factory I2C address of the sensor.
	DefaultAddress uint16 = 0x64
	// ProductIDSTTC4 is the product id an STTC4 reports.
	ProductIDSTTC4 ProductID = 0x0901018a

	// 0x00-0x07 and 0x78-0x7f are reserved by the I2C specification.
	minAddress uint16 = 0x08
	maxAddress uint16 = 0x77
)

// State is the lifecycle state of a Dev.
type State int

const (
	// StateClosed means no bus handle is held.
	StateClosed State = iota
	// StateOpen means a bus handle is held but the device identity has not
	// been confirmed.
	StateOpen
	// StateReady means the device answered with ProductIDSTTC4.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// BusOpener acquires the named I2C bus. i2creg.Open satisfies it.
type BusOpener func(name string) (i2c.BusCloser, error)

// Opts holds the configuration options for the device.
type Opts struct {
	// Open acquires the bus in Dev.Open. Default is i2creg.Open.
	Open BusOpener
	// Logger receives debug output. nil disables logging.
	Logger logrus.FieldLogger
	// SkipDetect disables the one byte read Open uses to check that a device
	// acknowledges the address. With it set, an absent device is reported by
	// the product id transaction as ErrTransport.
	SkipDetect bool
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Open: i2creg.Open,
}

// Dev represents an STTC4 sensor session. It owns at most one bus handle,
// which Open replaces and Close releases.
type Dev struct {
	opts Opts
	mu   sync.Mutex
	// bus is released whenever the handle is discarded.
	bus   i2c.BusCloser
	d     *i2c.Dev
	state State
	id    ProductID
}

// New returns a closed Dev. The Opts can be nil. Call Open to bind it to a
// device.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.Open == nil {
		o.Open = i2creg.Open
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return &Dev{opts: o}
}

// NewI2C returns a Dev that communicates with the sensor at addr over a bus
// the caller already opened. Closing the Dev does not close b.
//
// The constant DefaultAddress should normally be supplied as addr. The Dev is
// returned even on error so the caller may retry with Verify.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	d := New(&Opts{Open: func(string) (i2c.BusCloser, error) {
		return &sharedBus{Bus: b}, nil
	}})
	return d, d.Open(addr, "")
}

// Open binds the Dev to the sensor at addr on the named bus and confirms the
// device identity. An empty busName selects the first available bus.
//
// Any handle held from an earlier Open is released first. addr must be a
// non-reserved 7-bit address, 0x08 to 0x77. If the bus cannot be acquired or
// nothing acknowledges addr, ErrTransportUnavailable is returned and the Dev
// is left closed. If the device answered but the identity check failed the
// Dev is left open, and Verify may be called to retry.
func (d *Dev) Open(addr uint16, busName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.release(); err != nil {
		d.opts.Logger.WithError(err).Warn("sttc4: closing previous bus")
	}
	if addr < minAddress || addr > maxAddress {
		return fmt.Errorf("%w: invalid 7-bit address 0x%x", ErrTransportUnavailable, addr)
	}
	bus, err := d.opts.Open(busName)
	if err != nil {
		return fmt.Errorf("%w: bus %q: %w", ErrTransportUnavailable, busName, err)
	}
	if bus == nil {
		return fmt.Errorf("%w: bus %q: no bus returned", ErrTransportUnavailable, busName)
	}
	d.bus = bus
	d.d = &i2c.Dev{Bus: bus, Addr: addr}
	d.state = StateOpen
	d.opts.Logger.WithFields(logrus.Fields{
		"bus":  bus.String(),
		"addr": fmt.Sprintf("0x%02x", addr),
	}).Debug("sttc4: bus acquired")
	if !d.opts.SkipDetect {
		if err := d.detect(); err != nil {
			if cerr := d.release(); cerr != nil {
				d.opts.Logger.WithError(cerr).Warn("sttc4: closing bus")
			}
			return err
		}
	}
	return d.verify()
}

// detect reads a single byte to check that a device acknowledges the address.
func (d *Dev) detect() error {
	var b [1]byte
	if err := d.d.Tx(nil, b[:]); err != nil {
		return fmt.Errorf("%w: no device at 0x%02x: %w", ErrTransportUnavailable, d.d.Addr, err)
	}
	return nil
}

// Verify reads the product id from an open Dev and confirms it matches
// ProductIDSTTC4.
func (d *Dev) Verify() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.verify()
}

func (d *Dev) verify() error {
	if d.d == nil {
		return fmt.Errorf("%w: device is not open", ErrTransportUnavailable)
	}
	d.state = StateOpen
	d.id = 0

	var r productIDResponse
	if err := d.sendCommand(CmdGetProductID, r[:]); err != nil {
		return err
	}
	id, err := r.productID()
	if err != nil {
		return err
	}
	if id != ProductIDSTTC4 {
		return &IdentityMismatchError{Expected: ProductIDSTTC4, Actual: id}
	}
	d.id = id
	d.state = StateReady
	d.opts.Logger.WithField("product_id", id.String()).Debug("sttc4: device ready")
	return nil
}

// sendCommand writes cmd and reads len(r) bytes in one transaction.
func (d *Dev) sendCommand(cmd Command, r []byte) error {
	w := cmd.Bytes()
	if err := d.d.Tx(w[:], r); err != nil {
		return fmt.Errorf("%w: cmd %s: %w", ErrTransport, cmd, err)
	}
	return nil
}

// release closes the held bus, if any, and leaves the Dev closed.
func (d *Dev) release() error {
	d.state = StateClosed
	d.id = 0
	d.d = nil
	if d.bus == nil {
		return nil
	}
	err := d.bus.Close()
	d.bus = nil
	return err
}

// Close releases the bus handle. It is safe to call Close more than once.
func (d *Dev) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.release(); err != nil {
		return fmt.Errorf("sttc4: closing bus: %w", err)
	}
	return nil
}

// Halt implements conn.Resource. The driver runs nothing in the background,
// so there is nothing to stop.
func (d *Dev) Halt() error {
	return nil
}

// State returns the lifecycle state of the Dev.
func (d *Dev) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// ProductID returns the verified product id, or 0 if the Dev is not ready.
func (d *Dev) ProductID() ProductID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}

func (d *Dev) String() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.d == nil {
		return "sttc4: closed"
	}
	return fmt.Sprintf("sttc4: %s", d.d.String())
}

// sharedBus is a bus owned by the caller. Close leaves it open.
type sharedBus struct {
	i2c.Bus
}

func (s *sharedBus) Close() error {
	return nil
}

var _ conn.Resource = &Dev{}
