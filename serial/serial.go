// Package serial provides the serial port, implementing io.ReadWriter,
// that connects the at and isbd packages to the physical Iridium
// transceiver.
package serial

import (
	tarm "github.com/tarm/serial"
)

// Config holds the parameters for opening a serial port.
type Config struct {
	port string
	baud int
}

// Option modifies a Config built by New.
type Option func(*Config)

// WithPort overrides the default serial device path.
func WithPort(port string) Option {
	return func(c *Config) { c.port = port }
}

// WithBaud overrides the default baud rate.
func WithBaud(baud int) Option {
	return func(c *Config) { c.baud = baud }
}

// New opens the serial port described by opts, starting from the
// per-platform defaultConfig (port "/dev/ttyUSB0" at 19200 baud on
// Linux).
func New(opts ...Option) (*tarm.Port, error) {
	cfg := defaultConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return tarm.OpenPort(&tarm.Config{Name: cfg.port, Baud: cfg.baud})
}
