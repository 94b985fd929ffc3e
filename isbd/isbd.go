// Package isbd decorates the at engine with the typed Iridium 9602/9603
// SBD command catalog and the multi-step session orchestrator: the
// binary-write handshake, the sendMessage pipeline, and the boot
// sequence run by Init.
package isbd

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/rockblock/isbd/at"
)

// Modem decorates an at.Engine with Iridium SBD specific functionality.
type Modem struct {
	*at.Engine

	inbound chan []byte
}

// New creates a Modem driving the transceiver over the given transport.
func New(transport io.ReadWriter) *Modem {
	return &Modem{
		Engine:  at.New(transport),
		inbound: make(chan []byte, 4),
	}
}

// InboundMessages returns the channel on which a freshly read MT message
// is posted once per successful sendMessage-triggered MT read.
func (m *Modem) InboundMessages() <-chan []byte {
	return m.inbound
}

func (m *Modem) emitInbound(b []byte) {
	select {
	case m.inbound <- b:
	default:
	}
}

// Init runs the driver's default boot sequence: disable flow control,
// echo off, disable indicator event reporting, clear MO+MT buffers,
// enable auto-registration, enable ring alerts, and read ring-indication
// status. It is fail-fast: the first failing step aborts the sequence.
func (m *Modem) Init(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"flow control disable", func(ctx context.Context) error { return m.FlowControlDisable(ctx) }},
		{"echo off", func(ctx context.Context) error { return m.EchoOff(ctx) }},
		{"indicator reporting disable", func(ctx context.Context) error { return m.IndicatorEventReportingDisable(ctx) }},
		{"clear buffers", func(ctx context.Context) error { _, err := m.ClearBuffers(ctx, ClearBoth); return err }},
		{"registration auto enable", func(ctx context.Context) error { return m.RegistrationAutoEnable(ctx) }},
		{"ring alert enable", func(ctx context.Context) error { return m.RingAlertEnable(ctx) }},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return errors.WithMessage(err, s.name)
		}
	}
	if _, err := m.RingIndicationStatus(ctx, true); err != nil {
		return errors.WithMessage(err, "ring indication status")
	}
	return nil
}

// defaultTimeout is used by catalog commands that do not override it via
// their Options.
var defaultTimeout = 10 * time.Second
