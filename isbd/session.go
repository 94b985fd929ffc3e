package isbd

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rockblock/isbd/at"
	"github.com/rockblock/isbd/compress"
)

// defaultSessionTimeout is the long timeout given to SBDIX/SBDIXA, since
// a session attempt can take the better part of a minute.
const defaultSessionTimeout = 60 * time.Second

// SessionOptions carries the behaviour common to sendTextMessage and
// sendBinaryMessage.
type SessionOptions struct {
	// SignalQuality is the minimum bars waitForNetwork will accept
	// before initiating a session. Defaults to 1.
	SignalQuality int

	// Timeout overrides the session-initiate step's timeout. Zero uses
	// defaultSessionTimeout.
	Timeout time.Duration

	// FailOnMailboxCheckError makes a mtStatus == 2 result (mailbox
	// check/receive error) a hard failure instead of a warning recorded
	// on the returned SessionResult. Defaults to false.
	FailOnMailboxCheckError bool
}

// TextOptions carries sendTextMessage's options.
type TextOptions struct {
	SessionOptions
	// Compressed runs the text through the opaque compression codec
	// before transmission.
	Compressed bool
}

func (o SessionOptions) resolve() SessionOptions {
	if o.SignalQuality <= 0 {
		o.SignalQuality = 1
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultSessionTimeout
	}
	return o
}

// SendTextMessage loads text (optionally compressed) into the MO buffer,
// waits for adequate signal, initiates a session, reads back any MT
// message delivered as part of that session, and clears the MO buffer.
//
// Once the text has been written, the MO buffer is unconditionally
// cleared before returning, whether the session succeeds or fails; a
// compression or write failure returns without clearing. A clear failure after an otherwise successful session is
// itself returned as the error, since the message was sent but buffer
// hygiene failed.
func (m *Modem) SendTextMessage(ctx context.Context, text string, opts TextOptions) (SessionResult, error) {
	opts.SessionOptions = opts.SessionOptions.resolve()

	payload := text
	if opts.Compressed {
		c, err := compress.Compress(text)
		if err != nil {
			return SessionResult{}, err
		}
		payload = string(c)
	}

	if err := m.WriteText(ctx, payload); err != nil {
		return SessionResult{}, err
	}
	return m.runSessionPipeline(ctx, opts.SessionOptions, func(ctx context.Context) ([]byte, error) {
		s, err := m.ReadText(ctx)
		return []byte(s), err
	})
}

// SendBinaryMessage loads msg into the MO buffer via the binary write
// handshake and runs the same wait/session/read/clear pipeline as
// SendTextMessage.
func (m *Modem) SendBinaryMessage(ctx context.Context, msg []byte, opts SessionOptions) (SessionResult, error) {
	opts = opts.resolve()
	if err := m.WriteBinary(ctx, msg); err != nil {
		return SessionResult{}, err
	}
	return m.runSessionPipeline(ctx, opts, func(ctx context.Context) ([]byte, error) {
		return m.ReadBinary(ctx)
	})
}

// MailboxCheck is sendTextMessage("") with compression disabled: it
// forces a session attempt and MT drain without sending any new MO
// content.
func (m *Modem) MailboxCheck(ctx context.Context, opts SessionOptions) (SessionResult, error) {
	return m.SendTextMessage(ctx, "", TextOptions{SessionOptions: opts})
}

func (m *Modem) runSessionPipeline(ctx context.Context, opts SessionOptions, readMT func(context.Context) ([]byte, error)) (result SessionResult, err error) {
	defer func() {
		if _, clearErr := m.ClearBuffers(ctx, ClearMO); clearErr != nil {
			err = clearErr
		}
	}()

	if err = m.waitForNetwork(ctx, opts.SignalQuality); err != nil {
		return SessionResult{}, err
	}

	result, err = m.InitiateSessionExtended(ctx, WithTimeout(opts.Timeout))
	if err != nil {
		return SessionResult{}, err
	}
	if !result.Success() {
		return result, &SessionError{Reason: result.MOStatusText, Result: &result}
	}

	switch result.MTStatus {
	case 1:
		mt, readErr := readMT(ctx)
		if readErr != nil {
			return result, readErr
		}
		m.emitInbound(mt)
		if _, clearErr := m.ClearBuffers(ctx, ClearMT); clearErr != nil {
			return result, clearErr
		}
	case 2:
		if opts.FailOnMailboxCheckError {
			return result, &SessionError{Reason: "mailbox check error", Result: &result}
		}
	}
	return result, nil
}

// waitForNetwork subscribes to signal-quality indicator reports and
// blocks until a +CIEV:0,<q> report with q >= minSignal arrives, then
// unsubscribes. If ctx expires first, indicator reporting is left
// enabled: the caller is responsible for disabling it on its own error
// path, per the two-call handshake.
func (m *Modem) waitForNetwork(ctx context.Context, minSignal int) error {
	pattern := regexp.MustCompile(fmt.Sprintf(`^\+CIEV:0,[%d-5]$`, minSignal))
	if _, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+CIER=1,1,0,0",
		Description:    "subscribe signal quality indicator",
		Timeout:        defaultTimeout,
		SuccessPattern: okPattern,
	}); err != nil {
		return err
	}
	if _, err := m.Execute(ctx, at.CommandDescriptor{
		Listen:         true,
		Description:    "wait for signal",
		SuccessPattern: pattern,
	}); err != nil {
		return err
	}
	_, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+CIER=1,0,0,0",
		Description:    "unsubscribe signal quality indicator",
		Timeout:        defaultTimeout,
		SuccessPattern: okPattern,
	})
	return err
}
