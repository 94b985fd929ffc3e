package isbd

import (
	"context"
	"regexp"
	"strconv"

	"github.com/rockblock/isbd/at"
)

var binaryWriteResultPattern = regexp.MustCompile(`^[0-3]$`)

// WriteBinary loads m into the MO buffer via the two-phase SBDWB
// handshake: AT+SBDWB=<len(m)> (which must be answered with READY), then
// m followed by its 2 byte DTE checksum sent as raw bytes. 1 <= len(m)
// <= 340.
func (m *Modem) WriteBinary(ctx context.Context, msg []byte, opts ...Option) error {
	o := resolveOptions(opts)

	if _, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDWB=" + strconv.Itoa(len(msg)),
		Description:    "binary write: ready",
		Timeout:        o.timeout,
		SuccessPattern: readyPattern,
	}); err != nil {
		return err
	}

	sum := checksum(msg)
	payload := make([]byte, 0, len(msg)+2)
	payload = append(payload, msg...)
	payload = append(payload, sum[0], sum[1])

	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Raw:            payload,
		Description:    "binary write: transfer",
		Timeout:        0, // indefinite, per the two-phase protocol
		SuccessPattern: okPattern,
		BufferPattern:  binaryWriteResultPattern,
	})
	if err != nil {
		return err
	}
	code, err := strconv.Atoi(resp)
	if err != nil {
		return &BinaryWriteError{Code: -1, Reason: binaryWriteResultText(-1)}
	}
	if code != 0 {
		return &BinaryWriteError{Code: code, Reason: binaryWriteResultText(code)}
	}
	return nil
}

// ReadBinary reads the MT buffer as a binary message via SBDRB,
// verifying the inbound frame's trailing checksum.
func (m *Modem) ReadBinary(ctx context.Context, opts ...Option) ([]byte, error) {
	o := resolveOptions(opts)
	frame, err := m.ExecuteBinaryRead(ctx, "+SBDRB", o.timeout)
	if err != nil {
		return nil, err
	}
	if len(frame) < 4 {
		return nil, ErrMalformedResponse
	}
	length := int(frame[0])<<8 | int(frame[1])
	if len(frame) != length+4 {
		return nil, ErrMalformedResponse
	}
	payload := frame[2 : 2+length]
	var trailer [2]byte
	copy(trailer[:], frame[2+length:])
	expected := checksum(payload)
	if trailer != expected {
		return nil, &ChecksumError{Expected: expected, Actual: trailer}
	}
	return payload, nil
}
