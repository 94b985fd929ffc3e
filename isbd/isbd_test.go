/*
  Test suite for the Modem decorator.

  The mockModem does not attempt to emulate a real Iridium transceiver,
  just enough line shapes to exercise Init's boot sequence and the
  inbound message channel.
*/
package isbd

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockModem struct {
	w       []byte
	r       chan []byte
	closeCh chan struct{}
}

func newMockModem() *mockModem {
	return &mockModem{r: make(chan []byte, 16), closeCh: make(chan struct{})}
}

func (m *mockModem) Write(p []byte) (int, error) {
	m.w = append(m.w, p...)
	return len(p), nil
}

func (m *mockModem) Read(p []byte) (int, error) {
	select {
	case data, ok := <-m.r:
		if !ok {
			return 0, io.EOF
		}
		return copy(p, data), nil
	case <-m.closeCh:
		return 0, io.EOF
	}
}

func (m *mockModem) send(s string) {
	m.r <- []byte(s)
}

func (m *mockModem) Close() error {
	select {
	case <-m.closeCh:
	default:
		close(m.closeCh)
	}
	return nil
}

func TestInitSuccess(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("OK\r\nOK\r\nOK\r\n0\r\nOK\r\nOK\r\nOK\r\n+CRIS:0,0\r\nOK\r\n")
	err := d.Init(context.Background())
	require.NoError(t, err)
}

func TestInitAbortsOnFirstFailure(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("ERROR\r\n")
	err := d.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flow control disable")
}

func TestInboundMessagesNonBlocking(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	for i := 0; i < 10; i++ {
		d.emitInbound([]byte("message"))
	}
	select {
	case <-d.InboundMessages():
	case <-time.After(time.Second):
		t.Fatal("expected at least one buffered message")
	}
}
