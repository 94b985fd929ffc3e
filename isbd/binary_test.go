package isbd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBinarySuccess(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	msg := []byte("hello")
	go func() {
		mm.send("READY\r\n")
		mm.send("0\r\nOK\r\n")
	}()
	err := d.WriteBinary(context.Background(), msg)
	require.NoError(t, err)

	sum := checksum(msg)
	assert.Equal(t, "AT+SBDWB=5\r\n", string(mm.w[:len("AT+SBDWB=5\r\n")]))
	tail := mm.w[len(mm.w)-2:]
	assert.Equal(t, []byte{sum[0], sum[1]}, tail)
}

func TestWriteBinaryChecksumRejected(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go func() {
		mm.send("READY\r\n")
		mm.send("2\r\nOK\r\n")
	}()
	err := d.WriteBinary(context.Background(), []byte("hello"))
	var bwErr *BinaryWriteError
	require.ErrorAs(t, err, &bwErr)
	assert.Equal(t, 2, bwErr.Code)
}

func TestReadBinarySuccess(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	payload := []byte("world")
	sum := checksum(payload)
	frame := append([]byte{0x00, byte(len(payload))}, payload...)
	frame = append(frame, sum[0], sum[1])
	go func() {
		mm.r <- frame
		mm.send("\r\nOK\r\n")
	}()
	got, err := d.ReadBinary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReadBinaryChecksumMismatch(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	payload := []byte("world")
	frame := append([]byte{0x00, byte(len(payload))}, payload...)
	frame = append(frame, 0xFF, 0xFF)
	go func() {
		mm.r <- frame
		mm.send("\r\nOK\r\n")
	}()
	_, err := d.ReadBinary(context.Background())
	var csErr *ChecksumError
	require.ErrorAs(t, err, &csErr)
}
