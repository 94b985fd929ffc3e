package isbd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoOff(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("OK\r\n")
	require.NoError(t, d.EchoOff(context.Background()))
	assert.Equal(t, "ATE0\r\n", string(mm.w))
}

func TestSignalQuality(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("+CSQF:3\r\nOK\r\n")
	q, err := d.SignalQuality(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SignalQuality(3), q)
}

func TestRegistrationStatus(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("+SBDREG:2\r\nOK\r\n")
	status, err := d.RegistrationStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, status)
}

func TestUnlockDeviceWrongKey(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("+CULK:1\r\nOK\r\n")
	err := d.UnlockDevice(context.Background(), "0000")
	assert.ErrorIs(t, err, ErrWrongKey)
}

func TestUnlockDevicePermanentlyLocked(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("+CULK:2\r\nOK\r\n")
	err := d.UnlockDevice(context.Background(), "0000")
	assert.ErrorIs(t, err, ErrPermanentlyLocked)
}

func TestClearBuffers(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("0\r\nOK\r\n")
	result, err := d.ClearBuffers(context.Background(), ClearBoth)
	require.NoError(t, err)
	assert.Equal(t, 0, result)
	assert.Equal(t, "AT+SBDD2\r\n", string(mm.w))
}

func TestInitiateSession(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("+SBDIX:0,1,1,0,0,0\r\nOK\r\n")
	result, err := d.InitiateSession(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, 1, result.MOMSN)
	assert.Equal(t, 1, result.MTStatus)
}

func TestInitiateSessionFailureStatus(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("+SBDIX:32,0,0,0,0,0\r\nOK\r\n")
	result, err := d.InitiateSession(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, "access is denied", result.MOStatusText)
}

func TestLatestNetworkSystemTimeNoService(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("-MSSTM: no network service\r\nOK\r\n")
	_, err := d.LatestNetworkSystemTime(context.Background())
	assert.ErrorIs(t, err, ErrNoNetworkTime)
}

func TestLatestNetworkSystemTime(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("-MSSTM: 00010000\r\nOK\r\n")
	got, err := d.LatestNetworkSystemTime(context.Background())
	require.NoError(t, err)
	want := iridiumEpoch.Add(0x10000 * 90 * time.Millisecond)
	assert.Equal(t, want, got)
}

func TestDetachServiceNotProvisioned(t *testing.T) {
	mm := newMockModem()
	defer mm.Close()
	d := New(mm)
	defer d.Close()

	go mm.send("+SBDDET:1,1\r\nOK\r\n")
	err := d.Detach(context.Background())
	var sessErr *SessionError
	require.ErrorAs(t, err, &sessErr)
	assert.Contains(t, sessErr.Reason, "SBD service is not yet provisioned")
}
