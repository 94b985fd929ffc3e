package isbd

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrWrongKey indicates unlockDevice was called with an incorrect
	// key (+CULK: 1).
	ErrWrongKey = errors.New("isbd: wrong unlock key")

	// ErrPermanentlyLocked indicates the device is permanently locked
	// (+CULK: 2) and cannot be unlocked.
	ErrPermanentlyLocked = errors.New("isbd: device permanently locked")

	// ErrNoNetworkTime indicates -MSSTM reported "no network service"
	// rather than a time value.
	ErrNoNetworkTime = errors.New("isbd: no network time available")

	// ErrMalformedResponse indicates the modem returned a response that
	// did not match the shape this driver expects for the command.
	ErrMalformedResponse = errors.New("isbd: malformed response")
)

// SessionError indicates a session-level failure: an SBDIX/SBDIXA result
// whose MOStatus indicates failure, a failed mailbox check (when
// FailOnMailboxCheckError is set), or a failed detach. Result carries
// the structured result for diagnosis where one was parsed.
type SessionError struct {
	Reason string
	Result *SessionResult
}

func (e *SessionError) Error() string {
	if e.Result != nil {
		return fmt.Sprintf("isbd: session error: %s (moStatus=%d mtStatus=%d)", e.Reason, e.Result.MOStatus, e.Result.MTStatus)
	}
	return fmt.Sprintf("isbd: session error: %s", e.Reason)
}

// BinaryWriteError indicates the SBDWB phase-2 response code was
// non-zero or otherwise not a recognised digit.
type BinaryWriteError struct {
	Code   int
	Reason string
}

func (e *BinaryWriteError) Error() string {
	return fmt.Sprintf("isbd: binary write error %d: %s", e.Code, e.Reason)
}

// ChecksumError indicates an inbound SBDRB frame's trailing checksum did
// not match its payload.
type ChecksumError struct {
	Expected [2]byte
	Actual   [2]byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("isbd: SBDRB checksum mismatch: expected %v, got %v", e.Expected, e.Actual)
}
