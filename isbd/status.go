package isbd

import "fmt"

// SignalQuality is the number of signal bars the modem reports, in
// [0,5].
type SignalQuality int

// LockStatus is the modem's keypad/SIM lock state, as reported by
// +CULK.
type LockStatus int

const (
	Unlocked LockStatus = iota
	Locked
	PermanentlyLocked
)

func (s LockStatus) String() string {
	switch s {
	case Unlocked:
		return "unlocked"
	case Locked:
		return "locked"
	case PermanentlyLocked:
		return "permanently locked"
	default:
		return fmt.Sprintf("lock status %d", int(s))
	}
}

// RingStatus is the ring-indication state reported by +CRIS.
type RingStatus int

const (
	RingNone RingStatus = iota
	RingReceived
)

func (s RingStatus) String() string {
	if s == RingReceived {
		return "ring received"
	}
	return "none"
}

// ClearMode selects which buffer(s) SBDD clears.
type ClearMode int

const (
	ClearMO   ClearMode = 0
	ClearMT   ClearMode = 1
	ClearBoth ClearMode = 2
)

// SBDStatus is the structured result of +SBDS.
type SBDStatus struct {
	MOMessageInBuffer bool
	MOMSN             int
	MTMessageInBuffer bool
	MTMSN             int
}

// SBDStatusExtended is the structured result of +SBDSX.
type SBDStatusExtended struct {
	SBDStatus
	RingAlertFlag  RingStatus
	MTMessagesWaiting int
}

// SessionResult is the structured outcome of an SBDIX/SBDIXA session
// attempt, as interpreted by the sendMessage pipeline.
//
// MOStatus <= 4 means the MO message, if any, was delivered. MTStatus ==
// 1 means an MT message was delivered to the MT buffer by the gateway as
// part of this session and must be read before the next session; the
// orchestrator does this automatically. MTQueued is the number of
// further MT messages still waiting at the gateway.
type SessionResult struct {
	MOStatus     int
	MOStatusText string
	MOMSN        int
	MTStatus     int
	MTStatusText string
	MTMSN        int
	MTLength     int
	MTQueued     int
}

// Success reports whether the MO portion of the session succeeded.
func (r SessionResult) Success() bool {
	return r.MOStatus <= 4
}
