package isbd

import "time"

// iridiumEpoch is the reference instant for -MSSTM system time values.
var iridiumEpoch = time.Date(2007, time.March, 8, 3, 50, 35, 0, time.UTC)

// systemTimeTickDuration is the open question from the design notes: the
// vendor manual specifies -MSSTM in 90ms ticks from iridiumEpoch, while
// at least one known source implementation treats the hex payload as raw
// milliseconds. LatestNetworkSystemTime parses the wire-level hex value
// and applies the 90ms tick defined here, as a single documented
// constant a reviewer can swap for a raw-millisecond interpretation
// without touching the parser; the raw hex value itself is not returned.
const systemTimeTickDuration = 90 * time.Millisecond

// moStatusText maps an SBDIX MO status code to its human-readable
// meaning.
func moStatusText(code int) string {
	switch {
	case code == 0:
		return "MO message, if any, transferred successfully"
	case code == 1:
		return "MO message, if any, transferred successfully, but MT message queued at gateway"
	case code == 2:
		return "MO message, if any, transferred successfully, but too big for queued MT message"
	case code == 3:
		return "MO message, if any, transferred successfully, but too big for queued MT message, which was discarded"
	case code >= 5 && code <= 8:
		return "reserved, but indicative of failure"
	case code == 10:
		return "SBD protocol error"
	case code == 11:
		return "SBD ring alert, but no MT message to transfer"
	case code == 12:
		return "no network service"
	case code == 13:
		return "antenna fault"
	case code == 14:
		return "radio disabled"
	case code == 15:
		return "modem busy"
	case code == 16:
		return "SBD service temporarily disabled"
	case code == 17:
		return "MO message too large"
	case code == 18:
		return "timeout before session completed"
	case code == 19:
		return "MO message queue full at gateway"
	case code == 32:
		return "access is denied"
	default:
		return "unknown MO status"
	}
}

// mtStatusText maps an SBDIX MT status code to its human-readable
// meaning.
func mtStatusText(code int) string {
	switch code {
	case 0:
		return "no MT message to receive"
	case 1:
		return "MT message received successfully"
	case 2:
		return "error occurred while attempting to perform a mailbox check or receive a message"
	default:
		return "unknown MT status"
	}
}

// binaryWriteResultText maps the SBDWB phase-2 response digit to a
// human-readable failure reason.
func binaryWriteResultText(code int) string {
	switch code {
	case 0:
		return "SBD message successfully written to the 9602/9603"
	case 1:
		return "timeout occurred while transferring the message"
	case 2:
		return "checksum does not match the checksum sent by DTE"
	case 3:
		return "message size is not correct"
	default:
		return "unknown binary write result"
	}
}

// detachErrorText maps an SBDDET error code to a human-readable reason.
func detachErrorText(code int) string {
	switch code {
	case 0:
		return "no error"
	case 1:
		return "SBD service is not yet provisioned on the unit"
	default:
		return "unknown detach error"
	}
}

// checksum computes the 2 byte, big-endian SBDWB checksum: the low 16
// bits of the byte-sum of m, high byte first.
func checksum(m []byte) [2]byte {
	var sum uint32
	for _, b := range m {
		sum += uint32(b)
	}
	sum &= 0xFFFF
	return [2]byte{byte(sum >> 8), byte(sum)}
}
