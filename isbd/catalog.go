package isbd

import (
	"context"
	"regexp"
	"strconv"
	"time"

	"github.com/rockblock/isbd/at"
	"github.com/rockblock/isbd/info"
)

var (
	okPattern       = regexp.MustCompile(`^OK$`)
	freeTextPattern = regexp.MustCompile(`^(?:[^O].*|O|O[^K].*|OK.+)$`) // any non-empty line except OK
	readyPattern    = regexp.MustCompile(`^READY`)
	csqPattern      = regexp.MustCompile(`^\+CSQ:\d$`)
	csqfPattern     = regexp.MustCompile(`^\+CSQF:\d$`)
	crisPattern     = regexp.MustCompile(`^\+CRIS:`)
	culkPattern     = regexp.MustCompile(`^\+CULK:`)
	sbdregPattern   = regexp.MustCompile(`^\+SBDREG:`)
	sbdsPattern     = regexp.MustCompile(`^\+SBDS:`)
	sbdsxPattern    = regexp.MustCompile(`^\+SBDSX:`)
	sbddetPattern   = regexp.MustCompile(`^\+SBDDET:`)
	sbdixPattern    = regexp.MustCompile(`^\+SBDIX:`)
	sbdgwPattern    = regexp.MustCompile(`^\+SBDGW:`)
	msstmPattern    = regexp.MustCompile(`^-MSSTM:`)
)

// commandOptions carries the per-call overrides recognised by every
// catalog method.
type commandOptions struct {
	timeout time.Duration
}

// Option overrides a single catalog call's behaviour.
type Option func(*commandOptions)

// WithTimeout overrides the default timeout for a single catalog call.
func WithTimeout(d time.Duration) Option {
	return func(o *commandOptions) { o.timeout = d }
}

func resolveOptions(opts []Option) commandOptions {
	o := commandOptions{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (m *Modem) okCmd(ctx context.Context, text, description string, opts []Option) error {
	o := resolveOptions(opts)
	_, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           text,
		Description:    description,
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
	})
	return err
}

// EchoOff disables AT command echo (ATE0).
func (m *Modem) EchoOff(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "E0", "echo off", opts)
}

// EchoOn enables AT command echo (ATE1).
func (m *Modem) EchoOn(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "E1", "echo on", opts)
}

// QuietModeOff disables quiet mode (ATQ0), so the modem reports result
// codes.
func (m *Modem) QuietModeOff(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "Q0", "quiet mode off", opts)
}

// VerboseModeOn enables verbose (textual) result codes (ATV1).
func (m *Modem) VerboseModeOn(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "V1", "verbose mode on", opts)
}

// FlowControlEnable enables RTS/CTS flow control (AT&K3).
func (m *Modem) FlowControlEnable(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "&K3", "flow control enable", opts)
}

// FlowControlDisable disables flow control (AT&K0).
func (m *Modem) FlowControlDisable(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "&K0", "flow control disable", opts)
}

// FactoryRestore resets the modem to its factory configuration (ATZ).
func (m *Modem) FactoryRestore(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "Z", "factory restore", opts)
}

// ProfileSave stores the active configuration as the given stored
// profile (AT&W<n>).
func (m *Modem) ProfileSave(ctx context.Context, profile int, opts ...Option) error {
	return m.okCmd(ctx, "&W"+strconv.Itoa(profile), "profile save", opts)
}

// ProfileRestore loads a stored profile as the active configuration
// (ATZ<n>).
func (m *Modem) ProfileRestore(ctx context.Context, profile int, opts ...Option) error {
	return m.okCmd(ctx, "Z"+strconv.Itoa(profile), "profile restore", opts)
}

func (m *Modem) identityCmd(ctx context.Context, text, description string, opts []Option) (string, error) {
	o := resolveOptions(opts)
	return m.Execute(ctx, at.CommandDescriptor{
		Text:           text,
		Description:    description,
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  freeTextPattern,
	})
}

// Manufacturer returns the device manufacturer identification (+CGMI).
func (m *Modem) Manufacturer(ctx context.Context, opts ...Option) (string, error) {
	return m.identityCmd(ctx, "+CGMI", "manufacturer", opts)
}

// Model returns the device model identification (+CGMM).
func (m *Modem) Model(ctx context.Context, opts ...Option) (string, error) {
	return m.identityCmd(ctx, "+CGMM", "model", opts)
}

// Revision returns the device firmware revision (+CGMR).
func (m *Modem) Revision(ctx context.Context, opts ...Option) (string, error) {
	return m.identityCmd(ctx, "+CGMR", "revision", opts)
}

// SerialNumber returns the device IMEI/serial number (+CGSN).
func (m *Modem) SerialNumber(ctx context.Context, opts ...Option) (string, error) {
	return m.identityCmd(ctx, "+CGSN", "serial number", opts)
}

// SoftwareVersion returns the device's software version (+GMR).
func (m *Modem) SoftwareVersion(ctx context.Context, opts ...Option) (string, error) {
	return m.identityCmd(ctx, "+GMR", "software version", opts)
}

// HardwareVersion returns the device's hardware version (+GMI).
func (m *Modem) HardwareVersion(ctx context.Context, opts ...Option) (string, error) {
	return m.identityCmd(ctx, "+GMI", "hardware version", opts)
}

// SignalQuality returns the current signal quality via the fast, cached
// +CSQF query.
func (m *Modem) SignalQuality(ctx context.Context, opts ...Option) (SignalQuality, error) {
	return m.signalQuery(ctx, "+CSQF", csqfPattern, opts)
}

// SignalQualityNow returns the current signal quality via the slower
// +CSQ query, which blocks until the modem has taken a fresh reading.
func (m *Modem) SignalQualityNow(ctx context.Context, opts ...Option) (SignalQuality, error) {
	return m.signalQuery(ctx, "+CSQ", csqPattern, opts)
}

func (m *Modem) signalQuery(ctx context.Context, text string, pattern *regexp.Regexp, opts []Option) (SignalQuality, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           text,
		Description:    text,
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  pattern,
	})
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(info.TrimPrefix(resp, text))
	if err != nil {
		return 0, ErrMalformedResponse
	}
	return SignalQuality(n), nil
}

// LatestNetworkSystemTime returns the Iridium system time last reported
// by the network, decoded from -MSSTM. It fails with ErrNoNetworkTime if
// the modem has not yet acquired network time.
func (m *Modem) LatestNetworkSystemTime(ctx context.Context, opts ...Option) (time.Time, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "-MSSTM",
		Description:    "system time",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  msstmPattern,
	})
	if err != nil {
		return time.Time{}, err
	}
	val := info.TrimPrefix(resp, "-MSSTM")
	if val == "no network service" {
		return time.Time{}, ErrNoNetworkTime
	}
	ticks, err := strconv.ParseUint(val, 16, 64)
	if err != nil {
		return time.Time{}, ErrMalformedResponse
	}
	return iridiumEpoch.Add(time.Duration(ticks) * systemTimeTickDuration), nil
}

// RegistrationAutoEnable enables automatic network registration
// (+SBDAREG=1).
func (m *Modem) RegistrationAutoEnable(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "+SBDAREG=1", "registration auto enable", opts)
}

// RegistrationAutoDisable disables automatic network registration
// (+SBDAREG=0).
func (m *Modem) RegistrationAutoDisable(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "+SBDAREG=0", "registration auto disable", opts)
}

// RegistrationInitiate manually attempts network registration
// (+SBDREG).
func (m *Modem) RegistrationInitiate(ctx context.Context, opts ...Option) (int, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDREG",
		Description:    "registration initiate",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  sbdregPattern,
	})
	if err != nil {
		return 0, err
	}
	return parseRegistrationStatus(resp)
}

// RegistrationStatus queries the current network registration status
// (+SBDREG?).
//
// The correct value is the integer status, the first comma-separated
// field after the "+SBDREG:" prefix; a prior implementation this driver is descended from returned the raw
// split(":")[1] string (including any trailing error code), which is
// incorrect for callers expecting just the status.
func (m *Modem) RegistrationStatus(ctx context.Context, opts ...Option) (int, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDREG?",
		Description:    "registration status",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  sbdregPattern,
	})
	if err != nil {
		return 0, err
	}
	return parseRegistrationStatus(resp)
}

func parseRegistrationStatus(resp string) (int, error) {
	fields := info.Fields(resp, "+SBDREG")
	if len(fields) == 0 || fields[0] == "" {
		return 0, ErrMalformedResponse
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, ErrMalformedResponse
	}
	return n, nil
}

// RingAlertEnable enables SBDRING alerts (+SBDMTA=1).
func (m *Modem) RingAlertEnable(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "+SBDMTA=1", "ring alert enable", opts)
}

// RingAlertDisable disables SBDRING alerts (+SBDMTA=0).
func (m *Modem) RingAlertDisable(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "+SBDMTA=0", "ring alert disable", opts)
}

// GetRingAlertEnabled queries whether SBDRING alerts are enabled
// (+SBDMTA?).
func (m *Modem) GetRingAlertEnabled(ctx context.Context, opts ...Option) (bool, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDMTA?",
		Description:    "ring alert status",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  regexp.MustCompile(`^\+SBDMTA:`),
	})
	if err != nil {
		return false, err
	}
	return info.TrimPrefix(resp, "+SBDMTA") == "1", nil
}

// RingIndicationStatus queries the ring-indication status (+CRIS). If
// notify is true and the status is RingReceived, a ring-alert event is
// also emitted on RingAlerts, so a caller that polls +CRIS directly sees
// the same notification a caller watching for an unsolicited SBDRING
// line would have received.
func (m *Modem) RingIndicationStatus(ctx context.Context, notify bool, opts ...Option) (RingStatus, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+CRIS",
		Description:    "ring indication status",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  crisPattern,
	})
	if err != nil {
		return 0, err
	}
	fields := info.Fields(resp, "+CRIS")
	if len(fields) != 2 {
		return 0, ErrMalformedResponse
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, ErrMalformedResponse
	}
	status := RingStatus(n)
	if notify && status == RingReceived {
		m.EmitRingAlert()
	}
	return status, nil
}

// UnlockDevice submits the unit's unlock key (+CULK=<key>). It maps a
// +CULK: 1 response to ErrWrongKey and +CULK: 2 to
// ErrPermanentlyLocked.
func (m *Modem) UnlockDevice(ctx context.Context, key string, opts ...Option) error {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+CULK=" + key,
		Description:    "unlock device",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  culkPattern,
	})
	if err != nil {
		return err
	}
	if resp == "" {
		return nil
	}
	n, err := strconv.Atoi(info.TrimPrefix(resp, "+CULK"))
	if err != nil {
		return ErrMalformedResponse
	}
	switch LockStatus(n) {
	case Locked:
		return ErrWrongKey
	case PermanentlyLocked:
		return ErrPermanentlyLocked
	default:
		return nil
	}
}

// LockStatusQuery queries the lock status (+CULK?).
func (m *Modem) LockStatusQuery(ctx context.Context, opts ...Option) (LockStatus, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+CULK?",
		Description:    "lock status",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  culkPattern,
	})
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(info.TrimPrefix(resp, "+CULK"))
	if err != nil {
		return 0, ErrMalformedResponse
	}
	return LockStatus(n), nil
}

// IndicatorEventReportingDisable unsubscribes from all +CIEV indicator
// reports (+CIER=0,0,0,0).
func (m *Modem) IndicatorEventReportingDisable(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "+CIER=0,0,0,0", "indicator reporting disable", opts)
}

// ClearBuffers clears the MO and/or MT buffer (+SBDD<mode>). It returns
// the clear result code reported by the modem.
func (m *Modem) ClearBuffers(ctx context.Context, mode ClearMode, opts ...Option) (int, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDD" + strconv.Itoa(int(mode)),
		Description:    "clear buffers",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  regexp.MustCompile(`^\d+$`),
	})
	if err != nil {
		return 0, err
	}
	if resp == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(resp)
	if err != nil {
		return 0, ErrMalformedResponse
	}
	return n, nil
}

// ResetMOMSN resets the MO sequence number (+SBDC). Unlike ClearBuffers,
// this is the only operation that resets the MOMSN counter.
func (m *Modem) ResetMOMSN(ctx context.Context, opts ...Option) error {
	return m.okCmd(ctx, "+SBDC", "reset MOMSN", opts)
}

// Status queries the SBD status (+SBDS).
func (m *Modem) Status(ctx context.Context, opts ...Option) (SBDStatus, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDS",
		Description:    "SBD status",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  sbdsPattern,
	})
	if err != nil {
		return SBDStatus{}, err
	}
	fields := info.Fields(resp, "+SBDS")
	if len(fields) != 4 {
		return SBDStatus{}, ErrMalformedResponse
	}
	n := make([]int, 4)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return SBDStatus{}, ErrMalformedResponse
		}
		n[i] = v
	}
	return SBDStatus{
		MOMessageInBuffer: n[0] != 0,
		MOMSN:             n[1],
		MTMessageInBuffer: n[2] != 0,
		MTMSN:             n[3],
	}, nil
}

// StatusExtended queries the extended SBD status (+SBDSX).
func (m *Modem) StatusExtended(ctx context.Context, opts ...Option) (SBDStatusExtended, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDSX",
		Description:    "SBD status extended",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  sbdsxPattern,
	})
	if err != nil {
		return SBDStatusExtended{}, err
	}
	fields := info.Fields(resp, "+SBDSX")
	if len(fields) != 6 {
		return SBDStatusExtended{}, ErrMalformedResponse
	}
	n := make([]int, 6)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return SBDStatusExtended{}, ErrMalformedResponse
		}
		n[i] = v
	}
	return SBDStatusExtended{
		SBDStatus: SBDStatus{
			MOMessageInBuffer: n[0] != 0,
			MOMSN:             n[1],
			MTMessageInBuffer: n[2] != 0,
			MTMSN:             n[3],
		},
		RingAlertFlag:     RingStatus(n[4]),
		MTMessagesWaiting: n[5],
	}, nil
}

// Loopback performs an MO-to-MT loopback test (+SBDTC) and returns the
// modem's report line.
func (m *Modem) Loopback(ctx context.Context, opts ...Option) (string, error) {
	o := resolveOptions(opts)
	return m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDTC",
		Description:    "loopback",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  freeTextPattern,
	})
}

// GatewayType queries the SBD gateway type (+SBDGW).
func (m *Modem) GatewayType(ctx context.Context, opts ...Option) (string, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDGW",
		Description:    "gateway type",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  sbdgwPattern,
	})
	if err != nil {
		return "", err
	}
	return info.TrimPrefix(resp, "+SBDGW"), nil
}

// WriteText loads text into the MO buffer (+SBDWT=<text>).
func (m *Modem) WriteText(ctx context.Context, text string, opts ...Option) error {
	return m.okCmd(ctx, "+SBDWT="+text, "write text", opts)
}

// ReadText reads the MT buffer as text (+SBDRT).
func (m *Modem) ReadText(ctx context.Context, opts ...Option) (string, error) {
	o := resolveOptions(opts)
	return m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDRT",
		Description:    "read text",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  freeTextPattern,
	})
}

// InitiateSession attempts an SBD session (+SBDIX).
func (m *Modem) InitiateSession(ctx context.Context, opts ...Option) (SessionResult, error) {
	return m.initiateSession(ctx, "+SBDIX", opts)
}

// InitiateSessionExtended attempts an SBD session acknowledging a ring
// alert (+SBDIXA).
func (m *Modem) InitiateSessionExtended(ctx context.Context, opts ...Option) (SessionResult, error) {
	return m.initiateSession(ctx, "+SBDIXA", opts)
}

func (m *Modem) initiateSession(ctx context.Context, text string, opts []Option) (SessionResult, error) {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           text,
		Description:    "initiate session",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  sbdixPattern,
	})
	if err != nil {
		return SessionResult{}, err
	}
	return parseSessionResult(resp)
}

func parseSessionResult(resp string) (SessionResult, error) {
	fields := info.Fields(resp, "+SBDIX")
	if len(fields) != 6 {
		return SessionResult{}, ErrMalformedResponse
	}
	n := make([]int, 6)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return SessionResult{}, ErrMalformedResponse
		}
		n[i] = v
	}
	return SessionResult{
		MOStatus:     n[0],
		MOStatusText: moStatusText(n[0]),
		MOMSN:        n[1],
		MTStatus:     n[2],
		MTStatusText: mtStatusText(n[2]),
		MTMSN:        n[3],
		MTLength:     n[4],
		MTQueued:     n[5],
	}, nil
}

// Detach deregisters the unit from the Iridium network (+SBDDET).
func (m *Modem) Detach(ctx context.Context, opts ...Option) error {
	o := resolveOptions(opts)
	resp, err := m.Execute(ctx, at.CommandDescriptor{
		Text:           "+SBDDET",
		Description:    "detach",
		Timeout:        o.timeout,
		SuccessPattern: okPattern,
		BufferPattern:  sbddetPattern,
	})
	if err != nil {
		return err
	}
	fields := info.Fields(resp, "+SBDDET")
	if len(fields) != 2 {
		return ErrMalformedResponse
	}
	status, err := strconv.Atoi(fields[0])
	if err != nil {
		return ErrMalformedResponse
	}
	if status == 0 {
		return nil
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		code = -1
	}
	return &SessionError{Reason: "detach: " + detachErrorText(code)}
}
