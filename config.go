package h2engine

// Role distinguishes which side of the connection this engine plays; it
// governs the defaults in NewSettingsStore and the pseudo-header set
// validateAndNormalize enforces.
type Role uint8

const (
	RoleClient Role = iota
	RoleServer
)

// Config collects the knobs that vary the engine's behavior across
// deployments, grounded on the teacher's plain-struct Options pattern
// (configure.go) generalized beyond fasthttp-specific fields.
type Config struct {
	Role Role

	// Logger receives diagnostic output; nil is treated as nopLogger{}.
	Logger Logger

	// MaxContinuationBacklog bounds how many CONTINUATION frames may be
	// fused onto a single HEADERS/PUSH_PROMISE before the connection is
	// torn down with DenialOfService, guarding against an unbounded
	// fragmentation attack.
	MaxContinuationBacklog int

	// MaxResetStreamsTracked bounds how many recently-reset stream IDs the
	// connection remembers for the purpose of tolerating a late frame
	// that raced the RST_STREAM; older entries are evicted FIFO.
	MaxResetStreamsTracked int

	// MaxFrameSize is the SETTINGS_MAX_FRAME_SIZE we advertise and enforce
	// on inbound frames.
	MaxFrameSize uint32

	// HeaderEncoding selects how strictly outbound/inbound header values
	// are checked: "utf-8" (the default) passes any byte sequence through
	// as opaque octets; "ascii" additionally rejects a value carrying a
	// byte above 0x7E (DEL or non-ASCII).
	HeaderEncoding string

	// ValidateOutboundHeaders runs the reject* validation chain on headers
	// this side sends, catching a caller bug (bad pseudo-header ordering,
	// a stray uppercase name) before it reaches the wire. On by default,
	// matching validate_inbound_headers' default in the Host API this
	// mirrors.
	ValidateOutboundHeaders bool

	// NormalizeOutboundHeaders lowercases names, strips surrounding
	// whitespace, drops connection-specific headers, and marks
	// authorization/short-cookie fields never-indexed before a header
	// block this side sends is HPACK-encoded.
	NormalizeOutboundHeaders bool

	// SplitOutboundCookies breaks a single "; "-joined outbound cookie
	// field back into one field per crumb, per RFC 7540 §8.1.2.5, trading
	// a slightly larger header block for better HPACK dynamic-table reuse
	// across requests whose cookie crumbs mostly repeat.
	SplitOutboundCookies bool

	// ValidateInboundHeaders runs the reject* validation chain on headers
	// received from the peer.
	ValidateInboundHeaders bool

	// NormalizeInboundHeaders merges repeated cookie fields back into one
	// and marks never-indexed fields on headers received from the peer.
	NormalizeInboundHeaders bool
}

// NewConfig returns a Config with the documented RFC-aligned defaults for
// the given role: validation and normalization on, for both directions;
// outbound cookie splitting off.
func NewConfig(role Role) *Config {
	return &Config{
		Role:                     role,
		Logger:                   nopLogger{},
		MaxContinuationBacklog:   64,
		MaxResetStreamsTracked:   1024,
		MaxFrameSize:             16384,
		HeaderEncoding:           "utf-8",
		ValidateOutboundHeaders:  true,
		NormalizeOutboundHeaders: true,
		SplitOutboundCookies:     false,
		ValidateInboundHeaders:   true,
		NormalizeInboundHeaders:  true,
	}
}

func (c *Config) logger() Logger {
	if c.Logger == nil {
		return nopLogger{}
	}
	return c.Logger
}

func (c *Config) isClient() bool {
	return c.Role == RoleClient
}
