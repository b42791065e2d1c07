package h2engine

// Connection is the sans-I/O HTTP/2 engine: it owns no socket, no timers
// and no goroutines. The caller feeds it bytes read off the wire via
// ReceiveData and gets Events back; the caller calls the Send* methods to
// queue outbound frames and drains the result with DataToSend before
// writing it to whatever transport it owns.
//
// Grounded on the shape of the teacher's serverConn.go (deleted: it mixed
// this bookkeeping directly into net.Conn reads/writes) and on
// original_source/h2/connection.go's H2Connection, which keeps exactly
// this separation between protocol state and I/O.
type Connection struct {
	cfg *Config

	state ConnectionState

	fb *frameBuffer

	local  *SettingsStore
	remote *SettingsStore

	coder HeaderCoder

	streams               map[uint32]*Stream
	highestStreamFromPeer uint32
	nextLocalStreamID     uint32

	outboundWindow int32
	inboundWindow  int32

	// maxOutboundFrameSize is the peer's advertised SETTINGS_MAX_FRAME_SIZE:
	// the largest HEADERS/DATA/PUSH_PROMISE/CONTINUATION payload we may
	// send it. Starts at the RFC 7540 §6.5.2 default and is updated the
	// moment a SETTINGS frame from the peer changes it.
	maxOutboundFrameSize uint32

	outbox []byte

	resetStreamOrder []uint32
	resetStreamSet   map[uint32]bool

	initiated bool

	// goAwaySent guards against queuing more than one GOAWAY: both a
	// user-invoked CloseConnection and an automatic abort on a
	// connection-fatal error go through this flag.
	goAwaySent bool
}

// NewConnection returns an engine ready to have InitiateConnection called.
func NewConnection(cfg *Config) *Connection {
	if cfg == nil {
		cfg = NewConfig(RoleClient)
	}
	isClient := cfg.isClient()

	next := uint32(1)
	if !isClient {
		next = 2
	}

	// The peer's MAX_CONCURRENT_STREAMS stays unbounded until its SETTINGS
	// arrives, so the value we advertise is not kept in the remote store.
	remote := NewSettingsStore(!isClient)
	delete(remote.queues, SettingMaxConcurrentStreams)

	return &Connection{
		cfg:                  cfg,
		state:                ConnIdle,
		fb:                   newFrameBuffer(!isClient, cfg.MaxFrameSize, cfg.MaxContinuationBacklog),
		local:                NewSettingsStore(isClient),
		remote:               remote,
		coder:                NewHeaderCoder(),
		streams:              make(map[uint32]*Stream),
		nextLocalStreamID:    next,
		outboundWindow:       65535,
		inboundWindow:        65535,
		maxOutboundFrameSize: 16384,
		resetStreamSet:       make(map[uint32]bool),
	}
}

// InitiateConnection emits the client preface (if acting as a client) and
// an initial SETTINGS frame, and must be called exactly once before any
// other Send* method.
func (c *Connection) InitiateConnection() []byte {
	if c.initiated {
		return nil
	}
	c.initiated = true
	c.state = processConnInput(c.state, c.cfg.isClient(), connInputInitiate)

	if c.cfg.isClient() {
		c.outbox = append(c.outbox, []byte(clientPreface)...)
	}
	c.cfg.logger().Infof("h2engine: initiating connection, role=%v", c.cfg.Role)

	settings := &SettingsFrame{Values: []SettingPair{
		{Code: SettingHeaderTableSize, Value: c.local.Get(SettingHeaderTableSize)},
		{Code: SettingEnablePush, Value: c.local.Get(SettingEnablePush)},
		{Code: SettingInitialWindowSize, Value: c.local.Get(SettingInitialWindowSize)},
		{Code: SettingMaxFrameSize, Value: c.local.Get(SettingMaxFrameSize)},
		{Code: SettingMaxConcurrentStreams, Value: c.local.Get(SettingMaxConcurrentStreams)},
	}}
	c.appendFrame(settings.encode())
	return c.DataToSend()
}

// DataToSend drains and returns any bytes queued by a prior Send* call.
func (c *Connection) DataToSend() []byte {
	out := c.outbox
	c.outbox = nil
	return out
}

func (c *Connection) appendFrame(raw RawFrame) {
	c.outbox = appendWireFrameHeader(c.outbox, wireFrameHeader{
		Length:   uint32(len(raw.Payload)),
		Type:     raw.Type,
		Flags:    raw.Flags,
		StreamID: raw.StreamID,
	})
	c.outbox = append(c.outbox, raw.Payload...)
}

// ReceiveData feeds newly-arrived bytes into the engine and returns every
// Event the resulting frames produce.
func (c *Connection) ReceiveData(data []byte) ([]Event, error) {
	c.fb.write(data)

	var events []Event
	for {
		raw, ok, err := c.fb.next()
		if err != nil {
			c.cfg.logger().Errorf("h2engine: framing error: %v", err)
			c.abortConnection(err)
			return events, err
		}
		if !ok {
			return events, nil
		}
		evs, err := c.handleFrame(*raw)
		events = append(events, evs...)
		if err != nil {
			c.abortConnection(err)
			return events, err
		}
	}
}

// hasErrorCode is implemented by every connection-fatal error this engine
// raises; abortConnection uses it to pick the wire ErrorCode for the GOAWAY
// it queues.
type hasErrorCode interface {
	Code() ErrorCode
}

// abortConnection queues a GOAWAY carrying err's wire error code (falling
// back to INTERNAL_ERROR for an error with no Code method) and moves the
// connection to Closed, per RFC 7540 §5.4.1: a connection error must be
// followed by a GOAWAY naming the highest stream id this endpoint started
// processing, before the caller sees the error returned from ReceiveData.
func (c *Connection) abortConnection(err error) {
	if c.goAwaySent {
		return
	}
	code := ErrCodeInternalError
	if ce, ok := err.(hasErrorCode); ok {
		code = ce.Code()
	}
	c.goAwaySent = true
	frame := &GoAwayFrame{LastStreamID: c.highestStreamFromPeer, Code: code}
	c.appendFrame(frame.encode())
	c.state = processConnInput(c.state, c.cfg.isClient(), connInputSendGoAway)
}

func (c *Connection) handleFrame(raw RawFrame) ([]Event, error) {
	switch raw.Type {
	case FrameSettings:
		return c.handleSettings(raw)
	case FrameWindowUpdate:
		return c.handleWindowUpdate(raw)
	case FrameHeaders:
		return c.handleHeaders(raw)
	case FrameData:
		return c.handleData(raw)
	case FramePriority:
		return c.handlePriority(raw)
	case FrameRstStream:
		return c.handleRstStream(raw)
	case FramePushPromise:
		return c.handlePushPromise(raw)
	case FramePing:
		return c.handlePing(raw)
	case FrameGoAway:
		return c.handleGoAway(raw)
	case FrameAltSvc:
		return []Event{&UnknownFrameReceived{StreamID: raw.StreamID, Type: raw.Type, Payload: raw.Payload}}, nil
	default:
		return []Event{&UnknownFrameReceived{StreamID: raw.StreamID, Type: raw.Type, Payload: raw.Payload}}, nil
	}
}

func (c *Connection) handleSettings(raw RawFrame) ([]Event, error) {
	sf, err := decodeSettingsFrame(raw)
	if err != nil {
		return nil, err
	}

	if sf.Ack {
		changes := c.local.Acknowledge()
		for _, ch := range changes {
			c.applyLocalSettingsChange(ch)
		}
		return []Event{&SettingsAcknowledged{Changed: changes}}, nil
	}

	changed := make(map[SettingCode]SettingsChange)
	for _, v := range sf.Values {
		prev := c.remote.Get(v.Code)
		if err := c.remote.Set(v.Code, v.Value); err != nil {
			return nil, err
		}
		changed[v.Code] = SettingsChange{Code: v.Code, Previous: prev, New: v.Value}
	}
	promoted := c.remote.Acknowledge()
	for _, p := range promoted {
		changed[p.Code] = p
	}

	for _, ch := range changed {
		if err := c.applyRemoteSettingsChange(ch); err != nil {
			return nil, err
		}
	}

	ack := &SettingsFrame{Ack: true}
	c.appendFrame(ack.encode())

	return []Event{&RemoteSettingsChanged{Changed: changed}}, nil
}

// applyRemoteSettingsChange implements RFC 7540 §6.5.3's "Settings
// Synchronization" side effects for a value the peer just changed:
// INITIAL_WINDOW_SIZE shifts every open stream's send window by the delta,
// HEADER_TABLE_SIZE rebounds our HPACK encoder's table size, and
// MAX_FRAME_SIZE raises or lowers the largest frame we're willing to send.
func (c *Connection) applyRemoteSettingsChange(ch SettingsChange) error {
	if ch.Previous == ch.New {
		return nil
	}
	switch ch.Code {
	case SettingInitialWindowSize:
		delta := int64(ch.New) - int64(ch.Previous)
		for _, st := range c.streams {
			if st.closed() {
				continue
			}
			if err := st.adjustOutboundWindow(delta); err != nil {
				return err
			}
		}
	case SettingMaxFrameSize:
		c.maxOutboundFrameSize = ch.New
	case SettingHeaderTableSize:
		c.coder.SetMaxDynamicTableSize(ch.New)
	}
	return nil
}

// applyLocalSettingsChange reflects one of our own SETTINGS values, once
// the peer has ACKed it, onto the machinery that enforces it locally: our
// own MAX_FRAME_SIZE bounds what the frame buffer accepts from the peer,
// our own HEADER_TABLE_SIZE bounds what our HPACK decoder will honor in
// a dynamic-table-size-update instruction, and our own INITIAL_WINDOW_SIZE
// shifts every open stream's receive window by the delta.
func (c *Connection) applyLocalSettingsChange(ch SettingsChange) {
	switch ch.Code {
	case SettingInitialWindowSize:
		delta := int64(ch.New) - int64(ch.Previous)
		for _, st := range c.streams {
			if !st.closed() {
				st.inboundWindow = int32(int64(st.inboundWindow) + delta)
			}
		}
	case SettingMaxFrameSize:
		c.fb.maxFrameSize = ch.New
	case SettingHeaderTableSize:
		c.coder.SetMaxDynamicTableSizeLimit(ch.New)
	}
}

func (c *Connection) handleWindowUpdate(raw RawFrame) ([]Event, error) {
	wu, err := decodeWindowUpdateFrame(raw)
	if err != nil {
		return nil, err
	}
	if wu.Increment == 0 {
		return nil, &ProtocolError{Msg: "WINDOW_UPDATE increment of 0", StreamID: wu.StreamID}
	}

	if wu.StreamID == 0 {
		next := int64(c.outboundWindow) + int64(wu.Increment)
		if next > 1<<31-1 {
			return nil, &FlowControlError{Msg: "connection send window overflow"}
		}
		c.outboundWindow = int32(next)
		return []Event{&WindowUpdated{StreamID: 0, Delta: wu.Increment}}, nil
	}

	st, ok := c.streams[wu.StreamID]
	if !ok {
		if c.wasReset(wu.StreamID) {
			return nil, nil
		}
		return nil, &NoSuchStreamError{StreamID: wu.StreamID}
	}
	if err := st.increaseOutboundWindow(wu.Increment); err != nil {
		return nil, err
	}
	return []Event{&WindowUpdated{StreamID: wu.StreamID, Delta: wu.Increment}}, nil
}

func (c *Connection) handleHeaders(raw RawFrame) ([]Event, error) {
	hf, err := decodeHeadersFrame(raw)
	if err != nil {
		return nil, err
	}
	if hf.HasPriority && hf.StreamDep == hf.StreamID {
		return nil, &ProtocolError{Msg: "HEADERS frame depends on its own stream", StreamID: hf.StreamID}
	}

	fields, err := c.coder.Decode(hf.HeaderBlock)
	if err != nil {
		return nil, err
	}

	st, existed := c.streams[hf.StreamID]
	if !existed {
		if err := c.validateNewRemoteStreamID(hf.StreamID); err != nil {
			return nil, err
		}
		st = newStream(hf.StreamID, c.cfg.isClient(),
			int32(c.remote.Get(SettingInitialWindowSize)),
			int32(c.local.Get(SettingInitialWindowSize)))
		c.streams[hf.StreamID] = st
	}

	// A HEADERS frame is a response iff this engine is a client; whether
	// it's a trailer instead is decided below from st.receivedHeaders.
	isResponse := c.cfg.isClient()
	informational := isResponse && isInformationalResponse(fields)

	flags := headerValidationFlags{
		isClient:   c.cfg.isClient(),
		isResponse: isResponse,
		isTrailer:  st.receivedHeaders && !informational,
		asciiOnly:  c.cfg.HeaderEncoding == "ascii",
	}
	normalized, err := c.prepareInboundHeaders(fields, flags)
	if err != nil {
		return nil, err
	}

	wasTrailer := flags.isTrailer
	if informational && hf.EndStream {
		return nil, &ProtocolError{Msg: "informational response with END_STREAM", StreamID: hf.StreamID}
	}
	if wasTrailer && !hf.EndStream {
		return nil, &ProtocolError{Msg: "trailers without END_STREAM", StreamID: hf.StreamID}
	}

	if err := st.receiveHeaders(normalized, hf.EndStream, informational); err != nil {
		return nil, err
	}

	var ended *StreamEnded
	if hf.EndStream {
		ended = &StreamEnded{StreamID: hf.StreamID}
	}

	var pri *PriorityUpdated
	if hf.HasPriority {
		pri = &PriorityUpdated{StreamID: hf.StreamID, DependsOn: hf.StreamDep, Weight: hf.Weight, Exclusive: hf.Exclusive}
	}

	switch {
	case wasTrailer:
		return []Event{&TrailersReceived{StreamID: hf.StreamID, Headers: normalized}}, nil
	case informational:
		return []Event{&InformationalResponseReceived{StreamID: hf.StreamID, Headers: normalized}}, nil
	case isResponse:
		return []Event{&ResponseReceived{StreamID: hf.StreamID, Headers: normalized, StreamEnded: ended}}, nil
	default:
		return []Event{&RequestReceived{StreamID: hf.StreamID, Headers: normalized, StreamEnded: ended, Priority: pri}}, nil
	}
}

func (c *Connection) handleData(raw RawFrame) ([]Event, error) {
	df, err := decodeDataFrame(raw)
	if err != nil {
		return nil, err
	}

	if int64(c.inboundWindow)-int64(df.PaddedLen) < 0 {
		return nil, &FlowControlError{Msg: "connection receive window exceeded"}
	}
	c.inboundWindow -= int32(df.PaddedLen)

	st, ok := c.streams[df.StreamID]
	if !ok {
		if c.wasReset(df.StreamID) {
			return nil, nil
		}
		return nil, &NoSuchStreamError{StreamID: df.StreamID}
	}

	if err := st.receiveData(len(df.Data), df.EndStream); err != nil {
		return nil, err
	}
	// Padding counts against the stream window too; receiveData debited
	// only the data bytes.
	if pad := int(df.PaddedLen) - len(df.Data); pad > 0 {
		if err := st.creditInboundConsumed(pad); err != nil {
			return nil, err
		}
	}

	var ended *StreamEnded
	if df.EndStream {
		ended = &StreamEnded{StreamID: df.StreamID}
	}

	return []Event{&DataReceived{
		StreamID:             df.StreamID,
		Data:                 df.Data,
		FlowControlledLength: df.PaddedLen,
		StreamEnded:          ended,
	}}, nil
}

func (c *Connection) handlePriority(raw RawFrame) ([]Event, error) {
	pf, err := decodePriorityFrame(raw)
	if err != nil {
		return nil, err
	}
	return []Event{&PriorityUpdated{StreamID: pf.StreamID, DependsOn: pf.StreamDep, Weight: pf.Weight, Exclusive: pf.Exclusive}}, nil
}

func (c *Connection) handleRstStream(raw RawFrame) ([]Event, error) {
	rf, err := decodeRstStreamFrame(raw)
	if err != nil {
		return nil, err
	}
	if c.wasReset(rf.StreamID) {
		return nil, nil
	}

	st, ok := c.streams[rf.StreamID]
	if ok {
		_ = st.receiveRstStream()
	}
	c.rememberReset(rf.StreamID)

	return []Event{&StreamReset{StreamID: rf.StreamID, ErrorCode: rf.Code, RemoteReset: true}}, nil
}

func (c *Connection) handlePushPromise(raw RawFrame) ([]Event, error) {
	pp, err := decodePushPromiseFrame(raw)
	if err != nil {
		return nil, err
	}
	fields, err := c.coder.Decode(pp.HeaderBlock)
	if err != nil {
		return nil, err
	}
	normalized, err := c.prepareInboundHeaders(fields, headerValidationFlags{
		isClient:      c.cfg.isClient(),
		isPushPromise: true,
		asciiOnly:     c.cfg.HeaderEncoding == "ascii",
	})
	if err != nil {
		return nil, err
	}

	promised := newStream(pp.PromisedStreamID, c.cfg.isClient(),
		int32(c.remote.Get(SettingInitialWindowSize)),
		int32(c.local.Get(SettingInitialWindowSize)))
	if err := promised.apply(InputRecvPushPromise); err != nil {
		return nil, err
	}
	c.streams[pp.PromisedStreamID] = promised

	return []Event{&PushedStreamReceived{ParentStreamID: pp.StreamID, PushedStreamID: pp.PromisedStreamID, Headers: normalized}}, nil
}

func (c *Connection) handlePing(raw RawFrame) ([]Event, error) {
	pf, err := decodePingFrame(raw)
	if err != nil {
		return nil, err
	}
	if pf.Ack {
		return []Event{&PingAckReceived{Data: pf.Data}}, nil
	}
	ack := &PingFrame{Ack: true, Data: pf.Data}
	c.appendFrame(ack.encode())
	return []Event{&PingReceived{Data: pf.Data}}, nil
}

func (c *Connection) handleGoAway(raw RawFrame) ([]Event, error) {
	gf, err := decodeGoAwayFrame(raw)
	if err != nil {
		return nil, err
	}
	c.state = processConnInput(c.state, c.cfg.isClient(), connInputRecvGoAway)
	c.outbox = nil
	c.cfg.logger().Warnf("h2engine: received GOAWAY, last_stream_id=%d code=%s", gf.LastStreamID, gf.Code)
	return []Event{&ConnectionTerminated{LastStreamID: gf.LastStreamID, ErrorCode: gf.Code, AdditionalData: gf.Debug}}, nil
}

// SendHeaders validates/normalizes fields per the Host API config, encodes
// them through HPACK, queues a HEADERS frame (plus zero or more
// CONTINUATION frames if the block doesn't fit in one MAX_FRAME_SIZE), and
// advances the stream's (or a newly-created stream's) local state.
func (c *Connection) SendHeaders(streamID uint32, fields []HeaderField, endStream bool) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	st, ok := c.streams[streamID]
	if !ok {
		if c.countOpenLocalStreams() >= int(c.remote.Get(SettingMaxConcurrentStreams)) {
			return &TooManyStreamsError{Max: c.remote.Get(SettingMaxConcurrentStreams)}
		}
		st = newStream(streamID, c.cfg.isClient(),
			int32(c.remote.Get(SettingInitialWindowSize)),
			int32(c.local.Get(SettingInitialWindowSize)))
	}

	informational := !c.cfg.isClient() && isInformationalResponse(fields)
	if informational && endStream {
		return &ProtocolError{Msg: "informational response with END_STREAM", StreamID: streamID}
	}

	prepared, err := c.prepareOutboundHeaders(fields, headerValidationFlags{
		isClient:   c.cfg.isClient(),
		isResponse: !c.cfg.isClient(),
		isTrailer:  st.sentHeaders && !informational,
		asciiOnly:  c.cfg.HeaderEncoding == "ascii",
	})
	if err != nil {
		return err
	}

	if err := st.sendHeaders(endStream, informational); err != nil {
		return err
	}
	if !ok {
		c.streams[streamID] = st
	}

	block, err := c.coder.Encode(prepared)
	if err != nil {
		return err
	}

	c.queueHeaderBlock(streamID, block, endStream, 0)
	return nil
}

// SendData queues a DATA frame and debits both the stream and connection
// send windows.
func (c *Connection) SendData(streamID uint32, data []byte, endStream bool) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	st, ok := c.streams[streamID]
	if !ok {
		return &NoSuchStreamError{StreamID: streamID}
	}

	if uint32(len(data)) > c.maxOutboundFrameSize {
		return &FrameTooLarge{Size: uint32(len(data)), Max: c.maxOutboundFrameSize}
	}

	if int64(c.outboundWindow)-int64(len(data)) < 0 {
		return &FlowControlError{Msg: "connection send window exceeded"}
	}

	if err := st.sendData(len(data), endStream); err != nil {
		return err
	}
	c.outboundWindow -= int32(len(data))

	frame := &DataFrame{StreamID: streamID, EndStream: endStream, Data: data}
	c.appendFrame(frame.encode())
	return nil
}

// IncrementFlowControlWindow queues a WINDOW_UPDATE for streamID (0 for the
// connection as a whole) and increases the matching inbound window.
func (c *Connection) IncrementFlowControlWindow(streamID uint32, increment uint32) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	if increment == 0 || increment > 1<<31-1 {
		return &ProtocolError{Msg: "WINDOW_UPDATE increment out of range", StreamID: streamID}
	}

	if streamID == 0 {
		if int64(c.inboundWindow)+int64(increment) > 1<<31-1 {
			return &FlowControlError{Msg: "connection receive window overflow"}
		}
		c.inboundWindow += int32(increment)
	} else {
		st, ok := c.streams[streamID]
		if !ok {
			return &NoSuchStreamError{StreamID: streamID}
		}
		if int64(st.inboundWindow)+int64(increment) > 1<<31-1 {
			return &FlowControlError{Msg: "stream receive window overflow", StreamID: streamID}
		}
		st.increaseInboundWindow(increment)
	}

	frame := &WindowUpdateFrame{StreamID: streamID, Increment: increment}
	c.appendFrame(frame.encode())
	return nil
}

// ResetStream queues an RST_STREAM and moves the stream to Closed.
func (c *Connection) ResetStream(streamID uint32, code ErrorCode) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	st, ok := c.streams[streamID]
	if !ok {
		return &NoSuchStreamError{StreamID: streamID}
	}
	if err := st.sendRstStream(); err != nil {
		return err
	}
	c.rememberReset(streamID)

	frame := &RstStreamFrame{StreamID: streamID, Code: code}
	c.appendFrame(frame.encode())
	return nil
}

// PushStream reserves a new server-initiated stream, queues a PUSH_PROMISE
// (plus zero or more CONTINUATION frames) on parentStreamID, and returns
// the new stream's ID.
func (c *Connection) PushStream(parentStreamID uint32, fields []HeaderField) (uint32, error) {
	if err := c.ensureOpen(); err != nil {
		return 0, err
	}
	if c.cfg.isClient() {
		return 0, &ProtocolError{Msg: "client cannot push streams"}
	}
	if c.remote.Get(SettingEnablePush) == 0 {
		return 0, &ProtocolError{Msg: "peer disabled server push"}
	}
	if c.countOpenLocalStreams() >= int(c.remote.Get(SettingMaxConcurrentStreams)) {
		return 0, &TooManyStreamsError{Max: c.remote.Get(SettingMaxConcurrentStreams)}
	}

	parent, ok := c.streams[parentStreamID]
	if !ok {
		return 0, &NoSuchStreamError{StreamID: parentStreamID}
	}

	prepared, err := c.prepareOutboundHeaders(fields, headerValidationFlags{
		isClient:      c.cfg.isClient(),
		isPushPromise: true,
		asciiOnly:     c.cfg.HeaderEncoding == "ascii",
	})
	if err != nil {
		return 0, err
	}

	if err := parent.apply(InputSendPushPromise); err != nil {
		return 0, err
	}

	promisedID := c.nextLocalStreamID
	c.nextLocalStreamID += 2

	promised := newStream(promisedID, c.cfg.isClient(),
		int32(c.remote.Get(SettingInitialWindowSize)),
		int32(c.local.Get(SettingInitialWindowSize)))
	if err := promised.apply(InputSendPushPromise); err != nil {
		return 0, err
	}
	c.streams[promisedID] = promised

	block, err := c.coder.Encode(prepared)
	if err != nil {
		return 0, err
	}

	c.queueHeaderBlock(parentStreamID, block, false, promisedID)
	return promisedID, nil
}

// Ping queues an un-acked PING frame carrying data.
func (c *Connection) Ping(data [8]byte) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	frame := &PingFrame{Data: data}
	c.appendFrame(frame.encode())
	return nil
}

// CloseConnection queues a GOAWAY and marks the connection closed; no
// further Send* calls are valid afterward. A no-op if a GOAWAY was already
// queued, whether by an earlier call to this method or by an automatic
// abort on a connection-fatal error.
func (c *Connection) CloseConnection(code ErrorCode, debug []byte) {
	if c.goAwaySent {
		return
	}
	c.goAwaySent = true
	frame := &GoAwayFrame{LastStreamID: c.highestStreamFromPeer, Code: code, Debug: debug}
	c.appendFrame(frame.encode())
	c.state = processConnInput(c.state, c.cfg.isClient(), connInputSendGoAway)
}

// UpdateSettings queues an outbound SETTINGS frame changing our own
// advertised values; the change only takes local effect once the peer
// ACKs it (reflected in a later SettingsAcknowledged event).
func (c *Connection) UpdateSettings(values map[SettingCode]uint32) error {
	if err := c.ensureOpen(); err != nil {
		return err
	}
	pairs := make([]SettingPair, 0, len(values))
	for code, value := range values {
		if err := c.local.Set(code, value); err != nil {
			return err
		}
		pairs = append(pairs, SettingPair{Code: code, Value: value})
	}
	frame := &SettingsFrame{Values: pairs}
	c.appendFrame(frame.encode())
	return nil
}

// ensureOpen refuses any further outbound mutation once the connection has
// sent or received a GOAWAY, per RFC 7540 §6.8.
func (c *Connection) ensureOpen() error {
	if c.state == ConnClosed {
		return &ProtocolError{Msg: "connection is closed"}
	}
	return nil
}

// prepareInboundHeaders runs the Host API's inbound validate/normalize
// pair, each independently toggled by Config, on a header block just
// decoded off the wire.
func (c *Connection) prepareInboundHeaders(fields []HeaderField, flags headerValidationFlags) ([]HeaderField, error) {
	if c.cfg.ValidateInboundHeaders {
		if err := validateHeaders(fields, flags); err != nil {
			return nil, err
		}
	}
	out := fields
	if c.cfg.NormalizeInboundHeaders {
		out = normalizeHeaders(out)
	}
	return out, nil
}

// prepareOutboundHeaders runs the Host API's outbound validate/normalize/
// cookie-split pipeline, each independently toggled by Config, on a header
// block a caller is about to send.
func (c *Connection) prepareOutboundHeaders(fields []HeaderField, flags headerValidationFlags) ([]HeaderField, error) {
	out := fields
	if c.cfg.NormalizeOutboundHeaders {
		out = normalizeOutboundHeaders(out)
	}
	if c.cfg.SplitOutboundCookies {
		out = splitOutboundCookies(out)
	}
	if c.cfg.ValidateOutboundHeaders {
		if err := validateHeaders(out, flags); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// countOpenLocalStreams counts streams this side initiated (odd ids as a
// client, even ids as a server) that haven't reached the Closed state, for
// MAX_CONCURRENT_STREAMS enforcement (I4) against the peer's advertised
// limit.
func (c *Connection) countOpenLocalStreams() int {
	n := 0
	for id, st := range c.streams {
		if st.closed() {
			continue
		}
		if (id%2 == 1) == c.cfg.isClient() {
			n++
		}
	}
	return n
}

// queueHeaderBlock emits a HEADERS (promisedID == 0) or PUSH_PROMISE
// (promisedID != 0) frame carrying as much of block as fits under
// maxOutboundFrameSize, followed by zero or more CONTINUATION frames
// carrying the rest, per RFC 7540 §6.2/§6.6/§6.10. EndHeaders is set only
// on the final fragment.
func (c *Connection) queueHeaderBlock(streamID uint32, block []byte, endStream bool, promisedID uint32) {
	max := int(c.maxOutboundFrameSize)
	if max <= 0 {
		max = 16384
	}

	first := block
	var rest []byte
	if len(first) > max {
		first, rest = block[:max], block[max:]
	}
	endHeaders := len(rest) == 0

	if promisedID != 0 {
		frame := &PushPromiseFrame{StreamID: streamID, PromisedStreamID: promisedID, EndHeaders: endHeaders, HeaderBlock: first}
		c.appendFrame(frame.encode())
	} else {
		frame := &HeadersFrame{StreamID: streamID, EndStream: endStream, EndHeaders: endHeaders, HeaderBlock: first}
		c.appendFrame(frame.encode())
	}

	for len(rest) > 0 {
		chunk := rest
		last := true
		if len(chunk) > max {
			chunk, last = rest[:max], false
		}
		cf := &ContinuationFrame{StreamID: streamID, EndHeaders: last, HeaderBlock: chunk}
		c.appendFrame(cf.encode())
		rest = rest[len(chunk):]
	}
}

func (c *Connection) validateNewRemoteStreamID(id uint32) error {
	if id <= c.highestStreamFromPeer && c.highestStreamFromPeer != 0 {
		return &StreamIDTooLow{StreamID: id, HighestSeen: c.highestStreamFromPeer}
	}
	c.highestStreamFromPeer = id
	return nil
}

func (c *Connection) rememberReset(id uint32) {
	if c.resetStreamSet[id] {
		return
	}
	c.resetStreamSet[id] = true
	c.resetStreamOrder = append(c.resetStreamOrder, id)
	if len(c.resetStreamOrder) > c.cfg.MaxResetStreamsTracked {
		evict := c.resetStreamOrder[0]
		c.resetStreamOrder = c.resetStreamOrder[1:]
		delete(c.resetStreamSet, evict)
	}
}

func (c *Connection) wasReset(id uint32) bool {
	return c.resetStreamSet[id]
}
