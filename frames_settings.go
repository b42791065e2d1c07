package h2engine

import "github.com/mistnet/h2engine/http2utils"

// SettingCode identifies one negotiable HTTP/2 parameter.
//
// https://tools.ietf.org/html/rfc7540#section-6.5.2
type SettingCode uint16

const (
	SettingHeaderTableSize      SettingCode = 0x1
	SettingEnablePush           SettingCode = 0x2
	SettingMaxConcurrentStreams SettingCode = 0x3
	SettingInitialWindowSize    SettingCode = 0x4
	SettingMaxFrameSize         SettingCode = 0x5
	SettingMaxHeaderListSize    SettingCode = 0x6
)

// SettingPair is one code/value entry of a SETTINGS frame.
type SettingPair struct {
	Code  SettingCode
	Value uint32
}

// SettingsFrame is the wire form of a SETTINGS frame: either a list of
// pairs to apply, or (if Ack) an empty acknowledgement.
//
// https://tools.ietf.org/html/rfc7540#section-6.5
type SettingsFrame struct {
	Ack    bool
	Values []SettingPair
}

func decodeSettingsFrame(h RawFrame) (*SettingsFrame, error) {
	if h.Flags.Has(FlagAck) {
		if len(h.Payload) != 0 {
			return nil, &FrameDataMissing{Msg: "SETTINGS ACK must have an empty payload"}
		}
		return &SettingsFrame{Ack: true}, nil
	}

	if len(h.Payload)%6 != 0 {
		return nil, &FrameDataMissing{Msg: "SETTINGS payload is not a multiple of 6 bytes"}
	}

	sf := &SettingsFrame{Values: make([]SettingPair, 0, len(h.Payload)/6)}
	for i := 0; i < len(h.Payload); i += 6 {
		code := SettingCode(uint16(h.Payload[i])<<8 | uint16(h.Payload[i+1]))
		value := http2utils.BytesToUint32(h.Payload[i+2 : i+6])
		sf.Values = append(sf.Values, SettingPair{Code: code, Value: value})
	}
	return sf, nil
}

func (sf *SettingsFrame) encode() RawFrame {
	if sf.Ack {
		return RawFrame{Type: FrameSettings, Flags: FlagAck}
	}

	payload := make([]byte, 0, len(sf.Values)*6)
	for _, v := range sf.Values {
		payload = append(payload, byte(v.Code>>8), byte(v.Code))
		payload = http2utils.AppendUint32Bytes(payload, v.Value)
	}
	return RawFrame{Type: FrameSettings, Payload: payload}
}
