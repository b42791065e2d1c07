package h2engine

import (
	"bytes"

	"golang.org/x/net/http2/hpack"
)

// HeaderCoder turns HeaderField slices into HPACK-encoded wire bytes and
// back. The engine treats HPACK as opaque wire-format machinery; it never
// reaches into the dynamic table itself.
type HeaderCoder interface {
	Encode(fields []HeaderField) ([]byte, error)
	Decode(block []byte) ([]HeaderField, error)
	SetMaxDynamicTableSize(size uint32)
	SetMaxDynamicTableSizeLimit(size uint32)
}

// hpackCoder backs HeaderCoder with golang.org/x/net/http2/hpack, since the
// teacher's own hand-rolled hpack.go references an undefined Fields type
// and an undefined hpack.static field and cannot compile as written; the
// x/net package is the same HPACK implementation Go's own net/http uses.
type hpackCoder struct {
	enc    *hpack.Encoder
	encBuf *bytes.Buffer
	dec    *hpack.Decoder
}

// NewHeaderCoder returns a HeaderCoder with the default 4096-byte dynamic
// table size on both sides, per RFC 7541 §4.2.
func NewHeaderCoder() HeaderCoder {
	buf := &bytes.Buffer{}
	c := &hpackCoder{
		enc:    hpack.NewEncoder(buf),
		encBuf: buf,
	}
	c.dec = hpack.NewDecoder(4096, nil)
	return c
}

func (c *hpackCoder) Encode(fields []HeaderField) ([]byte, error) {
	c.encBuf.Reset()
	for i := range fields {
		hf := hpack.HeaderField{
			Name:      fields[i].Key(),
			Value:     fields[i].Value(),
			Sensitive: fields[i].IsSensible(),
		}
		if err := c.enc.WriteField(hf); err != nil {
			return nil, &ProtocolError{Msg: "hpack encode: " + err.Error()}
		}
	}
	out := make([]byte, c.encBuf.Len())
	copy(out, c.encBuf.Bytes())
	return out, nil
}

func (c *hpackCoder) Decode(block []byte) ([]HeaderField, error) {
	decoded, err := c.dec.DecodeFull(block)
	if err != nil {
		return nil, &ProtocolError{Msg: "hpack decode: " + err.Error()}
	}
	out := make([]HeaderField, len(decoded))
	for i, f := range decoded {
		out[i].SetKey(f.Name)
		out[i].SetValue(f.Value)
		out[i].SetSensible(f.Sensitive)
	}
	return out, nil
}

func (c *hpackCoder) SetMaxDynamicTableSize(size uint32) {
	c.enc.SetMaxDynamicTableSize(size)
}

func (c *hpackCoder) SetMaxDynamicTableSizeLimit(size uint32) {
	c.dec.SetAllowedMaxDynamicTableSize(size)
}
