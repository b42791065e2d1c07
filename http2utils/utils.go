// Package http2utils holds the small byte-layout helpers shared by the
// frame codec: 24/32-bit big-endian conversions and padding trimming.
package http2utils

import (
	"errors"
	"reflect"
	"unsafe"
)

// ErrPaddingOutOfRange is returned by CutPadding when the declared padding
// length does not fit inside the frame payload - a malformed frame, not a
// programming error, so it is returned rather than panicking.
var ErrPaddingOutOfRange = errors.New("http2utils: padding length exceeds payload")

func Uint24ToBytes(b []byte, n uint32) {
	_ = b[2] // bound checking
	b[0] = byte(n >> 16)
	b[1] = byte(n >> 8)
	b[2] = byte(n)
}

func BytesToUint24(b []byte) uint32 {
	_ = b[2] // bound checking
	return uint32(b[0])<<16 |
		uint32(b[1])<<8 |
		uint32(b[2])
}

func AppendUint32Bytes(dst []byte, n uint32) []byte {
	dst = append(dst, byte(n>>24))
	dst = append(dst, byte(n>>16))
	dst = append(dst, byte(n>>8))
	dst = append(dst, byte(n))
	return dst
}

func Uint32ToBytes(b []byte, n uint32) {
	_ = b[3] // bound checking
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}

func BytesToUint32(b []byte) uint32 {
	_ = b[3] // bound checking
	n := uint32(b[0])<<24 |
		uint32(b[1])<<16 |
		uint32(b[2])<<8 |
		uint32(b[3])
	return n
}

func EqualsFold(a, b []byte) bool {
	n := len(a)
	if n != len(b) {
		return false
	}
	for i := 0; i < n; i++ {
		if a[i]|0x20 != b[i]|0x20 {
			return false
		}
	}
	return true
}

func Resize(b []byte, neededLen int) []byte {
	b = b[:cap(b)]

	if n := neededLen - len(b); n > 0 {
		b = append(b, make([]byte, n)...)
	}

	return b[:neededLen]
}

// CutPadding strips the padding length byte and trailing padding bytes from
// payload, given the frame's total declared length, per RFC 7540 §6.1/§6.2
// PADDED handling. It returns ErrPaddingOutOfRange instead of panicking on a
// malformed declaration, since a peer controls this value.
func CutPadding(payload []byte, length int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrPaddingOutOfRange
	}
	pad := int(payload[0])

	if pad+1 > length || len(payload) < length-pad-1 {
		return nil, ErrPaddingOutOfRange
	}

	return payload[1 : length-pad], nil
}

func FastBytesToString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}

func FastStringToBytes(s string) []byte {
	sh := (*reflect.StringHeader)(unsafe.Pointer(&s))
	bh := reflect.SliceHeader{
		Data: sh.Data,
		Len:  sh.Len,
		Cap:  sh.Len,
	}

	return *(*[]byte)(unsafe.Pointer(&bh))
}
