package h2engine

import (
	"strconv"
	"strings"
)

// headerValidationFlags mirrors h2/utilities.py's HeaderValidationFlags
// namedtuple: which pseudo-header set and which special-casing apply to
// the header block being validated.
type headerValidationFlags struct {
	isClient      bool
	isTrailer     bool
	isResponse    bool
	isPushPromise bool

	// asciiOnly mirrors Config.HeaderEncoding == "ascii": reject any header
	// value carrying a byte above 0x7E (DEL or non-ASCII) instead of
	// passing it through as opaque bytes.
	asciiOnly bool
}

var requestPseudoHeaders = map[string]bool{
	":method": true, ":path": true, ":scheme": true, ":authority": true, ":protocol": true,
}

var responsePseudoHeaders = map[string]bool{
	":status": true,
}

// connectionSpecificHeaders are forbidden on the wire per RFC 7540 §8.1.2.2.
var connectionSpecificHeaders = map[string]bool{
	"connection":        true,
	"keep-alive":        true,
	"proxy-connection":  true,
	"transfer-encoding": true,
	"upgrade":           true,
}

// neverIndexedHeaders are marked sensible (never-indexed in HPACK) the way
// h2/utilities.py's _secure_headers does, unconditionally for authorization
// headers and conditionally (short values) for cookie.
var neverIndexedHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
}

const shortCookieThreshold = 20

// validateHeaders runs the reject* chain ported from h2/utilities.py's
// validate_headers: malformed field names/values, TE, connection-specific
// headers and pseudo-header ordering/placement. It never reorders or
// rewrites fields - that is normalizeHeaders' job.
func validateHeaders(fields []HeaderField, flags headerValidationFlags) error {
	if err := rejectEmptyNames(fields); err != nil {
		return err
	}
	if err := rejectUppercase(fields); err != nil {
		return err
	}
	if err := rejectSurroundingWhitespace(fields); err != nil {
		return err
	}
	if flags.asciiOnly {
		if err := rejectNonASCII(fields); err != nil {
			return err
		}
	}
	if err := rejectTE(fields, flags); err != nil {
		return err
	}
	if err := rejectConnectionHeaders(fields); err != nil {
		return err
	}
	if err := rejectPseudoHeaderFields(fields, flags); err != nil {
		return err
	}
	return nil
}

// normalizeHeaders runs h2/utilities.py's normalize_inbound_headers: it
// joins any repeated cookie fields back into one, per RFC 7540 §8.1.2.5,
// and marks never-indexed fields so HeaderCoder never places them in the
// HPACK dynamic table.
func normalizeHeaders(fields []HeaderField) []HeaderField {
	out := mergeCookies(fields)
	secureHeaders(out)
	return out
}

// validateAndNormalize is the inbound pipeline validateHeaders+
// normalizeHeaders compose into: reject malformed fields, enforce
// pseudo-header ordering/placement, then merge cookies and mark
// never-indexed fields.
func validateAndNormalize(fields []HeaderField, flags headerValidationFlags) ([]HeaderField, error) {
	if err := validateHeaders(fields, flags); err != nil {
		return nil, err
	}
	return normalizeHeaders(fields), nil
}

// normalizeOutboundHeaders runs h2/utilities.py's normalize_outbound_headers
// (minus cookie splitting, which splitOutboundCookies handles separately so
// it can be toggled independently): lowercase every header name, strip
// surrounding whitespace, drop connection-specific headers, then mark
// never-indexed fields.
func normalizeOutboundHeaders(fields []HeaderField) []HeaderField {
	out := make([]HeaderField, 0, len(fields))
	for i := range fields {
		var hf HeaderField
		hf.SetKey(strings.ToLower(fields[i].Key()))
		hf.SetValue(fields[i].Value())
		hf.SetSensible(fields[i].IsSensible())
		out = append(out, hf)
	}
	out = stripSurroundingWhitespace(out)
	out = stripConnectionHeaders(out)
	secureHeaders(out)
	return out
}

// splitOutboundCookies runs h2/utilities.py's _split_outbound_cookie_fields:
// a single "; "-joined cookie header field is broken back out into one
// field per crumb, which compresses better across requests since repeated
// crumbs get their own HPACK dynamic table entries instead of one field
// that changes value request-to-request.
func splitOutboundCookies(fields []HeaderField) []HeaderField {
	out := make([]HeaderField, 0, len(fields))
	for i := range fields {
		if !strings.EqualFold(fields[i].Key(), "cookie") {
			out = append(out, fields[i])
			continue
		}
		for _, crumb := range strings.Split(fields[i].Value(), "; ") {
			var hf HeaderField
			hf.SetKey(fields[i].Key())
			hf.SetValue(crumb)
			hf.SetSensible(fields[i].IsSensible())
			out = append(out, hf)
		}
	}
	return out
}

func stripSurroundingWhitespace(fields []HeaderField) []HeaderField {
	for i := range fields {
		fields[i].SetKey(strings.TrimSpace(fields[i].Key()))
		fields[i].SetValue(strings.TrimSpace(fields[i].Value()))
	}
	return fields
}

func stripConnectionHeaders(fields []HeaderField) []HeaderField {
	out := make([]HeaderField, 0, len(fields))
	for i := range fields {
		if connectionSpecificHeaders[strings.ToLower(fields[i].Key())] {
			continue
		}
		out = append(out, fields[i])
	}
	return out
}

// rejectNonASCII enforces Config.HeaderEncoding == "ascii": a header value
// carrying any byte above 0x7E (DEL or non-ASCII) is rejected, for hosts
// whose application layer cannot cope with arbitrary bytes in header values.
func rejectNonASCII(fields []HeaderField) error {
	for i := range fields {
		for _, b := range fields[i].ValueBytes() {
			if b > 0x7e {
				return &ProtocolError{Msg: "non-ASCII byte in header value: " + fields[i].Key()}
			}
		}
	}
	return nil
}

func rejectEmptyNames(fields []HeaderField) error {
	for i := range fields {
		if len(fields[i].KeyBytes()) == 0 {
			return &ProtocolError{Msg: "empty header name"}
		}
	}
	return nil
}

func rejectUppercase(fields []HeaderField) error {
	for i := range fields {
		k := fields[i].KeyBytes()
		for _, b := range k {
			if b >= 'A' && b <= 'Z' {
				return &ProtocolError{Msg: "uppercase header field name: " + fields[i].Key()}
			}
		}
	}
	return nil
}

func rejectSurroundingWhitespace(fields []HeaderField) error {
	for i := range fields {
		k := fields[i].Key()
		v := fields[i].Value()
		if hasSurroundingWhitespace(k) || hasSurroundingWhitespace(v) {
			return &ProtocolError{Msg: "header field with surrounding whitespace: " + k}
		}
	}
	return nil
}

func hasSurroundingWhitespace(s string) bool {
	if s == "" {
		return false
	}
	return s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t'
}

// rejectTE rejects a TE header whose value is anything but "trailers",
// per RFC 7540 §8.1.2.2.
func rejectTE(fields []HeaderField, flags headerValidationFlags) error {
	for i := range fields {
		if strings.EqualFold(fields[i].Key(), "te") && !strings.EqualFold(fields[i].Value(), "trailers") {
			return &ProtocolError{Msg: "TE header field with value other than \"trailers\""}
		}
	}
	return nil
}

// rejectConnectionHeaders rejects hop-by-hop connection-specific headers
// that have no place in HTTP/2, per RFC 7540 §8.1.2.2.
func rejectConnectionHeaders(fields []HeaderField) error {
	for i := range fields {
		if connectionSpecificHeaders[strings.ToLower(fields[i].Key())] {
			return &ProtocolError{Msg: "connection-specific header field: " + fields[i].Key()}
		}
	}
	return nil
}

// rejectPseudoHeaderFields enforces RFC 7540 §8.1.2.1: all pseudo-headers
// must precede regular headers, no pseudo-header may repeat, no unknown or
// misplaced (response pseudo-header on a request, or vice versa)
// pseudo-header is allowed, and trailers may carry none at all.
func rejectPseudoHeaderFields(fields []HeaderField, flags headerValidationFlags) error {
	allowed := requestPseudoHeaders
	if flags.isResponse {
		allowed = responsePseudoHeaders
	}

	seen := make(map[string]bool)
	seenRegular := false
	for i := range fields {
		k := fields[i].Key()
		if !fields[i].IsPseudo() {
			seenRegular = true
			continue
		}
		if flags.isTrailer {
			return &ProtocolError{Msg: "pseudo-header field in trailers: " + k}
		}
		if seenRegular {
			return &ProtocolError{Msg: "pseudo-header field after regular header: " + k}
		}
		if seen[k] {
			return &ProtocolError{Msg: "duplicate pseudo-header field: " + k}
		}
		seen[k] = true
		if !allowed[k] {
			return &ProtocolError{Msg: "invalid pseudo-header field: " + k}
		}
	}

	if flags.isTrailer {
		return nil
	}

	if flags.isResponse {
		if !seen[":status"] {
			return &ProtocolError{Msg: "response missing :status pseudo-header"}
		}
		return nil
	}

	if flags.isPushPromise {
		return requireRequestPseudoHeaders(seen, fields)
	}

	return requireRequestPseudoHeaders(seen, fields)
}

func requireRequestPseudoHeaders(seen map[string]bool, fields []HeaderField) error {
	method := headerValue(fields, ":method")
	if !seen[":method"] {
		return &ProtocolError{Msg: "request missing :method pseudo-header"}
	}
	if seen[":protocol"] && method != "CONNECT" {
		// Extended CONNECT per RFC 8441: :protocol is only valid alongside
		// :method = CONNECT.
		return &ProtocolError{Msg: ":protocol pseudo-header on a non-CONNECT request"}
	}
	if method == "CONNECT" {
		// Normal CONNECT carries only :method and :authority; extended
		// CONNECT (RFC 8441) additionally carries :protocol, :scheme, :path.
		if seen[":protocol"] {
			if !seen[":scheme"] || !seen[":path"] {
				return &ProtocolError{Msg: "extended CONNECT missing :scheme or :path"}
			}
		} else if seen[":scheme"] || seen[":path"] {
			return &ProtocolError{Msg: "CONNECT request with :scheme or :path but no :protocol"}
		}
		if !seen[":authority"] {
			return &ProtocolError{Msg: "CONNECT request missing :authority pseudo-header"}
		}
		return nil
	}
	if !seen[":scheme"] || !seen[":path"] {
		return &ProtocolError{Msg: "request missing :scheme or :path pseudo-header"}
	}
	return nil
}

func headerValue(fields []HeaderField, key string) string {
	for i := range fields {
		if fields[i].Key() == key {
			return fields[i].Value()
		}
	}
	return ""
}

// authorityFromHeaders returns :authority if present, else falls back to
// Host, per h2/utilities.py's authority_from_headers, and rejects a block
// carrying both with disagreeing values. validateHeaders does not call it.
func authorityFromHeaders(fields []HeaderField) (string, error) {
	authority := ""
	host := ""
	haveAuthority := false
	haveHost := false
	for i := range fields {
		switch fields[i].Key() {
		case ":authority":
			authority = fields[i].Value()
			haveAuthority = true
		case "host":
			host = fields[i].Value()
			haveHost = true
		}
	}
	if haveAuthority && haveHost && authority != host {
		return "", &ProtocolError{Msg: ":authority and Host header disagree"}
	}
	if haveAuthority {
		return authority, nil
	}
	return host, nil
}

// mergeCookies joins repeated cookie header fields into a single field with
// "; "-separated values, per RFC 7540 §8.1.2.5.
func mergeCookies(fields []HeaderField) []HeaderField {
	var cookieValues []string
	out := make([]HeaderField, 0, len(fields))
	cookieIdx := -1
	for i := range fields {
		if strings.EqualFold(fields[i].Key(), "cookie") {
			cookieValues = append(cookieValues, fields[i].Value())
			if cookieIdx == -1 {
				cookieIdx = len(out)
				out = append(out, fields[i])
			}
			continue
		}
		out = append(out, fields[i])
	}
	if len(cookieValues) > 1 {
		out[cookieIdx].SetValue(strings.Join(cookieValues, "; "))
	}
	return out
}

// secureHeaders marks never-indexed headers sensible so HeaderCoder never
// places them in the HPACK dynamic table, matching h2/utilities.py's
// _secure_headers (authorization always, cookie only when short - a short
// cookie is more likely to be a session identifier worth keeping out of a
// table an attacker could probe via HPACK-compression side channels).
func secureHeaders(fields []HeaderField) {
	for i := range fields {
		k := strings.ToLower(fields[i].Key())
		if neverIndexedHeaders[k] {
			fields[i].SetSensible(true)
			continue
		}
		if k == "cookie" && len(fields[i].ValueBytes()) < shortCookieThreshold {
			fields[i].SetSensible(true)
		}
	}
}

// contentLength parses the content-length header, if present, returning
// (value, true, nil). A non-numeric value is a protocol error.
func contentLength(fields []HeaderField) (uint64, bool, error) {
	for i := range fields {
		if strings.EqualFold(fields[i].Key(), "content-length") {
			v, err := strconv.ParseUint(fields[i].Value(), 10, 64)
			if err != nil {
				return 0, true, &ProtocolError{Msg: "invalid content-length: " + fields[i].Value()}
			}
			return v, true, nil
		}
	}
	return 0, false, nil
}

// isInformationalResponse reports whether :status is a 1xx code other than
// 101, per h2/utilities.py's is_informational_response.
func isInformationalResponse(fields []HeaderField) bool {
	status := headerValue(fields, ":status")
	return len(status) == 3 && status[0] == '1' && status != "101"
}
