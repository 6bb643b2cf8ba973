package common

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// TranscodeText strips a UTF-8 byte order mark and transcodes BOM-marked
// UTF-16 input to UTF-8. Anything else is returned as is, invalid bytes
// included; callers that need valid text use DecodeText.
func TranscodeText(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, []byte{0xff, 0xfe}) || bytes.HasPrefix(data, []byte{0xfe, 0xff}) {
		decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return nil, NewError(KindMalformedInput, "failed to decode text: %v", err)
		}
		return out, nil
	}
	return bytes.TrimPrefix(data, utf8BOM), nil
}

// DecodeText returns data as UTF-8 with any byte order mark removed.
// UTF-16 input is transcoded when it starts with a BOM; everything else must
// already be valid UTF-8.
func DecodeText(data []byte) ([]byte, error) {
	out, err := TranscodeText(data)
	if err != nil {
		return nil, err
	}
	if off := InvalidUTF8Offset(out); off >= 0 {
		return nil, NewError(KindMalformedInput, "failed to decode text: invalid UTF-8 at byte %d", off)
	}
	return out, nil
}

// InvalidUTF8Offset returns the offset of the first byte of b that is not part
// of a valid UTF-8 sequence, or -1 when b is valid.
func InvalidUTF8Offset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
