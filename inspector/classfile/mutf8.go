package classfile

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// decodeModifiedUTF8 decodes the JVM modified UTF-8 form: NUL is encoded as C0 80
// and supplementary characters as surrogate pairs of three byte sequences.
func decodeModifiedUTF8(data []byte) (string, error) {
	ascii := true
	for _, b := range data {
		if b == 0 || b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(data), nil
	}
	builder := strings.Builder{}
	builder.Grow(len(data))
	var pending rune = -1
	flush := func() {
		if pending != -1 {
			builder.WriteRune(utf16.DecodeRune(pending, 0))
			pending = -1
		}
	}
	for i := 0; i < len(data); {
		b := data[i]
		var r rune
		switch {
		case b == 0:
			return "", fmt.Errorf("invalid NUL byte at %d", i)
		case b < 0x80:
			r = rune(b)
			i++
		case b&0xE0 == 0xC0:
			if i+1 >= len(data) || data[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("invalid 2-byte sequence at %d", i)
			}
			r = rune(b&0x1F)<<6 | rune(data[i+1]&0x3F)
			i += 2
		case b&0xF0 == 0xE0:
			if i+2 >= len(data) || data[i+1]&0xC0 != 0x80 || data[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("invalid 3-byte sequence at %d", i)
			}
			r = rune(b&0x0F)<<12 | rune(data[i+1]&0x3F)<<6 | rune(data[i+2]&0x3F)
			i += 3
		default:
			return "", fmt.Errorf("invalid byte 0x%02x at %d", b, i)
		}
		switch {
		case utf16.IsSurrogate(r) && r < 0xDC00:
			flush()
			pending = r
		case utf16.IsSurrogate(r) && pending != -1:
			builder.WriteRune(utf16.DecodeRune(pending, r))
			pending = -1
		default:
			flush()
			builder.WriteRune(r)
		}
	}
	flush()
	return builder.String(), nil
}
