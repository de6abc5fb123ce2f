package gateway

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Host processes hand voices and phrases over as UTF-16 code units, four
// hex digits each, so arbitrary Unicode survives a narrow command line.
var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// DecodeHex turns a hex string of UTF-16 code units into text.
// "0041" decodes to "A"; surrogate pairs combine into one rune.
func DecodeHex(s string) (string, error) {
	if len(s) == 0 || len(s)%4 != 0 {
		return "", fmt.Errorf("length %d is not a positive multiple of 4", len(s))
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("not a hex string: %w", err)
	}
	if err := checkSurrogates(raw); err != nil {
		return "", err
	}

	text, err := utf16BE.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("invalid UTF-16: %w", err)
	}
	return string(text), nil
}

// checkSurrogates rejects unpaired surrogates, which the decoder would
// otherwise turn into U+FFFD.
func checkSurrogates(raw []byte) error {
	for i := 0; i < len(raw); i += 2 {
		unit := rune(binary.BigEndian.Uint16(raw[i:]))
		switch {
		case unit >= 0xd800 && unit <= 0xdbff:
			if i+2 >= len(raw) {
				return fmt.Errorf("unpaired surrogate %04x at unit %d", unit, i/2)
			}
			next := rune(binary.BigEndian.Uint16(raw[i+2:]))
			if next < 0xdc00 || next > 0xdfff {
				return fmt.Errorf("unpaired surrogate %04x at unit %d", unit, i/2)
			}
			i += 2
		case unit >= 0xdc00 && unit <= 0xdfff:
			return fmt.Errorf("unpaired surrogate %04x at unit %d", unit, i/2)
		}
	}
	return nil
}

// EncodeHex is the inverse of DecodeHex, producing lowercase digits.
func EncodeHex(s string) (string, error) {
	raw, err := utf16BE.NewEncoder().String(s)
	if err != nil {
		return "", err
	}
	return strings.ToLower(hex.EncodeToString([]byte(raw))), nil
}
