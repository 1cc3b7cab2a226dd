package doctext

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// detectWindow bounds how much of the file is fed to charset detection
const detectWindow = 10000

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DecodeText converts a plain text upload of unknown charset to UTF-8.
// A byte order mark wins over detection; anything undecodable falls back
// to UTF-8 with invalid sequences dropped. NUL never survives since
// Postgres text columns reject it.
func DecodeText(data []byte) string {
	return strings.ReplaceAll(decode(data), "\x00", "")
}

func decode(data []byte) string {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return strings.ToValidUTF8(string(data[len(bomUTF8):]), "")
	case bytes.HasPrefix(data, bomUTF16LE):
		if s, ok := decodeUTF16(data, unicode.LittleEndian); ok {
			return s
		}
	case bytes.HasPrefix(data, bomUTF16BE):
		if s, ok := decodeUTF16(data, unicode.BigEndian); ok {
			return s
		}
	}

	if order, ok := sniffUTF16(data); ok {
		if out, err := unicode.UTF16(order, unicode.IgnoreBOM).NewDecoder().Bytes(data); err == nil {
			return string(out)
		}
	}

	if utf8.Valid(data) {
		return string(data)
	}

	sample := data
	if len(sample) > detectWindow {
		sample = sample[:detectWindow]
	}
	if res, err := chardet.NewTextDetector().DetectBest(sample); err == nil && res != nil {
		if enc, err := htmlindex.Get(res.Charset); err == nil {
			if out, err := enc.NewDecoder().Bytes(data); err == nil {
				return strings.ToValidUTF8(string(out), "")
			}
		}
	}
	return strings.ToValidUTF8(string(data), "")
}

func decodeUTF16(data []byte, order unicode.Endianness) (string, bool) {
	out, err := unicode.UTF16(order, unicode.ExpectBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// sniffUTF16 spots BOM-less UTF-16 from NUL bytes sitting on one side of
// most code units, which is what mostly-Latin text looks like
func sniffUTF16(data []byte) (unicode.Endianness, bool) {
	sample := data
	if len(sample) > detectWindow {
		sample = sample[:detectWindow]
	}
	units := len(sample) / 2
	if units < 2 {
		return unicode.LittleEndian, false
	}
	var evenNUL, oddNUL int
	for i := 0; i+1 < len(sample); i += 2 {
		switch {
		case sample[i] == 0 && sample[i+1] != 0:
			evenNUL++
		case sample[i] != 0 && sample[i+1] == 0:
			oddNUL++
		}
	}
	switch {
	case oddNUL*2 > units && evenNUL == 0:
		return unicode.LittleEndian, true
	case evenNUL*2 > units && oddNUL == 0:
		return unicode.BigEndian, true
	}
	return unicode.LittleEndian, false
}
