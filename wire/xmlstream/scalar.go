package xmlstream

import (
	"encoding/base64"
	"math"
	"strconv"
)

// Boolean writes the canonical boolean encoding.
func (s *Scope) Boolean(v bool) {
	s.buf.WriteString(strconv.FormatBool(v))
}

// Byte writes an 8-bit integer.
func (s *Scope) Byte(v int8) {
	s.Long(int64(v))
}

// Short writes a 16-bit integer.
func (s *Scope) Short(v int16) {
	s.Long(int64(v))
}

// Integer writes a 32-bit integer.
func (s *Scope) Integer(v int32) {
	s.Long(int64(v))
}

// Long writes a 64-bit integer.
func (s *Scope) Long(v int64) {
	s.buf.WriteString(strconv.FormatInt(v, 10))
}

// Float writes a 32-bit float in its canonical form.
func (s *Scope) Float(v float32) {
	s.writeFloat(float64(v), 32)
}

// Double writes a 64-bit float in its canonical form.
func (s *Scope) Double(v float64) {
	s.writeFloat(v, 64)
}

// Base64 writes the standard base64 encoding of the bytes as text.
func (s *Scope) Base64(v []byte) {
	s.buf.WriteString(base64.StdEncoding.EncodeToString(v))
}

func (s *Scope) writeFloat(v float64, bits int) {
	switch {
	case math.IsNaN(v):
		s.buf.WriteString("NaN")
	case math.IsInf(v, 1):
		s.buf.WriteString("Infinity")
	case math.IsInf(v, -1):
		s.buf.WriteString("-Infinity")
	default:
		s.buf.WriteString(strconv.FormatFloat(v, 'g', -1, bits))
	}
}
