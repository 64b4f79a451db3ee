package socksio

import "encoding/binary"

// PutUint16 encodes v as two big-endian bytes, per the network byte order
// required by every multi-byte integer in the SOCKS wire formats.
func PutUint16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

// Uint16 decodes two big-endian bytes into a uint16. The caller must ensure
// len(b) >= 2.
func Uint16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}
