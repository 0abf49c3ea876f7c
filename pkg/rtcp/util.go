package rtcp

// getPadding returns the number of zero octets required to extend len
// to a multiple of 4.
func getPadding(len int) int {
	if len%4 == 0 {
		return 0
	}
	return 4 - (len % 4)
}

// get24BitsFromBytes reads a big-endian 24-bit value.
func get24BitsFromBytes(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// put24BitsToBytes writes the low 24 bits of v big-endian.
func put24BitsToBytes(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}
