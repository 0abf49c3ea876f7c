package rtcp

import "fmt"

// RawPacket represents an unparsed RTCP packet. It's returned by
// Unmarshal when a packet with an unknown type is encountered, and can
// be used by callers to forward feedback packets this package has no
// codec for.
type RawPacket []byte

var _ Packet = (*RawPacket)(nil)

// Marshal encodes the packet in binary.
func (r RawPacket) Marshal() ([]byte, error) {
	return r, nil
}

// Unmarshal decodes the packet from binary. The header is validated;
// the body is retained verbatim.
func (r *RawPacket) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < headerLength {
		return errPacketTooShort
	}
	*r = rawPacket

	var h Header
	return h.Unmarshal(rawPacket)
}

// Header returns the Header associated with this packet.
func (r RawPacket) Header() Header {
	var h Header
	if err := h.Unmarshal(r); err != nil {
		return Header{}
	}
	return h
}

func (r RawPacket) String() string {
	return fmt.Sprintf("RawPacket: %v", []byte(r))
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (r *RawPacket) DestinationSSRC() []uint32 {
	return []uint32{}
}
