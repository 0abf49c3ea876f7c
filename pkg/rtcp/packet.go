package rtcp

// Packet represents an RTCP packet, a protocol used for out-of-band
// statistics and control information for an RTP session.
type Packet interface {
	// DestinationSSRC returns an array of SSRC values that this packet refers to.
	DestinationSSRC() []uint32

	Marshal() ([]byte, error)
	Unmarshal(rawPacket []byte) error
}

// Unmarshal takes an entire udp datagram (which may consist of multiple
// RTCP packets) and returns the unmarshaled packets it contains.
//
// Feedback packets with an unrecognized format fail with
// UnsupportedFeedbackTypeError rather than being passed through; other
// unknown packet types are returned as RawPacket.
func Unmarshal(rawData []byte) ([]Packet, error) {
	var packets []Packet
	for len(rawData) != 0 {
		p, processed, err := unmarshal(rawData)
		if err != nil {
			return nil, err
		}

		packets = append(packets, p)
		rawData = rawData[processed:]
	}

	if len(packets) == 0 {
		return nil, errInvalidHeader
	}
	return packets, nil
}

// Marshal takes an array of Packets and serializes them to a single buffer.
func Marshal(packets []Packet) ([]byte, error) {
	out := make([]byte, 0)
	for _, p := range packets {
		data, err := p.Marshal()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

// unmarshal pulls the first RTCP packet from a bytestream and returns
// its parsed representation and the number of bytes it occupied.
func unmarshal(rawData []byte) (Packet, int, error) {
	var h Header
	if err := h.Unmarshal(rawData); err != nil {
		return nil, 0, err
	}

	bytesProcessed := int(h.Length+1) * 4
	if bytesProcessed > len(rawData) {
		return nil, 0, errPacketTooShort
	}
	inPacket := rawData[:bytesProcessed]

	packet, err := newPacketForHeader(h)
	if err != nil {
		return nil, 0, err
	}

	if err := packet.Unmarshal(inPacket); err != nil {
		return nil, 0, err
	}
	return packet, bytesProcessed, nil
}

// newPacketForHeader returns an empty Packet of the concrete type the
// header announces. Unknown non-feedback types map to RawPacket.
func newPacketForHeader(h Header) (Packet, error) {
	switch h.Type {
	case TypeSenderReport:
		return new(SenderReport), nil
	case TypeReceiverReport:
		return new(ReceiverReport), nil
	case TypeTransportSpecificFeedback, TypePayloadSpecificFeedback:
		return NewFeedbackPacket(h.Type, h.Count)
	default:
		return new(RawPacket), nil
	}
}
