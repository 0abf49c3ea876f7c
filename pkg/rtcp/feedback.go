package rtcp

import "encoding/binary"

// Every feedback packet (RFC 4585) shares the same framing: the common
// header, the SSRC of the packet sender, the SSRC of the media source,
// the format-specific Feedback Control Information (FCI), and zero
// padding to a 4-byte boundary.
//
//  0                   1                   2                   3
//  0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |V=2|P|   FMT   |       PT      |          length               |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                  SSRC of packet sender                        |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                  SSRC of media source                         |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// :            Feedback Control Information (FCI)                 :
// :                                                               :
const (
	feedbackMediaOffset = headerLength + ssrcLength
	feedbackFCIOffset   = headerLength + 2*ssrcLength
)

type feedbackKey struct {
	Type   PacketType
	Format uint8
}

// feedbackRegistry maps a (packet type, format) pair to a constructor
// for the packet that decodes that FCI. Compound Unmarshal and
// NewFeedbackPacket dispatch through it.
var feedbackRegistry = map[feedbackKey]func() Packet{
	{TypeTransportSpecificFeedback, FormatNACK}: func() Packet { return new(TransportLayerNack) },
	{TypeTransportSpecificFeedback, FormatRRR}:  func() Packet { return new(RapidResynchronizationRequest) },
	{TypeTransportSpecificFeedback, FormatTCC}:  func() Packet { return new(TransportLayerCC) },
	{TypePayloadSpecificFeedback, FormatPLI}:    func() Packet { return new(PictureLossIndication) },
	{TypePayloadSpecificFeedback, FormatSLI}:    func() Packet { return new(SliceLossIndication) },
	{TypePayloadSpecificFeedback, FormatFIR}:    func() Packet { return new(FullIntraRequest) },
}

// NewFeedbackPacket returns an empty packet able to decode the FCI of
// the given (packet type, format) pair, or an
// UnsupportedFeedbackTypeError when no codec is registered for it.
func NewFeedbackPacket(packetType PacketType, format uint8) (Packet, error) {
	newPacket, ok := feedbackRegistry[feedbackKey{packetType, format}]
	if !ok {
		return nil, UnsupportedFeedbackTypeError{PacketType: packetType, Format: format}
	}
	return newPacket(), nil
}

// feedbackHeader builds the common header for a feedback packet whose
// FCI occupies fciLen bytes. Length and the padding flag are derived
// from the current FCI size on every call, never cached.
func feedbackHeader(packetType PacketType, format uint8, fciLen int) Header {
	dataSize := feedbackFCIOffset + fciLen
	padSize := getPadding(dataSize)
	return Header{
		Version: rtpVersion,
		Padding: padSize > 0,
		Count:   format,
		Type:    packetType,
		Length:  uint16((dataSize+padSize)/4 - 1),
	}
}

// marshalFeedback frames an FCI payload into a complete feedback
// packet, appending zero octets up to the 4-byte boundary the length
// field accounts for.
func marshalFeedback(packetType PacketType, format uint8, senderSSRC, mediaSSRC uint32, fci []byte) ([]byte, error) {
	h := feedbackHeader(packetType, format, len(fci))
	rawPacket, err := h.Marshal()
	if err != nil {
		return nil, err
	}

	body := make([]byte, int(h.Length+1)*4-headerLength)
	binary.BigEndian.PutUint32(body, senderSSRC)
	binary.BigEndian.PutUint32(body[ssrcLength:], mediaSSRC)
	copy(body[2*ssrcLength:], fci)

	return append(rawPacket, body...), nil
}

// unmarshalFeedback validates the framing of a feedback packet and
// returns its header, both SSRCs and the FCI region. The FCI is bounded
// by the header's declared length, not by the end of rawPacket, and is
// a view into rawPacket valid only as long as the input buffer.
func unmarshalFeedback(rawPacket []byte, packetType PacketType, format uint8) (Header, uint32, uint32, []byte, error) {
	var h Header

	if len(rawPacket) < feedbackFCIOffset {
		return h, 0, 0, nil, errPacketTooShort
	}
	if err := h.Unmarshal(rawPacket); err != nil {
		return h, 0, 0, nil, err
	}

	totalLength := int(h.Length+1) * 4
	if totalLength < feedbackFCIOffset || len(rawPacket) < totalLength {
		return h, 0, 0, nil, errPacketTooShort
	}

	if h.Type != packetType || h.Count != format {
		return h, 0, 0, nil, errWrongType
	}

	senderSSRC := binary.BigEndian.Uint32(rawPacket[headerLength:])
	mediaSSRC := binary.BigEndian.Uint32(rawPacket[feedbackMediaOffset:])
	fci := rawPacket[feedbackFCIOffset:totalLength]

	return h, senderSSRC, mediaSSRC, fci, nil
}
