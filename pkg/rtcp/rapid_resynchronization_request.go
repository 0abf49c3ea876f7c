package rtcp

import "fmt"

// The RapidResynchronizationRequest packet informs the encoder about
// the loss of an undefined amount of coded video data belonging to one
// or more pictures. See RFC 4585 Section 6.
type RapidResynchronizationRequest struct {
	// SSRC of sender
	SenderSSRC uint32

	// SSRC of the media source
	MediaSSRC uint32
}

var _ Packet = (*RapidResynchronizationRequest)(nil)

// Marshal encodes the RapidResynchronizationRequest in binary.
func (p RapidResynchronizationRequest) Marshal() ([]byte, error) {
	/*
	 * RRR does not require parameters.  Therefore, the length field MUST
	 * be 2, and there MUST NOT be any Feedback Control Information.
	 *
	 * The semantics of this FB message is independent of the payload type.
	 */
	return marshalFeedback(TypeTransportSpecificFeedback, FormatRRR, p.SenderSSRC, p.MediaSSRC, nil)
}

// Unmarshal decodes the RapidResynchronizationRequest from binary.
func (p *RapidResynchronizationRequest) Unmarshal(rawPacket []byte) error {
	_, senderSSRC, mediaSSRC, _, err := unmarshalFeedback(rawPacket, TypeTransportSpecificFeedback, FormatRRR)
	if err != nil {
		return err
	}

	p.SenderSSRC = senderSSRC
	p.MediaSSRC = mediaSSRC
	return nil
}

// Header returns the Header associated with this packet.
func (p *RapidResynchronizationRequest) Header() Header {
	return feedbackHeader(TypeTransportSpecificFeedback, FormatRRR, 0)
}

func (p *RapidResynchronizationRequest) String() string {
	return fmt.Sprintf("RapidResynchronizationRequest %x %x", p.SenderSSRC, p.MediaSSRC)
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p *RapidResynchronizationRequest) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}
