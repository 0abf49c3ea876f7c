package rtcp

import "fmt"

// The PictureLossIndication packet informs the encoder about the loss
// of an undefined amount of coded video data belonging to one or more
// pictures.
type PictureLossIndication struct {
	// SSRC of sender
	SenderSSRC uint32

	// SSRC where the loss was experienced
	MediaSSRC uint32
}

var _ Packet = (*PictureLossIndication)(nil)

// Marshal encodes the PictureLossIndication in binary.
func (p PictureLossIndication) Marshal() ([]byte, error) {
	/*
	 * PLI does not require parameters.  Therefore, the length field MUST
	 * be 2, and there MUST NOT be any Feedback Control Information.
	 *
	 * The semantics of this FB message is independent of the payload type.
	 */
	return marshalFeedback(TypePayloadSpecificFeedback, FormatPLI, p.SenderSSRC, p.MediaSSRC, nil)
}

// Unmarshal decodes the PictureLossIndication from binary.
func (p *PictureLossIndication) Unmarshal(rawPacket []byte) error {
	_, senderSSRC, mediaSSRC, _, err := unmarshalFeedback(rawPacket, TypePayloadSpecificFeedback, FormatPLI)
	if err != nil {
		return err
	}

	p.SenderSSRC = senderSSRC
	p.MediaSSRC = mediaSSRC
	return nil
}

// Header returns the Header associated with this packet.
func (p *PictureLossIndication) Header() Header {
	return feedbackHeader(TypePayloadSpecificFeedback, FormatPLI, 0)
}

func (p *PictureLossIndication) String() string {
	return fmt.Sprintf("PictureLossIndication %x %x", p.SenderSSRC, p.MediaSSRC)
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p *PictureLossIndication) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}
