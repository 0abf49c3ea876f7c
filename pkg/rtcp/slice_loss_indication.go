package rtcp

import (
	"encoding/binary"
	"fmt"
)

// SLIEntry represents a single slice loss: the macroblock address of
// the first lost macroblock, the number of lost macroblocks, and the
// picture they belong to.
type SLIEntry struct {
	// ID of first lost slice
	First uint16

	// Number of lost slices
	Number uint16

	// ID of related picture
	Picture uint8
}

// The SliceLossIndication packet informs the encoder about the loss of
// a picture slice. See RFC 4585 Section 6.3.2.
type SliceLossIndication struct {
	// SSRC of sender
	SenderSSRC uint32

	// SSRC of the media source
	MediaSSRC uint32

	SLI []SLIEntry
}

var _ Packet = (*SliceLossIndication)(nil)

const sliEntryLength = 4

// Marshal encodes the SliceLossIndication in binary.
func (p SliceLossIndication) Marshal() ([]byte, error) {
	if len(p.SLI) > countMax {
		return nil, errTooManyReports
	}

	fci := make([]byte, len(p.SLI)*sliEntryLength)
	for i, s := range p.SLI {
		sli := (uint32(s.First)&0x1FFF)<<19 |
			(uint32(s.Number)&0x1FFF)<<6 |
			uint32(s.Picture)&0x3F
		binary.BigEndian.PutUint32(fci[sliEntryLength*i:], sli)
	}

	return marshalFeedback(TypePayloadSpecificFeedback, FormatSLI, p.SenderSSRC, p.MediaSSRC, fci)
}

// Unmarshal decodes the SliceLossIndication from binary.
func (p *SliceLossIndication) Unmarshal(rawPacket []byte) error {
	_, senderSSRC, mediaSSRC, fci, err := unmarshalFeedback(rawPacket, TypePayloadSpecificFeedback, FormatSLI)
	if err != nil {
		return err
	}

	p.SenderSSRC = senderSSRC
	p.MediaSSRC = mediaSSRC
	for i := 0; i+sliEntryLength <= len(fci); i += sliEntryLength {
		sli := binary.BigEndian.Uint32(fci[i:])
		p.SLI = append(p.SLI, SLIEntry{
			First:   uint16(sli >> 19 & 0x1FFF),
			Number:  uint16(sli >> 6 & 0x1FFF),
			Picture: uint8(sli & 0x3F),
		})
	}
	return nil
}

// Header returns the Header associated with this packet.
func (p *SliceLossIndication) Header() Header {
	return feedbackHeader(TypePayloadSpecificFeedback, FormatSLI, len(p.SLI)*sliEntryLength)
}

func (p *SliceLossIndication) String() string {
	return fmt.Sprintf("SliceLossIndication %x %x %+v", p.SenderSSRC, p.MediaSSRC, p.SLI)
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p *SliceLossIndication) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}
