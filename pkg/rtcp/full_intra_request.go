package rtcp

import (
	"encoding/binary"
	"fmt"
)

// A FIREntry is a (SSRC, seqno) pair, as carried by FullIntraRequest.
type FIREntry struct {
	SSRC           uint32
	SequenceNumber uint8
}

// The FullIntraRequest packet is used to reliably request an Intra
// frame in a video stream. See RFC 5104 Section 3.5.1. This is not for
// loss recovery, which should use PictureLossIndication (PLI) instead.
type FullIntraRequest struct {
	SenderSSRC uint32
	MediaSSRC  uint32

	FIR []FIREntry
}

var _ Packet = (*FullIntraRequest)(nil)

const firEntryLength = 8

// Marshal encodes the FullIntraRequest in binary.
func (p FullIntraRequest) Marshal() ([]byte, error) {
	fci := make([]byte, len(p.FIR)*firEntryLength)
	for i, fir := range p.FIR {
		binary.BigEndian.PutUint32(fci[firEntryLength*i:], fir.SSRC)
		fci[firEntryLength*i+4] = fir.SequenceNumber
		// remaining 3 bytes are reserved, left zero
	}

	return marshalFeedback(TypePayloadSpecificFeedback, FormatFIR, p.SenderSSRC, p.MediaSSRC, fci)
}

// Unmarshal decodes the FullIntraRequest from binary.
func (p *FullIntraRequest) Unmarshal(rawPacket []byte) error {
	_, senderSSRC, mediaSSRC, fci, err := unmarshalFeedback(rawPacket, TypePayloadSpecificFeedback, FormatFIR)
	if err != nil {
		return err
	}

	p.SenderSSRC = senderSSRC
	p.MediaSSRC = mediaSSRC
	for i := 0; i+firEntryLength <= len(fci); i += firEntryLength {
		p.FIR = append(p.FIR, FIREntry{
			SSRC:           binary.BigEndian.Uint32(fci[i:]),
			SequenceNumber: fci[i+4],
		})
	}
	return nil
}

// Header returns the Header associated with this packet.
func (p *FullIntraRequest) Header() Header {
	return feedbackHeader(TypePayloadSpecificFeedback, FormatFIR, len(p.FIR)*firEntryLength)
}

func (p *FullIntraRequest) String() string {
	out := fmt.Sprintf("FullIntraRequest %x %x", p.SenderSSRC, p.MediaSSRC)
	for _, e := range p.FIR {
		out += fmt.Sprintf(" (%x %v)", e.SSRC, e.SequenceNumber)
	}
	return out
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p *FullIntraRequest) DestinationSSRC() []uint32 {
	ssrcs := make([]uint32, 0, len(p.FIR))
	for _, entry := range p.FIR {
		ssrcs = append(ssrcs, entry.SSRC)
	}
	return ssrcs
}
