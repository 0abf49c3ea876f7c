package rtcp

import (
	"encoding/binary"
	"fmt"
)

// PacketBitmap shouldn't be used like a normal integral, it is a bitmask
// of lost packets relative to a NackPair's PacketID: bit i set means
// sequence number PacketID+i+1 was also lost.
type PacketBitmap uint16

// NackPair is a wire-format item in a Generic NACK message: the first
// confirmed-lost sequence number plus a bitmask of up to 16 further
// losses following it.
//
//  0                   1                   2                   3
//  0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |            PID                |             BLP               |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type NackPair struct {
	// ID of lost packets
	PacketID uint16

	// Bitmask of following lost packets
	LostPackets PacketBitmap
}

const nackPairLength = 4

// Range calls f with every lost sequence number covered by the pair, in
// ascending offset order, until f returns false. Arithmetic wraps in
// the 16-bit sequence space.
func (n *NackPair) Range(f func(seqno uint16) bool) {
	if !f(n.PacketID) {
		return
	}
	for i := uint16(0); i < 16; i++ {
		if (n.LostPackets & (1 << i)) != 0 {
			if !f(n.PacketID + i + 1) {
				return
			}
		}
	}
}

// PacketList returns a list of Nack'd packets that's referenced by a NackPair.
func (n *NackPair) PacketList() []uint16 {
	out := make([]uint16, 0, 17)
	n.Range(func(seqno uint16) bool {
		out = append(out, seqno)
		return true
	})
	return out
}

func (n NackPair) marshalTo(buf []byte) {
	binary.BigEndian.PutUint16(buf, n.PacketID)
	binary.BigEndian.PutUint16(buf[2:], uint16(n.LostPackets))
}

func (n *NackPair) unmarshal(buf []byte) {
	n.PacketID = binary.BigEndian.Uint16(buf)
	n.LostPackets = PacketBitmap(binary.BigEndian.Uint16(buf[2:]))
}

// NackPairsFromSequenceNumbers packs an ascending list of lost sequence
// numbers into the minimal sequence of NackPairs: each pair's base is
// the first unconsumed number, and every following number within 16 of
// the base folds into its bitmask.
//
// The input must already be in ascending wrapping order with no
// duplicates; the packing would otherwise reorder the loss report, so
// such input is rejected with an error instead of being sorted.
func NackPairsFromSequenceNumbers(seqNos []uint16) ([]NackPair, error) {
	if len(seqNos) == 0 {
		return nil, nil
	}

	var pairs []NackPair
	pair := NackPair{PacketID: seqNos[0]}
	for i, seq := range seqNos[1:] {
		// seqNos[i] is the predecessor of seq
		if delta := seq - seqNos[i]; delta == 0 || delta >= 1<<15 {
			return nil, errSequenceOutOfOrder
		}

		if offset := seq - pair.PacketID; offset <= 16 {
			pair.LostPackets |= 1 << (offset - 1)
		} else {
			pairs = append(pairs, pair)
			pair = NackPair{PacketID: seq}
		}
	}
	return append(pairs, pair), nil
}

// The TransportLayerNack packet informs the encoder about the loss of
// specific transport packets.
type TransportLayerNack struct {
	// SSRC of sender
	SenderSSRC uint32

	// SSRC of the media source
	MediaSSRC uint32

	Nacks []NackPair
}

var _ Packet = (*TransportLayerNack)(nil)

// Marshal encodes the TransportLayerNack in binary.
func (p TransportLayerNack) Marshal() ([]byte, error) {
	if len(p.Nacks) > countMax {
		return nil, errTooManyReports
	}

	fci := make([]byte, len(p.Nacks)*nackPairLength)
	for i, n := range p.Nacks {
		n.marshalTo(fci[i*nackPairLength:])
	}

	return marshalFeedback(TypeTransportSpecificFeedback, FormatNACK, p.SenderSSRC, p.MediaSSRC, fci)
}

// Unmarshal decodes the TransportLayerNack from binary.
func (p *TransportLayerNack) Unmarshal(rawPacket []byte) error {
	_, senderSSRC, mediaSSRC, fci, err := unmarshalFeedback(rawPacket, TypeTransportSpecificFeedback, FormatNACK)
	if err != nil {
		return err
	}

	p.SenderSSRC = senderSSRC
	p.MediaSSRC = mediaSSRC
	for i := 0; i+nackPairLength <= len(fci); i += nackPairLength {
		var n NackPair
		n.unmarshal(fci[i:])
		p.Nacks = append(p.Nacks, n)
	}
	return nil
}

// MissingSequenceNumbers expands every pair into the full ordered list
// of lost sequence numbers, in buffer order.
func (p *TransportLayerNack) MissingSequenceNumbers() []uint16 {
	out := make([]uint16, 0, len(p.Nacks))
	for i := range p.Nacks {
		out = append(out, p.Nacks[i].PacketList()...)
	}
	return out
}

// Header returns the Header associated with this packet.
func (p *TransportLayerNack) Header() Header {
	return feedbackHeader(TypeTransportSpecificFeedback, FormatNACK, len(p.Nacks)*nackPairLength)
}

func (p *TransportLayerNack) String() string {
	o := fmt.Sprintf("TransportLayerNack from %x to %x\n\tPackets Lost:\n", p.SenderSSRC, p.MediaSSRC)
	for _, seq := range p.MissingSequenceNumbers() {
		o += fmt.Sprintf("\t%d\n", seq)
	}
	return o
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (p *TransportLayerNack) DestinationSSRC() []uint32 {
	return []uint32{p.MediaSSRC}
}
