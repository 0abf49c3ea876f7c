package rtcp

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mediaplumb/rtpcodec/pkg/bitbuf"
)

// TransportLayerCC is transport-wide congestion control feedback:
// https://tools.ietf.org/html/draft-holmer-rmcat-transport-wide-cc-extensions-01#page-5
//
//  0                   1                   2                   3
//  0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |V=2|P|  FMT=15 |    PT=205     |           length              |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                     SSRC of packet sender                     |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                      SSRC of media source                     |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |      base sequence number     |      packet status count      |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                 reference time                | fb pkt. count |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |          packet chunk         |         packet chunk          |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |         packet chunk          |  recv delta   |  recv delta   |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |           recv delta          |  recv delta   | zero padding  |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+

// Packet status chunk types.
const (
	TypeTCCRunLengthChunk    = 0
	TypeTCCStatusVectorChunk = 1

	packetStatusChunkLength = 2
)

// Packet status symbols.
// https://tools.ietf.org/html/draft-holmer-rmcat-transport-wide-cc-extensions-01#section-3.1.1
const (
	TypeTCCPacketNotReceived = uint16(iota)
	TypeTCCPacketReceivedSmallDelta
	TypeTCCPacketReceivedLargeDelta
	TypeTCCPacketReceivedWithoutDelta
)

// Symbol sizes of a status vector chunk.
const (
	TypeTCCSymbolSizeOneBit = 0
	TypeTCCSymbolSizeTwoBit = 1
)

// PacketStatusChunk has two kinds: RunLengthChunk and StatusVectorChunk.
type PacketStatusChunk interface {
	Marshal() ([]byte, error)
	Unmarshal(rawPacket []byte) error
}

// RunLengthChunk reports the same reception status for a run of
// consecutive packets.
//
//  0                   1
//  0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |T| S |       Run Length        |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type RunLengthChunk struct {
	// PacketStatusSymbol is the status repeated for the whole run.
	PacketStatusSymbol uint16

	// RunLength is the number of packets the run covers, 13 bits.
	RunLength uint16
}

var _ PacketStatusChunk = (*RunLengthChunk)(nil)

// Marshal encodes the RunLengthChunk in binary.
func (r RunLengthChunk) Marshal() ([]byte, error) {
	if r.PacketStatusSymbol > TypeTCCPacketReceivedWithoutDelta {
		return nil, errInvalidChunkSymbol
	}
	if r.RunLength >= 1<<13 {
		return nil, errInvalidRunLength
	}

	chunk := make([]byte, packetStatusChunkLength)
	w := bitbuf.New(chunk)
	// T(1) S(2) run-length(13); the run length straddles the byte
	// boundary, so it is written in a 5-bit and an 8-bit access
	for _, f := range []struct {
		v uint8
		n int
	}{
		{TypeTCCRunLengthChunk, 1},
		{uint8(r.PacketStatusSymbol), 2},
		{uint8(r.RunLength >> 8), 5},
		{uint8(r.RunLength), 8},
	} {
		if err := w.WriteBits(f.v, f.n); err != nil {
			return nil, err
		}
	}
	return chunk, nil
}

// Unmarshal decodes the RunLengthChunk from binary.
func (r *RunLengthChunk) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) != packetStatusChunkLength {
		return errBadStatusChunkLen
	}

	c := bitbuf.New(rawPacket)
	if err := c.Skip(1); err != nil {
		return err
	}
	symbol, err := c.ReadBits(2)
	if err != nil {
		return err
	}
	runHigh, err := c.ReadBits(5)
	if err != nil {
		return err
	}
	runLow, err := c.ReadBits(8)
	if err != nil {
		return err
	}

	r.PacketStatusSymbol = uint16(symbol)
	r.RunLength = uint16(runHigh)<<8 | uint16(runLow)
	return nil
}

// StatusVectorChunk reports an individual status symbol per packet:
// fourteen one-bit symbols or seven two-bit symbols.
//
//  0                   1
//  0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |T|S|       symbol list         |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type StatusVectorChunk struct {
	// SymbolSize is TypeTCCSymbolSizeOneBit or TypeTCCSymbolSizeTwoBit.
	SymbolSize uint16

	// SymbolList carries 14 one-bit or 7 two-bit status symbols.
	SymbolList []uint16
}

var _ PacketStatusChunk = (*StatusVectorChunk)(nil)

func (r StatusVectorChunk) symbolBits() (width, capacity int, err error) {
	switch r.SymbolSize {
	case TypeTCCSymbolSizeOneBit:
		return 1, 14, nil
	case TypeTCCSymbolSizeTwoBit:
		return 2, 7, nil
	default:
		return 0, 0, errInvalidSymbolSize
	}
}

// Marshal encodes the StatusVectorChunk in binary.
func (r StatusVectorChunk) Marshal() ([]byte, error) {
	width, capacity, err := r.symbolBits()
	if err != nil {
		return nil, err
	}
	if len(r.SymbolList) > capacity {
		return nil, errInvalidSymbolSize
	}

	chunk := make([]byte, packetStatusChunkLength)
	w := bitbuf.New(chunk)
	if err := w.WriteBits(TypeTCCStatusVectorChunk, 1); err != nil {
		return nil, err
	}
	if err := w.WriteBits(uint8(r.SymbolSize), 1); err != nil {
		return nil, err
	}
	for _, s := range r.SymbolList {
		if int(s) >= 1<<width {
			return nil, errInvalidChunkSymbol
		}
		if err := w.WriteBits(uint8(s), width); err != nil {
			return nil, err
		}
	}
	return chunk, nil
}

// Unmarshal decodes the StatusVectorChunk from binary.
func (r *StatusVectorChunk) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) != packetStatusChunkLength {
		return errBadStatusChunkLen
	}

	c := bitbuf.New(rawPacket)
	if err := c.Skip(1); err != nil {
		return err
	}
	size, err := c.ReadBits(1)
	if err != nil {
		return err
	}
	r.SymbolSize = uint16(size)

	width, capacity, err := r.symbolBits()
	if err != nil {
		return err
	}
	r.SymbolList = make([]uint16, 0, capacity)
	for i := 0; i < capacity; i++ {
		s, err := c.ReadBits(width)
		if err != nil {
			return err
		}
		r.SymbolList = append(r.SymbolList, uint16(s))
	}
	return nil
}

// TypeTCCDeltaScaleFactor is the granularity of receive deltas, 250us.
// https://tools.ietf.org/html/draft-holmer-rmcat-transport-wide-cc-extensions-01#section-3.1.5
const TypeTCCDeltaScaleFactor = 250

// RecvDelta is the receive time offset of one received packet,
// expressed in microseconds. Small deltas occupy one byte on the wire
// and cover [0, 63750]us; large deltas occupy two bytes and cover
// [-8192000, 8191750]us.
type RecvDelta struct {
	Type uint16
	// Delta in microseconds
	Delta int64
}

// Marshal encodes the RecvDelta in binary.
func (r RecvDelta) Marshal() ([]byte, error) {
	delta := r.Delta / TypeTCCDeltaScaleFactor

	if r.Type == TypeTCCPacketReceivedSmallDelta && delta >= 0 && delta <= math.MaxUint8 {
		return []byte{byte(delta)}, nil
	}

	if r.Type == TypeTCCPacketReceivedLargeDelta && delta >= math.MinInt16 && delta <= math.MaxInt16 {
		deltaChunk := make([]byte, 2)
		binary.BigEndian.PutUint16(deltaChunk, uint16(delta))
		return deltaChunk, nil
	}

	return nil, errDeltaExceedLimit
}

// Unmarshal decodes the RecvDelta from binary.
func (r *RecvDelta) Unmarshal(rawPacket []byte) error {
	switch len(rawPacket) {
	case 1:
		r.Type = TypeTCCPacketReceivedSmallDelta
		r.Delta = TypeTCCDeltaScaleFactor * int64(rawPacket[0])
		return nil
	case 2:
		r.Type = TypeTCCPacketReceivedLargeDelta
		r.Delta = TypeTCCDeltaScaleFactor * int64(int16(binary.BigEndian.Uint16(rawPacket)))
		return nil
	default:
		return errDeltaExceedLimit
	}
}

// FCI field offsets.
const (
	tccBaseSequenceOffset = 0
	tccStatusCountOffset  = 2
	tccReferenceOffset    = 4
	tccFbPktCountOffset   = 7
	tccChunkOffset        = 8
)

// TransportLayerCC reports the arrival time of every packet of a
// transport-wide sequence, for sender-side bandwidth estimation.
type TransportLayerCC struct {
	// SSRC of sender
	SenderSSRC uint32

	// SSRC of the media source
	MediaSSRC uint32

	// Transport-wide sequence number of the first packet the feedback
	// describes.
	BaseSequenceNumber uint16

	// Number of packets the status chunks cover.
	PacketStatusCount uint16

	// ReferenceTime in multiples of 64ms, 24 bits on the wire.
	ReferenceTime uint32

	// Feedback packet count, for detecting lost feedback.
	FbPktCount uint8

	// PacketChunks encode the per-packet reception status.
	PacketChunks []PacketStatusChunk

	// RecvDeltas carry one entry per received packet, in sequence order.
	RecvDeltas []RecvDelta
}

var _ Packet = (*TransportLayerCC)(nil)

func (t *TransportLayerCC) fciLen() int {
	n := tccChunkOffset + len(t.PacketChunks)*packetStatusChunkLength
	for _, d := range t.RecvDeltas {
		if d.Type == TypeTCCPacketReceivedSmallDelta {
			n++
		} else {
			n += 2
		}
	}
	return n
}

// Marshal encodes the TransportLayerCC in binary.
func (t TransportLayerCC) Marshal() ([]byte, error) {
	fci := make([]byte, t.fciLen())
	binary.BigEndian.PutUint16(fci[tccBaseSequenceOffset:], t.BaseSequenceNumber)
	binary.BigEndian.PutUint16(fci[tccStatusCountOffset:], t.PacketStatusCount)
	put24BitsToBytes(fci[tccReferenceOffset:], t.ReferenceTime)
	fci[tccFbPktCountOffset] = t.FbPktCount

	off := tccChunkOffset
	for _, chunk := range t.PacketChunks {
		b, err := chunk.Marshal()
		if err != nil {
			return nil, err
		}
		copy(fci[off:], b)
		off += packetStatusChunkLength
	}
	for _, delta := range t.RecvDeltas {
		b, err := delta.Marshal()
		if err != nil {
			return nil, err
		}
		copy(fci[off:], b)
		off += len(b)
	}

	return marshalFeedback(TypeTransportSpecificFeedback, FormatTCC, t.SenderSSRC, t.MediaSSRC, fci)
}

// Unmarshal decodes the TransportLayerCC from binary.
func (t *TransportLayerCC) Unmarshal(rawPacket []byte) error {
	_, senderSSRC, mediaSSRC, fci, err := unmarshalFeedback(rawPacket, TypeTransportSpecificFeedback, FormatTCC)
	if err != nil {
		return err
	}
	if len(fci) < tccChunkOffset {
		return errPacketTooShort
	}

	t.SenderSSRC = senderSSRC
	t.MediaSSRC = mediaSSRC
	t.BaseSequenceNumber = binary.BigEndian.Uint16(fci[tccBaseSequenceOffset:])
	t.PacketStatusCount = binary.BigEndian.Uint16(fci[tccStatusCountOffset:])
	t.ReferenceTime = get24BitsFromBytes(fci[tccReferenceOffset : tccReferenceOffset+3])
	t.FbPktCount = fci[tccFbPktCountOffset]

	pos := tccChunkOffset
	var processed uint16
	for processed < t.PacketStatusCount {
		if pos+packetStatusChunkLength > len(fci) {
			return errPacketTooShort
		}
		chunkData := fci[pos : pos+packetStatusChunkLength]

		typ, err := bitbuf.New(chunkData).ReadBits(1)
		if err != nil {
			return err
		}

		switch uint16(typ) {
		case TypeTCCRunLengthChunk:
			chunk := new(RunLengthChunk)
			if err := chunk.Unmarshal(chunkData); err != nil {
				return err
			}

			count := min(t.PacketStatusCount-processed, chunk.RunLength)
			if chunk.PacketStatusSymbol == TypeTCCPacketReceivedSmallDelta ||
				chunk.PacketStatusSymbol == TypeTCCPacketReceivedLargeDelta {
				for j := uint16(0); j < count; j++ {
					t.RecvDeltas = append(t.RecvDeltas, RecvDelta{Type: chunk.PacketStatusSymbol})
				}
			}
			processed += count
			t.PacketChunks = append(t.PacketChunks, chunk)

		case TypeTCCStatusVectorChunk:
			chunk := new(StatusVectorChunk)
			if err := chunk.Unmarshal(chunkData); err != nil {
				return err
			}

			for _, s := range chunk.SymbolList {
				if s == TypeTCCPacketReceivedSmallDelta || s == TypeTCCPacketReceivedLargeDelta {
					t.RecvDeltas = append(t.RecvDeltas, RecvDelta{Type: s})
				}
			}
			processed += uint16(len(chunk.SymbolList))
			t.PacketChunks = append(t.PacketChunks, chunk)
		}
		pos += packetStatusChunkLength
	}

	for i := range t.RecvDeltas {
		delta := &t.RecvDeltas[i]
		size := 1
		if delta.Type == TypeTCCPacketReceivedLargeDelta {
			size = 2
		}
		if pos+size > len(fci) {
			return errPacketTooShort
		}
		if err := delta.Unmarshal(fci[pos : pos+size]); err != nil {
			return err
		}
		pos += size
	}

	return nil
}

// Header returns the Header associated with this packet.
func (t *TransportLayerCC) Header() Header {
	return feedbackHeader(TypeTransportSpecificFeedback, FormatTCC, t.fciLen())
}

func (t TransportLayerCC) String() string {
	out := fmt.Sprintf("TransportLayerCC from %x to %x\n", t.SenderSSRC, t.MediaSSRC)
	out += fmt.Sprintf("\tBase Sequence Number %d\n", t.BaseSequenceNumber)
	out += fmt.Sprintf("\tStatus Count %d\n", t.PacketStatusCount)
	out += fmt.Sprintf("\tReference Time %d\n", t.ReferenceTime)
	out += fmt.Sprintf("\tFeedback Packet Count %d\n", t.FbPktCount)
	out += "\tPacketChunks "
	for _, chunk := range t.PacketChunks {
		out += fmt.Sprintf("%+v ", chunk)
	}
	out += "\n\tRecvDeltas "
	for _, delta := range t.RecvDeltas {
		out += fmt.Sprintf("%+v ", delta)
	}
	out += "\n"
	return out
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (t *TransportLayerCC) DestinationSSRC() []uint32 {
	return []uint32{t.MediaSSRC}
}
