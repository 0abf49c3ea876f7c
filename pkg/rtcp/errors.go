package rtcp

import (
	"errors"
	"fmt"
)

var (
	errPacketTooShort     = errors.New("rtcp: packet too short")
	errBadVersion         = errors.New("rtcp: invalid packet version")
	errInvalidHeader      = errors.New("rtcp: invalid header")
	errWrongType          = errors.New("rtcp: wrong packet type")
	errInvalidTotalLost   = errors.New("rtcp: invalid total lost count")
	errTooManyReports     = errors.New("rtcp: too many reports")
	errSequenceOutOfOrder = errors.New("rtcp: sequence numbers not strictly ascending")
	errBadStatusChunkLen  = errors.New("rtcp: packet status chunk must be 2 bytes")
	errInvalidRunLength   = errors.New("rtcp: run length does not fit in 13 bits")
	errInvalidChunkSymbol = errors.New("rtcp: invalid packet status symbol")
	errInvalidSymbolSize  = errors.New("rtcp: invalid status vector symbol size")
	errDeltaExceedLimit   = errors.New("rtcp: receive delta exceeds limit")
)

// An UnsupportedFeedbackTypeError is returned when a feedback packet
// carries a (packet type, format) pair this package has no codec for.
// The packet is structurally valid RTCP; callers that want to forward it
// unparsed can fall back to RawPacket.
type UnsupportedFeedbackTypeError struct {
	PacketType PacketType
	Format     uint8
}

func (e UnsupportedFeedbackTypeError) Error() string {
	return fmt.Sprintf("rtcp: unsupported feedback type %s format %d", e.PacketType, e.Format)
}
