package rtcp

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/mediaplumb/rtpcodec/pkg/ntp"
)

// A SenderReport (SR) packet provides transmission and reception
// statistics for an RTP stream from the perspective of an active sender.
type SenderReport struct {
	// The synchronization source identifier for the originator of this SR packet.
	SSRC uint32
	// The wallclock time when this report was sent so that it may be
	// used in combination with timestamps returned in reception reports
	// from other receivers to measure round-trip propagation to those
	// receivers.
	NTPTime ntp.Time64
	// Corresponds to the same time as the NTP timestamp (above), but in
	// the same units and with the same random offset as the RTP
	// timestamps in data packets.
	RTPTime uint32
	// The total number of RTP data packets transmitted by the sender
	// since starting transmission up until the time this SR packet was
	// generated.
	PacketCount uint32
	// The total number of payload octets (i.e., not including header or
	// padding) transmitted in RTP data packets by the sender since
	// starting transmission up until the time this SR packet was
	// generated.
	OctetCount uint32
	// Zero or more reception report blocks depending on the number of
	// other sources heard by this sender since the last report.
	Reports []ReceptionReport
}

var _ Packet = (*SenderReport)(nil)

const (
	srSenderInfoLength = 20
	srSSRCOffset       = 0
	srNTPOffset        = srSSRCOffset + ssrcLength
	srRTPOffset        = srNTPOffset + 8
	srPacketCountOff   = srRTPOffset + 4
	srOctetCountOff    = srPacketCountOff + 4
	srReportOffset     = srOctetCountOff + 4
)

// Marshal encodes the SenderReport in binary.
func (r SenderReport) Marshal() ([]byte, error) {
	/*
	 *         0                   1                   2                   3
	 *         0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
	 *        +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	 * header |V=2|P|    RC   |   PT=SR=200   |             length            |
	 *        +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	 *        |                         SSRC of sender                        |
	 *        +=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+
	 * sender |              NTP timestamp, most significant word             |
	 * info   +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	 *        |             NTP timestamp, least significant word             |
	 *        +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	 *        |                         RTP timestamp                         |
	 *        +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	 *        |                     sender's packet count                     |
	 *        +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
	 *        |                      sender's octet count                     |
	 *        +=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+
	 * report |                           blocks...                           |
	 *        +=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+
	 */

	if len(r.Reports) > countMax {
		return nil, errTooManyReports
	}

	rawPacket := make([]byte, srSenderInfoLength+ssrcLength)

	binary.BigEndian.PutUint32(rawPacket[srSSRCOffset:], r.SSRC)
	binary.BigEndian.PutUint64(rawPacket[srNTPOffset:], uint64(r.NTPTime))
	binary.BigEndian.PutUint32(rawPacket[srRTPOffset:], r.RTPTime)
	binary.BigEndian.PutUint32(rawPacket[srPacketCountOff:], r.PacketCount)
	binary.BigEndian.PutUint32(rawPacket[srOctetCountOff:], r.OctetCount)

	for _, rp := range r.Reports {
		data, err := rp.Marshal()
		if err != nil {
			return nil, err
		}
		rawPacket = append(rawPacket, data...)
	}

	h := r.Header()
	hData, err := h.Marshal()
	if err != nil {
		return nil, err
	}

	return append(hData, rawPacket...), nil
}

// Unmarshal decodes the SenderReport from binary.
func (r *SenderReport) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < (headerLength + ssrcLength + srSenderInfoLength) {
		return errPacketTooShort
	}

	var h Header
	if err := h.Unmarshal(rawPacket); err != nil {
		return err
	}

	if h.Type != TypeSenderReport {
		return errWrongType
	}

	packetBody := rawPacket[headerLength:]

	r.SSRC = binary.BigEndian.Uint32(packetBody[srSSRCOffset:])
	r.NTPTime = ntp.Time64(binary.BigEndian.Uint64(packetBody[srNTPOffset:]))
	r.RTPTime = binary.BigEndian.Uint32(packetBody[srRTPOffset:])
	r.PacketCount = binary.BigEndian.Uint32(packetBody[srPacketCountOff:])
	r.OctetCount = binary.BigEndian.Uint32(packetBody[srOctetCountOff:])

	for i := srReportOffset; i+receptionReportLength <= len(packetBody); i += receptionReportLength {
		var rr ReceptionReport
		if err := rr.Unmarshal(packetBody[i:]); err != nil {
			return err
		}
		r.Reports = append(r.Reports, rr)
	}

	if uint8(len(r.Reports)) != h.Count {
		return errInvalidHeader
	}

	return nil
}

// Time returns the wallclock time the report was sent.
func (r SenderReport) Time() time.Time {
	return r.NTPTime.Time()
}

func (r *SenderReport) len() int {
	return headerLength + ssrcLength + srSenderInfoLength + len(r.Reports)*receptionReportLength
}

// Header returns the Header associated with this packet.
func (r *SenderReport) Header() Header {
	return Header{
		Version: rtpVersion,
		Count:   uint8(len(r.Reports)),
		Type:    TypeSenderReport,
		Length:  uint16((r.len() / 4) - 1),
	}
}

func (r SenderReport) String() string {
	return fmt.Sprintf("SenderReport from %x at %v: %d packets, %d octets, %d reports",
		r.SSRC, r.Time(), r.PacketCount, r.OctetCount, len(r.Reports))
}

// DestinationSSRC returns an array of SSRC values that this packet refers to.
func (r *SenderReport) DestinationSSRC() []uint32 {
	out := make([]uint32, len(r.Reports))
	for i, v := range r.Reports {
		out[i] = v.SSRC
	}
	return out
}
