// Package rtp provides encoding and decoding of RTP packets and their
// header extensions.
package rtp

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// Packet represents an RTP Packet:
// https://tools.ietf.org/html/rfc3550#section-5.1
//
//  0                   1                   2                   3
//  0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |V=2|P|X|  CC   |M|     PT      |       sequence number         |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                           timestamp                           |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |           synchronization source (SSRC) identifier            |
// +=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+=+
// |            contributing source (CSRC) identifiers             |
// |                             ....                              |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |      defined by profile       |           length              |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                        header extension                       |
// |                             ....                              |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
type Packet struct {
	Version          uint8
	Padding          bool
	Extension        bool
	Marker           bool
	PayloadType      uint8
	SequenceNumber   uint16
	Timestamp        uint32
	SSRC             uint32
	CSRC             []uint32
	ExtensionProfile uint16
	ExtensionPayload []byte

	Payload []byte
}

const (
	rtpVersion = 2

	headerLength    = 12
	versionShift    = 6
	versionMask     = 0x3
	paddingShift    = 5
	paddingMask     = 0x1
	extensionShift  = 4
	extensionMask   = 0x1
	ccMask          = 0xF
	markerShift     = 7
	markerMask      = 0x1
	ptMask          = 0x7F
	seqNumOffset    = 2
	timestampOffset = 4
	ssrcOffset      = 8
	csrcOffset      = 12
	csrcLength      = 4
)

// String helps with debugging by printing packet information in a readable way.
func (p Packet) String() string {
	out := "RTP PACKET:\n"

	out += fmt.Sprintf("\tVersion: %v\n", p.Version)
	out += fmt.Sprintf("\tMarker: %v\n", p.Marker)
	out += fmt.Sprintf("\tPayload Type: %d\n", p.PayloadType)
	out += fmt.Sprintf("\tSequence Number: %d\n", p.SequenceNumber)
	out += fmt.Sprintf("\tTimestamp: %d\n", p.Timestamp)
	out += fmt.Sprintf("\tSSRC: %d (%x)\n", p.SSRC, p.SSRC)
	out += fmt.Sprintf("\tPayload Length: %d\n", len(p.Payload))

	return out
}

// Unmarshal parses the passed byte slice and stores the result in the
// Packet this method is called upon. The payload aliases rawPacket, no
// copy is made.
func (p *Packet) Unmarshal(rawPacket []byte) error {
	if len(rawPacket) < headerLength {
		return errors.Errorf("RTP header size insufficient; %d < %d", len(rawPacket), headerLength)
	}

	p.Version = rawPacket[0] >> versionShift & versionMask
	if p.Version != rtpVersion {
		return errors.Errorf("invalid RTP version %d", p.Version)
	}
	p.Padding = (rawPacket[0] >> paddingShift & paddingMask) > 0
	p.Extension = (rawPacket[0] >> extensionShift & extensionMask) > 0
	p.CSRC = make([]uint32, rawPacket[0]&ccMask)

	p.Marker = (rawPacket[1] >> markerShift & markerMask) > 0
	p.PayloadType = rawPacket[1] & ptMask

	p.SequenceNumber = binary.BigEndian.Uint16(rawPacket[seqNumOffset : seqNumOffset+2])
	p.Timestamp = binary.BigEndian.Uint32(rawPacket[timestampOffset : timestampOffset+4])
	p.SSRC = binary.BigEndian.Uint32(rawPacket[ssrcOffset : ssrcOffset+4])

	currOffset := csrcOffset + len(p.CSRC)*csrcLength
	if len(rawPacket) < currOffset {
		return errors.Errorf("RTP header size insufficient; %d < %d", len(rawPacket), currOffset)
	}
	for i := range p.CSRC {
		offset := csrcOffset + i*csrcLength
		p.CSRC[i] = binary.BigEndian.Uint32(rawPacket[offset:])
	}

	if p.Extension {
		if len(rawPacket) < currOffset+4 {
			return errors.Errorf("RTP header size insufficient for extension; %d < %d", len(rawPacket), currOffset+4)
		}

		p.ExtensionProfile = binary.BigEndian.Uint16(rawPacket[currOffset:])
		currOffset += 2
		extensionLength := int(binary.BigEndian.Uint16(rawPacket[currOffset:])) * 4
		currOffset += 2

		if len(rawPacket) < currOffset+extensionLength {
			return errors.Errorf("RTP header size insufficient for extension length; %d < %d", len(rawPacket), currOffset+extensionLength)
		}

		p.ExtensionPayload = rawPacket[currOffset : currOffset+extensionLength]
		currOffset += len(p.ExtensionPayload)
	} else {
		p.ExtensionProfile = 0
		p.ExtensionPayload = nil
	}

	p.Payload = rawPacket[currOffset:]
	return nil
}

// Marshal serializes the packet into bytes.
func (p Packet) Marshal() ([]byte, error) {
	buf := make([]byte, p.MarshalSize())

	n, err := p.MarshalTo(buf)
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

// MarshalTo serializes the packet and writes to the buffer. It returns
// the number of bytes written.
func (p Packet) MarshalTo(buf []byte) (int, error) {
	size := p.MarshalSize()
	if size > len(buf) {
		return 0, errors.Errorf("short buffer; %d < %d", len(buf), size)
	}
	if len(p.CSRC) > ccMask {
		return 0, errors.Errorf("too many CSRC entries; %d > %d", len(p.CSRC), ccMask)
	}
	if p.Extension && len(p.ExtensionPayload)%4 != 0 {
		return 0, errors.Errorf("extension payload must be a multiple of 4 octets; got %d", len(p.ExtensionPayload))
	}

	buf[0] = rtpVersion << versionShift
	if p.Padding {
		buf[0] |= 1 << paddingShift
	}
	if p.Extension {
		buf[0] |= 1 << extensionShift
	}
	buf[0] |= uint8(len(p.CSRC))

	buf[1] = p.PayloadType & ptMask
	if p.Marker {
		buf[1] |= 1 << markerShift
	}

	binary.BigEndian.PutUint16(buf[seqNumOffset:], p.SequenceNumber)
	binary.BigEndian.PutUint32(buf[timestampOffset:], p.Timestamp)
	binary.BigEndian.PutUint32(buf[ssrcOffset:], p.SSRC)

	offset := csrcOffset
	for _, csrc := range p.CSRC {
		binary.BigEndian.PutUint32(buf[offset:], csrc)
		offset += csrcLength
	}

	if p.Extension {
		binary.BigEndian.PutUint16(buf[offset:], p.ExtensionProfile)
		offset += 2
		binary.BigEndian.PutUint16(buf[offset:], uint16(len(p.ExtensionPayload)/4))
		offset += 2
		copy(buf[offset:], p.ExtensionPayload)
		offset += len(p.ExtensionPayload)
	}

	copy(buf[offset:], p.Payload)
	return offset + len(p.Payload), nil
}

// MarshalSize returns the size of the packet once marshaled.
func (p Packet) MarshalSize() int {
	size := headerLength + len(p.CSRC)*csrcLength
	if p.Extension {
		size += 4 + len(p.ExtensionPayload)
	}
	return size + len(p.Payload)
}
