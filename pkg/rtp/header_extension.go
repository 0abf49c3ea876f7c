package rtp

import (
	"github.com/pkg/errors"
)

// One-byte header extensions as defined by RFC 8285 section 4.2:
//
//  0                   1                   2                   3
//  0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |       0xBE    |    0xDE       |           length=3            |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |  ID   | L=0   |     data      |  ID   |  L=1  |   data...
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//       ...data   |    0 (pad)    |    0 (pad)    |  ID   | L=3   |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                          data                                 |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+

// ExtensionProfileOneByte marks the extension payload as a sequence of
// one-byte header extensions.
const ExtensionProfileOneByte = 0xBEDE

const (
	extensionIDPadding  = 0
	extensionIDReserved = 15
	extensionMaxPayload = 16
	extensionMinID      = 1
	extensionMaxID      = 14
	extensionIDShift    = 4
	extensionLengthMask = 0x0F
)

// Extension is a single parsed header extension element.
type Extension struct {
	ID      uint8
	Payload []byte
}

// ParseOneByteExtensions parses an extension payload carried under the
// 0xBEDE profile. Padding bytes (ID 0) are skipped; the reserved ID 15
// terminates parsing and the remainder of the payload is ignored.
// Returned payloads alias the input.
func ParseOneByteExtensions(payload []byte) ([]Extension, error) {
	var extensions []Extension
	for offset := 0; offset < len(payload); {
		id := payload[offset] >> extensionIDShift
		if id == extensionIDPadding {
			offset++
			continue
		}
		if id == extensionIDReserved {
			break
		}

		length := int(payload[offset]&extensionLengthMask) + 1
		offset++
		if offset+length > len(payload) {
			return nil, errors.Errorf("header extension %d overruns payload; need %d bytes, have %d", id, length, len(payload)-offset)
		}

		extensions = append(extensions, Extension{
			ID:      id,
			Payload: payload[offset : offset+length],
		})
		offset += length
	}
	return extensions, nil
}

// MarshalOneByteExtensions serializes extensions under the 0xBEDE
// profile and pads the result with zero bytes to a 4-octet boundary.
func MarshalOneByteExtensions(extensions []Extension) ([]byte, error) {
	size := 0
	for _, ext := range extensions {
		if ext.ID < extensionMinID || ext.ID > extensionMaxID {
			return nil, errors.Errorf("header extension id %d outside valid range [%d, %d]", ext.ID, extensionMinID, extensionMaxID)
		}
		if len(ext.Payload) < 1 || len(ext.Payload) > extensionMaxPayload {
			return nil, errors.Errorf("header extension %d payload of %d bytes outside valid range [1, %d]", ext.ID, len(ext.Payload), extensionMaxPayload)
		}
		size += 1 + len(ext.Payload)
	}
	size += getPadding(size)

	payload := make([]byte, 0, size)
	for _, ext := range extensions {
		payload = append(payload, ext.ID<<extensionIDShift|uint8(len(ext.Payload)-1))
		payload = append(payload, ext.Payload...)
	}
	for len(payload) < size {
		payload = append(payload, 0)
	}
	return payload, nil
}

// OneByteExtensions parses the packet's extension payload as one-byte
// header extensions. It fails unless the extension profile is 0xBEDE.
func (p *Packet) OneByteExtensions() ([]Extension, error) {
	if !p.Extension {
		return nil, nil
	}
	if p.ExtensionProfile != ExtensionProfileOneByte {
		return nil, errors.Errorf("extension profile %#x is not one-byte (%#x)", p.ExtensionProfile, ExtensionProfileOneByte)
	}
	return ParseOneByteExtensions(p.ExtensionPayload)
}

// SetOneByteExtensions replaces the packet's extension payload with the
// given one-byte header extensions and sets the 0xBEDE profile. Passing
// no extensions clears the extension header entirely.
func (p *Packet) SetOneByteExtensions(extensions []Extension) error {
	if len(extensions) == 0 {
		p.Extension = false
		p.ExtensionProfile = 0
		p.ExtensionPayload = nil
		return nil
	}

	payload, err := MarshalOneByteExtensions(extensions)
	if err != nil {
		return err
	}
	p.Extension = true
	p.ExtensionProfile = ExtensionProfileOneByte
	p.ExtensionPayload = payload
	return nil
}

// getPadding returns the number of zero bytes needed to reach a 4-octet
// boundary.
func getPadding(length int) int {
	if length%4 == 0 {
		return 0
	}
	return 4 - (length % 4)
}
