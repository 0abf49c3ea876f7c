package rtcp

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func TestUnmarshalCompound(t *testing.T) {
	data := []byte{
		// ReceiverReport
		0x81, 0xc9, 0x00, 0x07,
		0x90, 0x2f, 0x9e, 0x2e,
		0xbc, 0x5e, 0x9a, 0x40,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x46, 0xe1,
		0x00, 0x00, 0x01, 0x11,
		0x09, 0xf3, 0x64, 0x32,
		0x00, 0x02, 0x4a, 0x79,
		// PictureLossIndication
		0x81, 0xce, 0x00, 0x02,
		0x90, 0x2f, 0x9e, 0x2e,
		0x90, 0x2f, 0x9e, 0x2e,
	}

	packets, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	want := []Packet{
		&ReceiverReport{
			SSRC: 0x902f9e2e,
			Reports: []ReceptionReport{{
				SSRC:               0xbc5e9a40,
				LastSequenceNumber: 0x46e1,
				Jitter:             273,
				LastSenderReport:   0x9f36432,
				Delay:              150137,
			}},
		},
		&PictureLossIndication{
			SenderSSRC: 0x902f9e2e,
			MediaSSRC:  0x902f9e2e,
		},
	}
	if !reflect.DeepEqual(packets, want) {
		t.Fatalf("Unmarshal compound: got %v, want %v", packets, want)
	}
}

func TestUnmarshalUnknownType(t *testing.T) {
	data := []byte{
		// v=2, p=0, count=1, XR (207), len=2
		0x81, 0xcf, 0x00, 0x02,
		0x90, 0x2f, 0x9e, 0x2e,
		0x00, 0x00, 0x00, 0x00,
	}

	packets, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(packets) != 1 {
		t.Fatalf("got %d packets, want 1", len(packets))
	}

	raw, ok := packets[0].(*RawPacket)
	if !ok {
		t.Fatalf("got %T, want *RawPacket", packets[0])
	}
	if !bytes.Equal([]byte(*raw), data) {
		t.Fatalf("raw packet body: %v, want %v", []byte(*raw), data)
	}
}

func TestUnmarshalUnsupportedFeedback(t *testing.T) {
	data := []byte{
		// v=2, p=0, fmt=12, TSFB, len=2: no codec registered
		0x8c, 0xcd, 0x00, 0x02,
		0x90, 0x2f, 0x9e, 0x2e,
		0x90, 0x2f, 0x9e, 0x2e,
	}

	_, err := Unmarshal(data)

	var unsupported UnsupportedFeedbackTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedFeedbackTypeError", err)
	}
	if unsupported.PacketType != TypeTransportSpecificFeedback || unsupported.Format != 12 {
		t.Fatalf("error carries (%s, %d), want (TSFB, 12)", unsupported.PacketType, unsupported.Format)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	if _, err := Unmarshal(nil); err != errInvalidHeader {
		t.Fatalf("empty: err = %v, want %v", err, errInvalidHeader)
	}

	// header length runs past the buffer
	data := []byte{0x81, 0xc9, 0x00, 0x07, 0x90, 0x2f, 0x9e, 0x2e}
	if _, err := Unmarshal(data); err != errPacketTooShort {
		t.Fatalf("truncated: err = %v, want %v", err, errPacketTooShort)
	}
}

func TestMarshalCompound(t *testing.T) {
	packets := []Packet{
		&ReceiverReport{SSRC: 0x902f9e2e},
		&PictureLossIndication{SenderSSRC: 0x902f9e2e, MediaSSRC: 0x4bc4fcb4},
	}

	data, err := Marshal(packets)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, packets) {
		t.Fatalf("compound round trip: got %v, want %v", decoded, packets)
	}
}
