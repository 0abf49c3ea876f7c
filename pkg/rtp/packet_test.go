package rtp

import (
	"reflect"
	"testing"
)

func TestPacketUnmarshal(t *testing.T) {
	rawPkt := []byte{
		0x90, 0xe0, 0x69, 0x8f,
		0xd9, 0xc2, 0x93, 0xda,
		0x1c, 0x64, 0x27, 0x82,
		0x00, 0x01, 0x00, 0x01,
		0xff, 0xff, 0xff, 0xff,
		0x98, 0x36, 0xbe, 0x88, 0x9e,
	}
	parsedPacket := Packet{
		Version:          2,
		Extension:        true,
		Marker:           true,
		PayloadType:      96,
		SequenceNumber:   27023,
		Timestamp:        3653407706,
		SSRC:             476325762,
		CSRC:             []uint32{},
		ExtensionProfile: 1,
		ExtensionPayload: []byte{0xff, 0xff, 0xff, 0xff},
		Payload:          rawPkt[20:],
	}

	var p Packet
	if err := p.Unmarshal(rawPkt); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p, parsedPacket) {
		t.Fatalf("TestPacketUnmarshal: got %#v, want %#v", p, parsedPacket)
	}
}

func TestPacketUnmarshalCSRC(t *testing.T) {
	rawPkt := []byte{
		// v=2, p=0, x=0, cc=2, m=0, pt=111
		0x82, 0x6f, 0x00, 0x2a,
		0x00, 0x00, 0x00, 0x05,
		0x11, 0x22, 0x33, 0x44,
		// two CSRC entries
		0xaa, 0xbb, 0xcc, 0xdd,
		0x00, 0x00, 0x00, 0x01,
		// payload
		0x42,
	}

	var p Packet
	if err := p.Unmarshal(rawPkt); err != nil {
		t.Fatal(err)
	}
	if got, want := p.CSRC, []uint32{0xaabbccdd, 1}; !reflect.DeepEqual(got, want) {
		t.Fatalf("CSRC: got %v, want %v", got, want)
	}
	if got, want := p.Payload, []byte{0x42}; !reflect.DeepEqual(got, want) {
		t.Fatalf("payload: got %v, want %v", got, want)
	}
}

func TestPacketUnmarshalErrors(t *testing.T) {
	for _, test := range []struct {
		Name string
		Data []byte
	}{
		{"nil", nil},
		{"short header", []byte{0x90, 0xe0, 0x69}},
		{
			"wrong version",
			[]byte{
				0x40, 0xe0, 0x69, 0x8f,
				0xd9, 0xc2, 0x93, 0xda,
				0x1c, 0x64, 0x27, 0x82,
			},
		},
		{
			"csrc past end",
			[]byte{
				// cc=2 but no CSRC entries follow
				0x82, 0xe0, 0x69, 0x8f,
				0xd9, 0xc2, 0x93, 0xda,
				0x1c, 0x64, 0x27, 0x82,
			},
		},
		{
			"extension header past end",
			[]byte{
				0x90, 0xe0, 0x69, 0x8f,
				0xd9, 0xc2, 0x93, 0xda,
				0x1c, 0x64, 0x27, 0x82,
				0x00, 0x01,
			},
		},
		{
			"extension payload past end",
			[]byte{
				0x90, 0xe0, 0x69, 0x8f,
				0xd9, 0xc2, 0x93, 0xda,
				0x1c, 0x64, 0x27, 0x82,
				// profile 1, claims 2 words, has 1
				0x00, 0x01, 0x00, 0x02,
				0xff, 0xff, 0xff, 0xff,
			},
		},
	} {
		var p Packet
		if err := p.Unmarshal(test.Data); err == nil {
			t.Fatalf("Unmarshal %q: expected error", test.Name)
		}
	}
}

func TestPacketRoundTrip(t *testing.T) {
	for _, test := range []struct {
		Name   string
		Packet Packet
	}{
		{
			Name: "plain",
			Packet: Packet{
				Version:        2,
				Marker:         true,
				PayloadType:    96,
				SequenceNumber: 27023,
				Timestamp:      3653407706,
				SSRC:           476325762,
				CSRC:           []uint32{},
				Payload:        []byte{0x01, 0x02, 0x03},
			},
		},
		{
			Name: "with csrc and extension",
			Packet: Packet{
				Version:          2,
				Padding:          true,
				Extension:        true,
				PayloadType:      111,
				SequenceNumber:   42,
				Timestamp:        5,
				SSRC:             0x11223344,
				CSRC:             []uint32{0xaabbccdd, 1},
				ExtensionProfile: 0xbede,
				ExtensionPayload: []byte{0x10, 0xaa, 0x00, 0x00},
				Payload:          []byte{0x42},
			},
		},
	} {
		data, err := test.Packet.Marshal()
		if err != nil {
			t.Fatalf("Marshal %q: %v", test.Name, err)
		}
		if got, want := len(data), test.Packet.MarshalSize(); got != want {
			t.Fatalf("%q: marshaled %d bytes, MarshalSize says %d", test.Name, got, want)
		}

		var decoded Packet
		if err := decoded.Unmarshal(data); err != nil {
			t.Fatalf("Unmarshal %q: %v", test.Name, err)
		}
		if !reflect.DeepEqual(decoded, test.Packet) {
			t.Fatalf("%q round trip: got %#v, want %#v", test.Name, decoded, test.Packet)
		}
	}
}

func TestPacketMarshalErrors(t *testing.T) {
	p := Packet{
		Version:          2,
		Extension:        true,
		ExtensionPayload: []byte{0x01, 0x02},
	}
	if _, err := p.Marshal(); err == nil {
		t.Fatal("expected error for unaligned extension payload")
	}

	p = Packet{
		Version: 2,
		CSRC:    make([]uint32, 16),
	}
	if _, err := p.Marshal(); err == nil {
		t.Fatal("expected error for too many CSRC entries")
	}
}
