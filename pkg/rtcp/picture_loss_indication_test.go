package rtcp

import (
	"bytes"
	"reflect"
	"testing"
)

func TestPictureLossIndicationUnmarshal(t *testing.T) {
	for _, test := range []struct {
		Name      string
		Data      []byte
		Want      PictureLossIndication
		WantError error
	}{
		{
			Name: "valid",
			Data: []byte{
				// v=2, p=0, fmt=1, PSFB, len=2
				0x81, 0xce, 0x00, 0x02,
				// sender=0x0
				0x00, 0x00, 0x00, 0x00,
				// media=0x4bc4fcb4
				0x4b, 0xc4, 0xfc, 0xb4,
			},
			Want: PictureLossIndication{
				SenderSSRC: 0x0,
				MediaSSRC:  0x4bc4fcb4,
			},
		},
		{
			Name: "wrong type",
			Data: []byte{
				// v=2, p=0, fmt=1, TSFB, len=2
				0x81, 0xcd, 0x00, 0x02,
				0x00, 0x00, 0x00, 0x00,
				0x4b, 0xc4, 0xfc, 0xb4,
			},
			WantError: errWrongType,
		},
		{
			Name:      "too short",
			Data:      []byte{0x81, 0xce, 0x00, 0x02, 0x00, 0x00, 0x00, 0x00},
			WantError: errPacketTooShort,
		},
	} {
		var pli PictureLossIndication
		err := pli.Unmarshal(test.Data)
		if got, want := err, test.WantError; got != want {
			t.Fatalf("Unmarshal %q pli: err = %v, want %v", test.Name, got, want)
		}
		if err != nil {
			continue
		}

		if got, want := pli, test.Want; !reflect.DeepEqual(got, want) {
			t.Fatalf("Unmarshal %q pli: got %v, want %v", test.Name, got, want)
		}
	}
}

func TestPictureLossIndicationRoundTrip(t *testing.T) {
	pli := PictureLossIndication{SenderSSRC: 0x902f9e2e, MediaSSRC: 0x4bc4fcb4}

	data, err := pli.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	// PLI has no FCI: length must always be 2
	want := []byte{
		0x81, 0xce, 0x00, 0x02,
		0x90, 0x2f, 0x9e, 0x2e,
		0x4b, 0xc4, 0xfc, 0xb4,
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("Marshal: got %v, want %v", data, want)
	}

	var decoded PictureLossIndication
	if err := decoded.Unmarshal(data); err != nil {
		t.Fatal(err)
	}
	if got := decoded; !reflect.DeepEqual(got, pli) {
		t.Fatalf("pli round trip: got %v, want %v", got, pli)
	}
}
