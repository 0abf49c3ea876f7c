package rtcp

import (
	"reflect"
	"testing"

	"github.com/mediaplumb/rtpcodec/pkg/ntp"
)

func TestSenderReportUnmarshal(t *testing.T) {
	for _, test := range []struct {
		Name      string
		Data      []byte
		Want      SenderReport
		WantError error
	}{
		{
			Name: "no reports",
			Data: []byte{
				// v=2, p=0, count=0, SR, len=6
				0x80, 0xc8, 0x00, 0x06,
				// ssrc=0x902f9e2e
				0x90, 0x2f, 0x9e, 0x2e,
				// ntp=0xda8bd1fcdddda05a
				0xda, 0x8b, 0xd1, 0xfc,
				0xdd, 0xdd, 0xa0, 0x5a,
				// rtp=0xaaf4edd5
				0xaa, 0xf4, 0xed, 0xd5,
				// packetCount=1
				0x00, 0x00, 0x00, 0x01,
				// octetCount=2
				0x00, 0x00, 0x00, 0x02,
			},
			Want: SenderReport{
				SSRC:        0x902f9e2e,
				NTPTime:     ntp.Time64(0xda8bd1fcdddda05a),
				RTPTime:     0xaaf4edd5,
				PacketCount: 1,
				OctetCount:  2,
			},
		},
		{
			Name: "wrong type",
			Data: []byte{
				// v=2, p=0, count=0, RR, len=6
				0x80, 0xc9, 0x00, 0x06,
				0x90, 0x2f, 0x9e, 0x2e,
				0xda, 0x8b, 0xd1, 0xfc,
				0xdd, 0xdd, 0xa0, 0x5a,
				0xaa, 0xf4, 0xed, 0xd5,
				0x00, 0x00, 0x00, 0x01,
				0x00, 0x00, 0x00, 0x02,
			},
			WantError: errWrongType,
		},
		{
			Name:      "too short",
			Data:      []byte{0x80, 0xc8, 0x00, 0x06},
			WantError: errPacketTooShort,
		},
	} {
		var sr SenderReport
		err := sr.Unmarshal(test.Data)
		if got, want := err, test.WantError; got != want {
			t.Fatalf("Unmarshal %q sr: err = %v, want %v", test.Name, got, want)
		}
		if err != nil {
			continue
		}

		if got, want := sr, test.Want; !reflect.DeepEqual(got, want) {
			t.Fatalf("Unmarshal %q sr: got %v, want %v", test.Name, got, want)
		}
	}
}

func TestSenderReportRoundTrip(t *testing.T) {
	for _, test := range []struct {
		Name      string
		Report    SenderReport
		WantError error
	}{
		{
			Name: "with reports",
			Report: SenderReport{
				SSRC:        0x902f9e2e,
				NTPTime:     ntp.Time64(0xda8bd1fcdddda05a),
				RTPTime:     0xaaf4edd5,
				PacketCount: 92,
				OctetCount:  46298,
				Reports: []ReceptionReport{{
					SSRC:               0xbc5e9a40,
					FractionLost:       81,
					TotalLost:          1545,
					LastSequenceNumber: 103072,
					Jitter:             10644,
					LastSenderReport:   0x9f36432,
					Delay:              150137,
				}},
			},
		},
		{
			Name: "too many reports",
			Report: SenderReport{
				Reports: make([]ReceptionReport, countMax+1),
			},
			WantError: errTooManyReports,
		},
	} {
		data, err := test.Report.Marshal()
		if got, want := err, test.WantError; got != want {
			t.Fatalf("Marshal %q: err = %v, want %v", test.Name, got, want)
		}
		if err != nil {
			continue
		}

		var decoded SenderReport
		if err := decoded.Unmarshal(data); err != nil {
			t.Fatalf("Unmarshal %q: %v", test.Name, err)
		}
		if got, want := decoded, test.Report; !reflect.DeepEqual(got, want) {
			t.Fatalf("%q sr round trip: got %v, want %v", test.Name, got, want)
		}
	}
}
