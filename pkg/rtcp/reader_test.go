package rtcp

import (
	"bytes"
	"io"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/mediaplumb/rtpcodec/internal/log"
)

func TestReaderReadPacket(t *testing.T) {
	stream := []byte{
		// PLI
		0x81, 0xce, 0x00, 0x02,
		0x90, 0x2f, 0x9e, 0x2e,
		0x4b, 0xc4, 0xfc, 0xb4,
		// BYE
		0x81, 0xcb, 0x00, 0x01,
		0x90, 0x2f, 0x9e, 0x2e,
	}

	r := NewReaderWithLogger(bytes.NewReader(stream), &log.Nil{})

	header, data, err := r.ReadPacket()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := header.Type, TypePayloadSpecificFeedback; got != want {
		t.Fatalf("first packet type: %v, want %v", got, want)
	}
	if !bytes.Equal(data, stream[:12]) {
		t.Fatalf("first packet bytes: %v, want %v", data, stream[:12])
	}

	header, data, err = r.ReadPacket()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := header.Type, TypeGoodbye; got != want {
		t.Fatalf("second packet type: %v, want %v", got, want)
	}
	if !bytes.Equal(data, stream[12:]) {
		t.Fatalf("second packet bytes: %v, want %v", data, stream[12:])
	}

	if _, _, err := r.ReadPacket(); err != io.EOF {
		t.Fatalf("at end of stream: err = %v, want io.EOF", err)
	}
}

func TestReaderReadParsed(t *testing.T) {
	stream := []byte{
		// PLI
		0x81, 0xce, 0x00, 0x02,
		0x90, 0x2f, 0x9e, 0x2e,
		0x4b, 0xc4, 0xfc, 0xb4,
		// feedback with no registered codec: fmt=12, TSFB
		0x8c, 0xcd, 0x00, 0x02,
		0x90, 0x2f, 0x9e, 0x2e,
		0x90, 0x2f, 0x9e, 0x2e,
	}

	r := NewReaderWithLogger(bytes.NewReader(stream), log.NewZap(zaptest.NewLogger(t)))

	first, err := r.ReadParsed()
	if err != nil {
		t.Fatal(err)
	}
	pli, ok := first.(*PictureLossIndication)
	if !ok {
		t.Fatalf("first packet: got %T, want *PictureLossIndication", first)
	}
	if got, want := pli.MediaSSRC, uint32(0x4bc4fcb4); got != want {
		t.Fatalf("pli media ssrc: %x, want %x", got, want)
	}

	// unknown feedback formats degrade to RawPacket instead of failing
	second, err := r.ReadParsed()
	if err != nil {
		t.Fatal(err)
	}
	raw, ok := second.(*RawPacket)
	if !ok {
		t.Fatalf("second packet: got %T, want *RawPacket", second)
	}
	if !bytes.Equal([]byte(*raw), stream[12:]) {
		t.Fatalf("raw packet bytes: %v, want %v", []byte(*raw), stream[12:])
	}
}

func TestReaderTruncatedStream(t *testing.T) {
	// header promises 8 more bytes than the stream holds
	stream := []byte{0x81, 0xce, 0x00, 0x02, 0x90, 0x2f}

	r := NewReaderWithLogger(bytes.NewReader(stream), &log.Nil{})
	if _, _, err := r.ReadPacket(); err != io.ErrUnexpectedEOF {
		t.Fatalf("truncated stream: err = %v, want io.ErrUnexpectedEOF", err)
	}
}
