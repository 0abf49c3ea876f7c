package rtcp

import (
	"io"

	"github.com/pion/logging"
)

// Reader reads RTCP packets from an underlying stream, one framed
// packet at a time.
type Reader struct {
	r   io.Reader
	log logging.LeveledLogger
}

// NewReader creates a new Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return NewReaderWithLogger(r, logging.NewDefaultLoggerFactory().NewLogger("rtcp"))
}

// NewReaderWithLogger creates a new Reader reading from r, logging
// through log.
func NewReaderWithLogger(r io.Reader, log logging.LeveledLogger) *Reader {
	return &Reader{r: r, log: log}
}

// ReadPacket reads one packet from the stream. It returns the parsed
// header and the raw bytes of the whole packet, header included.
func (r *Reader) ReadPacket() (Header, []byte, error) {
	headerData := make([]byte, headerLength)
	if _, err := io.ReadFull(r.r, headerData); err != nil {
		return Header{}, nil, err
	}

	var header Header
	if err := header.Unmarshal(headerData); err != nil {
		return Header{}, nil, err
	}

	bodyLen := int(header.Length) * 4
	data := make([]byte, headerLength+bodyLen)
	copy(data, headerData)
	if _, err := io.ReadFull(r.r, data[headerLength:]); err != nil {
		return Header{}, nil, err
	}

	return header, data, nil
}

// ReadParsed reads one packet from the stream and decodes it.
// Feedback packets with an unrecognized (type, format) pair are
// returned as a RawPacket rather than failing the stream.
func (r *Reader) ReadParsed() (Packet, error) {
	header, data, err := r.ReadPacket()
	if err != nil {
		return nil, err
	}

	packet, err := newPacketForHeader(header)
	if err != nil {
		r.log.Debugf("unparsed rtcp packet: %v", err)
		packet = new(RawPacket)
	}

	if err := packet.Unmarshal(data); err != nil {
		return nil, err
	}
	return packet, nil
}

// Writer writes RTCP packets to an underlying stream.
type Writer struct {
	w io.Writer
}

// NewWriter creates a new Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WritePacket marshals p and writes it to the stream.
func (w *Writer) WritePacket(p Packet) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	_, err = w.w.Write(data)
	return err
}
