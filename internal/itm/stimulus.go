package itm

import (
	"fmt"
	"io"
)

// StimulusWriter is a PacketSink that writes the payload of software
// stimulus packets on the enabled ports to an io.Writer. Firmware printf
// style logging over SWO sends one character per 8 bit packet on port 0.
type StimulusWriter struct {
	out      io.Writer
	cfg      *Config
	tagPorts bool

	lastPort    int
	atLineStart bool
}

// NewStimulusWriter creates a sink writing ports enabled in cfg to w.
// A nil cfg selects the default port 0 setup.
func NewStimulusWriter(w io.Writer, cfg *Config) *StimulusWriter {
	if cfg == nil {
		cfg = NewConfig()
	}
	return &StimulusWriter{
		out:         w,
		cfg:         cfg,
		lastPort:    -1,
		atLineStart: true,
	}
}

// SetTagPorts prefixes every output line with the stimulus port it came from.
func (s *StimulusWriter) SetTagPorts(on bool) {
	s.tagPorts = on
}

func (s *StimulusWriter) PacketIn(index int64, pkt *Packet) error {
	if pkt.Type != PktSWIT {
		return nil
	}
	port := int(pkt.SrcID)
	if !s.cfg.PortEnabled(port) {
		return nil
	}

	data := pkt.Payload()
	if !s.tagPorts {
		_, err := s.out.Write(data)
		return err
	}

	for _, b := range data {
		if port != s.lastPort && !s.atLineStart {
			if _, err := io.WriteString(s.out, "\n"); err != nil {
				return err
			}
			s.atLineStart = true
		}
		if s.atLineStart {
			if _, err := fmt.Fprintf(s.out, "[%d] ", port); err != nil {
				return err
			}
		}
		if _, err := s.out.Write([]byte{b}); err != nil {
			return err
		}
		s.lastPort = port
		s.atLineStart = b == '\n'
	}
	return nil
}
