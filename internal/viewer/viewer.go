// Package viewer prints the ITM output of a raw SWO capture.
package viewer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"swogen/internal/common"
	"swogen/internal/itm"
)

// Config mirrors the swo_view command line.
type Config struct {
	InputFile    string // capture file, "-" for stdin
	Ports        []int  // stimulus ports to print, nil for port 0
	WaitSync     bool   // search for an async packet before decoding
	ListPackets  bool   // list every packet instead of the stimulus text
	ShowRaw      bool   // with ListPackets, add the packet bytes
	OutputWriter io.Writer
	Logger       common.Logger
}

// Stats counts what the capture contained.
type Stats struct {
	Packets   int
	Stimulus  int
	Overflows int
	Errors    int
}

// statSink counts packets on their way to the real sink.
type statSink struct {
	next  itm.PacketSink
	stats Stats
}

func (s *statSink) PacketIn(index int64, pkt *itm.Packet) error {
	s.stats.Packets++
	switch {
	case pkt.Type == itm.PktSWIT:
		s.stats.Stimulus++
	case pkt.Type == itm.PktOverflow:
		s.stats.Overflows++
	case pkt.IsBad(), pkt.Type == itm.PktIncompleteEOT:
		s.stats.Errors++
	}
	return s.next.PacketIn(index, pkt)
}

// Run decodes the capture named in cfg.
func Run(cfg Config) (Stats, error) {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = common.NewNoOpLogger()
	}

	var in io.Reader
	if cfg.InputFile == "" || cfg.InputFile == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(cfg.InputFile)
		if err != nil {
			return Stats{}, common.NewErrorMsg(common.SeverityError, common.ErrFileError, err.Error())
		}
		defer f.Close()
		in = f
	}

	return Decode(bufio.NewReader(in), w, cfg, logger)
}

// Decode runs the ITM packet processor over r and writes to w.
func Decode(r io.Reader, w io.Writer, cfg Config, logger common.Logger) (Stats, error) {
	itmCfg := itm.NewConfig()
	if cfg.Ports != nil {
		itmCfg.SetPorts(cfg.Ports)
	}

	var sink itm.PacketSink
	if cfg.ListPackets {
		pp := itm.NewPacketPrinter()
		pp.SetOutput(w)
		pp.SetShowRaw(cfg.ShowRaw)
		sink = pp
	} else {
		sw := itm.NewStimulusWriter(w, itmCfg)
		sw.SetTagPorts(len(itmCfg.EnabledPorts()) > 1)
		sink = sw
	}

	stats := &statSink{next: sink}
	proc := itm.NewProcessor(stats)
	proc.SetLogger(logger)
	proc.SetAssumeSync(!cfg.WaitSync)

	if _, err := io.Copy(proc, r); err != nil {
		return stats.stats, fmt.Errorf("decoding SWO capture: %w", err)
	}
	if err := proc.Close(); err != nil {
		return stats.stats, fmt.Errorf("decoding SWO capture: %w", err)
	}

	if stats.stats.Overflows > 0 {
		logger.Logf(common.SeverityWarning, "%d ITM overflow packets: trace data was lost, lower the SWO clock or the log rate",
			stats.stats.Overflows)
	}
	logger.Logf(common.SeverityInfo, "%d packets, %d stimulus, %d errors",
		stats.stats.Packets, stats.stats.Stimulus, stats.stats.Errors)
	return stats.stats, nil
}
