package itm

import (
	"fmt"
	"io"
	"os"
)

// PacketPrinter is a PacketSink listing every packet, one per line.
type PacketPrinter struct {
	out     io.Writer
	showRaw bool
}

func NewPacketPrinter() *PacketPrinter {
	return &PacketPrinter{
		out: os.Stdout,
	}
}

// SetOutput allows redirecting the printer output
func (pp *PacketPrinter) SetOutput(w io.Writer) {
	if w != nil {
		pp.out = w
	}
}

// SetShowRaw adds the packet bytes to each line.
func (pp *PacketPrinter) SetShowRaw(on bool) {
	pp.showRaw = on
}

func (pp *PacketPrinter) PacketIn(index int64, pkt *Packet) error {
	if pp.showRaw {
		_, err := fmt.Fprintf(pp.out, "Idx:%d; [% x]; %s\n", index, pkt.Raw, pkt.String())
		return err
	}
	_, err := fmt.Fprintf(pp.out, "Idx:%d; %s\n", index, pkt.String())
	return err
}
