package itm

import (
	"fmt"
	"strings"
)

// PktType represents the ITM packet type.
type PktType int

const (
	PktNotSync       PktType = iota // bytes seen before synchronisation
	PktIncompleteEOT                // packet cut short by the end of the capture
	PktNoErrType

	PktAsync
	PktOverflow
	PktSWIT // software stimulus, written by firmware to a stimulus port
	PktDWT  // hardware stimulus from the DWT
	PktTSLocal
	PktTSGlobal1
	PktTSGlobal2
	PktExtension

	PktBadSequence
	PktReserved
)

func (t PktType) String() string {
	name, _ := t.nameAndDesc()
	return name
}

func (t PktType) nameAndDesc() (string, string) {
	switch t {
	case PktNotSync:
		return "NOTSYNC", "ITM not synchronised"
	case PktIncompleteEOT:
		return "INCOMPLETE_EOT", "Incomplete packet at end of trace"
	case PktAsync:
		return "ASYNC", "Alignment synchronisation packet"
	case PktOverflow:
		return "OVERFLOW", "Overflow packet"
	case PktSWIT:
		return "SWIT", "Software stimulus packet"
	case PktDWT:
		return "DWT", "Hardware stimulus packet"
	case PktTSLocal:
		return "TS_L", "Local timestamp packet"
	case PktTSGlobal1:
		return "TS_G1", "Global timestamp packet 1"
	case PktTSGlobal2:
		return "TS_G2", "Global timestamp packet 2"
	case PktExtension:
		return "EXTENSION", "Extension packet"
	case PktBadSequence:
		return "BAD_SEQUENCE", "Invalid sequence in packet"
	case PktReserved:
		return "RESERVED", "Reserved packet header"
	default:
		return "UNKNOWN", "Unknown Packet Type"
	}
}

// Packet is one decoded ITM packet.
//
// SrcID depends on Type: the stimulus port for SWIT, the discriminator for
// DWT, the TC bits for a local timestamp, wrap/clock-change bits for GTS1 and
// the source/bit-length for extension packets.
type Packet struct {
	Type    PktType
	SrcID   uint8
	Value   uint32
	ValSz   uint8 // payload size in bytes; 5 for a 38 bit GTS2 value
	ValExt  uint8 // bits [37:32] of a GTS2 value
	ErrType PktType
	Raw     []byte // header and payload bytes as read from the stream
}

func (p *Packet) reset() {
	*p = Packet{Type: PktNotSync, ErrType: PktNoErrType, Raw: p.Raw[:0]}
}

func (p *Packet) markError(errType PktType) {
	p.ErrType = p.Type
	p.Type = errType
}

func (p *Packet) setExtValue(v uint64) {
	p.Value = uint32(v & 0xFFFFFFFF)
	p.ValExt = uint8((v >> 32) & 0x3F)
	p.ValSz = 5
}

// ExtValue returns the full timestamp value of a GTS2 packet.
func (p *Packet) ExtValue() uint64 {
	return uint64(p.Value) | (uint64(p.ValExt) << 32)
}

// IsBad reports whether the packet is an error marker.
func (p *Packet) IsBad() bool {
	return p.Type >= PktBadSequence
}

// Payload returns the little endian payload bytes of a stimulus packet.
func (p *Packet) Payload() []byte {
	out := make([]byte, 0, 4)
	for i := uint8(0); i < p.ValSz && i < 4; i++ {
		out = append(out, byte(p.Value>>(8*i)))
	}
	return out
}

func (p *Packet) String() string {
	name, desc := p.Type.nameAndDesc()
	str := fmt.Sprintf("%s:%s", name, desc)

	switch p.Type {
	case PktSWIT:
		str += fmt.Sprintf("; %v; Port 0x%02X; Data 0x%08X", p.valSizeStr(), p.SrcID, p.Value)
	case PktDWT:
		str += "; " + p.dwtString()
	case PktTSLocal:
		tcDescs := []string{"TS Sync", "TS Delay", "TS Async", "TS delayed - async"}
		str += fmt.Sprintf("; TC %s; TS = 0x%07X", tcDescs[p.SrcID&0x3], p.Value)
	case PktTSGlobal1:
		str += fmt.Sprintf("; TS 25:0  0x%07X", p.Value)
	case PktTSGlobal2:
		str += fmt.Sprintf("; TS 63:26 0x%010X", p.ExtValue())
	case PktExtension:
		src := "SW"
		if (p.SrcID & 0x80) != 0 {
			src = "HW"
		}
		str += fmt.Sprintf("; Src %s; Val 0x%08X", src, p.Value)
	case PktBadSequence, PktIncompleteEOT:
		str += fmt.Sprintf("[%s]", p.ErrType)
	}
	return str
}

func (p *Packet) valSizeStr() string {
	switch p.ValSz {
	case 1:
		return "8 bit"
	case 2:
		return "16 bit"
	case 4:
		return "32 bit"
	default:
		return "Unsized"
	}
}

var dwtEventNames = []string{"CPI", "EXC", "SLP", "LSU", "FLD", "CYC"}

func (p *Packet) dwtString() string {
	size := p.valSizeStr()

	switch {
	case p.SrcID == 0:
		var sb strings.Builder
		sb.WriteString("Event : ")
		sb.WriteString(size)
		for bit, name := range dwtEventNames {
			if p.Value&(1<<uint(bit)) != 0 {
				sb.WriteString(" " + name + ";")
			}
		}
		return sb.String()
	case p.SrcID == 1:
		str := fmt.Sprintf("Exception : %s; Exception Num %03d", size, p.Value&0x1FF)
		switch (p.Value >> 12) & 0x3 {
		case 1:
			str += " Entered"
		case 2:
			str += " Exited"
		case 3:
			str += " Returned"
		}
		return str
	case p.SrcID == 2:
		return fmt.Sprintf("PC Sample : %s; PC = 0x%08X", size, p.Value)
	case p.SrcID == 8:
		return fmt.Sprintf("Data Trace PC Value : %s; PC = 0x%08X", size, p.Value)
	case p.SrcID == 9 || p.SrcID == 11:
		return fmt.Sprintf("Data Trace Address : %s; Addr = 0x%08X", size, p.Value)
	case p.SrcID >= 16 && p.SrcID <= 24:
		str := fmt.Sprintf("Data Trace Data : %s; Data = 0x%08X", size, p.Value)
		switch (p.SrcID >> 1) & 0x3 {
		case 1:
			str += " (Read)"
		case 2:
			str += " (Write)"
		}
		return str
	default:
		return fmt.Sprintf("Unknown : %s; ID = 0x%02X; Data = 0x%08X", size, p.SrcID, p.Value)
	}
}
