package itm

import (
	"fmt"

	"swogen/internal/common"
)

// PacketSink receives decoded packets in stream order.
type PacketSink interface {
	PacketIn(index int64, pkt *Packet) error
}

type processState int

const (
	procWaitSync processState = iota
	procHdr
	procData
)

// Minimum run of zero bytes before the terminating 0x80 of an async packet.
const asyncMinZeros = 5

// Unsynced bytes kept for the NOTSYNC packet; the rest are only counted.
const notSyncSample = 8

// Processor converts a raw SWO byte stream (TPIU formatting bypassed) into
// ITM packets. It implements io.Writer so a capture can be copied into it.
// The *Packet handed to the sink is only valid for the duration of the call.
type Processor struct {
	sink PacketSink
	log  common.Logger

	assumeSync bool
	procState  processState

	currPacket Packet
	headerByte byte
	payloadReq int
	contLimit  int
	currPktFn  func(b byte)

	index       int64 // stream offset of the next byte
	packetIndex int64 // stream offset of the current packet header
	zeroRun     int

	unsyncCount  int
	unsyncSample []byte
	unsyncIndex  int64

	sinkErr error
}

// NewProcessor creates a processor delivering packets to sink.
func NewProcessor(sink PacketSink) *Processor {
	p := &Processor{
		sink: sink,
		log:  common.NewNoOpLogger(),
	}
	p.Reset()
	return p
}

// SetLogger sets the logger used to report packet errors.
func (p *Processor) SetLogger(l common.Logger) {
	if l != nil {
		p.log = l
	}
}

// SetAssumeSync makes the processor treat the first byte of the stream as a
// packet header instead of searching for an async packet.
func (p *Processor) SetAssumeSync(on bool) {
	p.assumeSync = on
	if p.index == 0 {
		p.Reset()
	}
}

// Reset returns the processor to its initial state.
func (p *Processor) Reset() {
	p.index = 0
	p.zeroRun = 0
	p.unsyncCount = 0
	p.unsyncSample = p.unsyncSample[:0]
	p.sinkErr = nil
	p.initNextPacket()
	if p.assumeSync {
		p.procState = procHdr
	} else {
		p.procState = procWaitSync
	}
}

// Write processes a block of trace bytes. It only fails when the sink does.
func (p *Processor) Write(data []byte) (int, error) {
	for i, b := range data {
		p.processByte(b)
		p.index++
		if p.sinkErr != nil {
			return i + 1, p.sinkErr
		}
	}
	return len(data), nil
}

// Close flushes any partial packet at the end of the trace.
func (p *Processor) Close() error {
	switch p.procState {
	case procData:
		p.currPacket.markError(PktIncompleteEOT)
		p.outputPacket()
	case procWaitSync:
		p.unsyncCount += p.zeroRun
		p.zeroRun = 0
		p.flushUnsynced()
	}
	return p.sinkErr
}

func (p *Processor) initNextPacket() {
	p.currPacket.reset()
	p.currPktFn = nil
	p.payloadReq = 0
	p.contLimit = 0
}

func (p *Processor) processByte(b byte) {
	switch p.procState {
	case procWaitSync:
		p.waitForSync(b)
	case procHdr:
		p.packetIndex = p.index
		p.currPacket.Raw = append(p.currPacket.Raw, b)
		p.processHdr(b)
	case procData:
		p.currPacket.Raw = append(p.currPacket.Raw, b)
		p.currPktFn(b)
	}
}

func (p *Processor) emit(pkt *Packet, index int64) {
	if p.sinkErr != nil {
		return
	}
	p.sinkErr = p.sink.PacketIn(index, pkt)
}

func (p *Processor) outputPacket() {
	p.emit(&p.currPacket, p.packetIndex)
	p.initNextPacket()
	if p.procState != procWaitSync {
		p.procState = procHdr
	}
}

// loseSync emits the current packet as a bad sequence and restarts the
// async search.
func (p *Processor) loseSync(errType PktType, code common.ErrCode, msg string) {
	p.currPacket.markError(errType)
	p.log.Error(common.NewErrorWithIdxMsg(common.SeverityError, code, p.packetIndex, msg))
	p.procState = procWaitSync
	p.zeroRun = 0
	p.outputPacket()
}

func (p *Processor) waitForSync(b byte) {
	if p.unsyncCount == 0 && p.zeroRun == 0 {
		p.unsyncIndex = p.index
	}

	switch {
	case b == 0x00:
		p.zeroRun++
	case b == 0x80 && p.zeroRun >= asyncMinZeros:
		p.flushUnsynced()
		p.packetIndex = p.index - int64(p.zeroRun)
		p.currPacket.Type = PktAsync
		p.currPacket.Raw = appendAsync(p.currPacket.Raw, p.zeroRun)
		p.zeroRun = 0
		p.procState = procHdr
		p.outputPacket()
	default:
		p.unsyncCount += p.zeroRun + 1
		for i := 0; i < p.zeroRun && len(p.unsyncSample) < notSyncSample; i++ {
			p.unsyncSample = append(p.unsyncSample, 0x00)
		}
		if len(p.unsyncSample) < notSyncSample {
			p.unsyncSample = append(p.unsyncSample, b)
		}
		p.zeroRun = 0
	}
}

func (p *Processor) flushUnsynced() {
	if p.unsyncCount == 0 {
		return
	}
	pkt := Packet{
		Type:    PktNotSync,
		ErrType: PktNoErrType,
		Value:   uint32(p.unsyncCount),
		Raw:     p.unsyncSample,
	}
	p.emit(&pkt, p.unsyncIndex)
	p.unsyncCount = 0
	p.unsyncSample = p.unsyncSample[:0]
}

func appendAsync(raw []byte, zeros int) []byte {
	for i := 0; i < zeros; i++ {
		raw = append(raw, 0x00)
	}
	return append(raw, 0x80)
}

func (p *Processor) processHdr(b byte) {
	p.headerByte = b

	switch {
	case (b & 0x03) != 0x00: // stimulus packets
		if (b & 0x04) != 0 {
			p.currPacket.Type = PktDWT
		} else {
			p.currPacket.Type = PktSWIT
		}
		p.currPacket.SrcID = (b >> 3) & 0x1F
		p.payloadReq = int(b & 0x03)
		if p.payloadReq == 3 {
			p.payloadReq = 4
		}
		p.currPktFn = p.pktStimulus
		p.procState = procData

	case b == 0x00:
		p.currPacket.Type = PktAsync
		p.zeroRun = 1
		p.currPktFn = p.pktAsync
		p.procState = procData

	case (b & 0x0F) == 0x00:
		if b == 0x70 {
			p.currPacket.Type = PktOverflow
			p.outputPacket()
			return
		}
		p.currPacket.Type = PktTSLocal
		if (b & 0x80) == 0 {
			// single byte local timestamp, TS value in the header
			p.currPacket.Value = uint32((b >> 4) & 0x7)
			p.currPacket.ValSz = 1
			p.outputPacket()
			return
		}
		p.currPacket.SrcID = (b >> 4) & 0x3
		p.startCont(4, p.finishLocalTS)

	case (b & 0x0B) == 0x08:
		p.currPacket.Type = PktExtension
		if (b & 0x80) == 0 {
			p.finishExtension()
			return
		}
		p.startCont(4, p.finishExtension)

	case (b & 0xDF) == 0x94:
		if (b & 0x20) == 0 {
			p.currPacket.Type = PktTSGlobal1
			p.startCont(4, p.finishGlobalTS1)
		} else {
			p.currPacket.Type = PktTSGlobal2
			p.startCont(6, p.finishGlobalTS2)
		}

	default:
		p.currPacket.Type = PktReserved
		p.log.Error(common.NewErrorWithIdxMsg(common.SeverityError, common.ErrInvalidPcktHdr, p.packetIndex,
			fmt.Sprintf("reserved header 0x%02X", b)))
		p.outputPacket()
	}
}

func (p *Processor) payload() []byte {
	return p.currPacket.Raw[1:]
}

func (p *Processor) pktStimulus(b byte) {
	pl := p.payload()
	if len(pl) < p.payloadReq {
		return
	}
	var value uint32
	for i, v := range pl {
		value |= uint32(v) << (8 * uint(i))
	}
	p.currPacket.Value = value
	p.currPacket.ValSz = uint8(p.payloadReq)
	p.outputPacket()
}

func (p *Processor) pktAsync(b byte) {
	switch {
	case b == 0x00:
		p.zeroRun++
	case b == 0x80 && p.zeroRun >= asyncMinZeros:
		p.zeroRun = 0
		p.outputPacket()
	default:
		p.loseSync(PktBadSequence, common.ErrBadPacketSeq, "Async Packet: unexpected none zero value")
	}
}

// startCont reads continuation-encoded payload bytes (bit 7 set on all but
// the last) up to limit bytes, then calls done.
func (p *Processor) startCont(limit int, done func()) {
	p.contLimit = limit
	p.currPktFn = func(b byte) {
		if (b & 0x80) == 0 {
			done()
			return
		}
		if len(p.payload()) >= p.contLimit {
			p.loseSync(PktBadSequence, common.ErrBadPacketSeq,
				fmt.Sprintf("%s packet: Payload continuation value too long", p.currPacket.Type))
		}
	}
	p.procState = procData
}

func contValue(payload []byte) uint64 {
	var value uint64
	for i, b := range payload {
		value |= uint64(b&0x7F) << (7 * uint(i))
	}
	return value
}

func (p *Processor) finishLocalTS() {
	pl := p.payload()
	p.currPacket.Value = uint32(contValue(pl))
	p.currPacket.ValSz = uint8(len(pl))
	p.outputPacket()
}

func (p *Processor) finishGlobalTS1() {
	pl := append([]byte(nil), p.payload()...)
	if len(pl) == 4 {
		// byte 4 carries the wrap and clock change flags above TS[25:21]
		last := pl[3]
		p.currPacket.SrcID = (last >> 5) & 0x3
		pl[3] = last & 0x1F
	}
	p.currPacket.Value = uint32(contValue(pl))
	p.currPacket.ValSz = uint8(len(pl))
	p.outputPacket()
}

func (p *Processor) finishGlobalTS2() {
	pl := p.payload()
	if len(pl) <= 4 {
		p.currPacket.Value = uint32(contValue(pl))
		p.currPacket.ValSz = uint8(len(pl))
	} else {
		p.currPacket.setExtValue(contValue(pl))
	}
	p.outputPacket()
}

var extBitLength = []uint8{2, 9, 16, 23, 31}

func (p *Processor) finishExtension() {
	pl := p.payload()
	srcID := extBitLength[len(pl)]
	if (p.headerByte & 0x04) != 0 {
		srcID |= 0x80
	}
	p.currPacket.SrcID = srcID

	var value uint32
	if len(pl) > 0 {
		value = uint32(contValue(pl)) << 3
	}
	value |= uint32((p.headerByte >> 4) & 0x7)
	p.currPacket.Value = value
	p.currPacket.ValSz = 4
	p.outputPacket()
}
