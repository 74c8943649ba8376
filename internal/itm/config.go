package itm

// ITM_TCR bits.
const (
	TCRITMEna  uint32 = 1 << 0
	TCRTSEna   uint32 = 1 << 1
	TCRSyncEna uint32 = 1 << 2
	TCRDWTEna  uint32 = 1 << 3
	TCRSWOEna  uint32 = 1 << 4

	tcrTraceIDMask uint32 = 0x007F0000
)

// MaxTraceID is the largest CoreSight trace bus ID (TCR.TraceBusID is 7 bits).
const MaxTraceID = 0x7F

// NumPorts is the number of ITM stimulus ports covered by one TER register.
const NumPorts = 32

// Config holds the programmed state of the ITM: trace control (TCR) and the
// stimulus port enables (TER).
type Config struct {
	RegTCR uint32 // CoreSight trace ID, TS prescaler, enables
	RegTER uint32 // one bit per stimulus port
}

// NewConfig returns the setup used by the generated scripts: ITM enabled
// with stimulus port 0 only.
func NewConfig() *Config {
	return &Config{
		RegTCR: TCRITMEna,
		RegTER: 0x1,
	}
}

// SetTraceID sets the CoreSight trace ID.
func (c *Config) SetTraceID(traceID uint8) {
	c.RegTCR &= ^tcrTraceIDMask
	c.RegTCR |= (uint32(traceID) << 16) & tcrTraceIDMask
}

// TraceID gets the CoreSight trace ID.
func (c *Config) TraceID() uint8 {
	return uint8((c.RegTCR >> 16) & 0x7F)
}

// EnablePort sets the TER bit for port. Ports outside 0..31 are ignored.
func (c *Config) EnablePort(port int) {
	if port < 0 || port >= NumPorts {
		return
	}
	c.RegTER |= 1 << uint(port)
}

// PortEnabled reports whether stimulus port is enabled.
func (c *Config) PortEnabled(port int) bool {
	if port < 0 || port >= NumPorts {
		return false
	}
	return (c.RegTER>>uint(port))&1 != 0
}

// SetPorts replaces the enabled port set.
func (c *Config) SetPorts(ports []int) {
	c.RegTER = 0
	for _, p := range ports {
		c.EnablePort(p)
	}
}

// EnabledPorts lists the enabled ports in ascending order.
func (c *Config) EnabledPorts() []int {
	var ports []int
	for p := 0; p < NumPorts; p++ {
		if c.PortEnabled(p) {
			ports = append(ports, p)
		}
	}
	return ports
}
