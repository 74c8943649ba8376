// Package regs holds the fixed STM32H7 debug and trace register map used by
// the SWO setup generator.
package regs

import "fmt"

// CoreSight lock access key. Writing it to a component LAR unlocks the
// component's programming registers.
const LockAccessKey uint32 = 0xC5ACCE55

// Block base addresses.
const (
	SWOBase  uint32 = 0x5C003000
	SWTFBase uint32 = 0x5C004000
)

// Register names. SWO and SWO funnel (SWTF) are not described by the CMSIS
// device headers, so they are addressed by absolute value.
const (
	SWOCODR     = "SWO_CODR"
	SWOSPPR     = "SWO_SPPR"
	SWOFFSR     = "SWO_FFSR"
	SWOClaimSet = "SWO_CLAIMSET"
	SWOClaimClr = "SWO_CLAIMCLR"
	SWOLAR      = "SWO_LAR"
	SWOLSR      = "SWO_LSR"
	SWOAuthStat = "SWO_AUTHSTAT"
	SWODevID    = "SWO_DEVID"
	SWODevType  = "SWO_DEVTYPE"
	SWOPIDR4    = "SWO_PIDR4"

	SWTFCtrl     = "SWTF_CTRL"
	SWTFPriority = "SWTF_PRIORITY"
	SWTFClaimSet = "SWTF_CLAIMSET"
	SWTFClaimClr = "SWTF_CLAIMCLR"
	SWTFLAR      = "SWTF_LAR"
	SWTFLSR      = "SWTF_LSR"
	SWTFAuthStat = "SWTF_AUTHSTAT"
	SWTFDevID    = "SWTF_DEVID"
	SWTFDevType  = "SWTF_DEVTYPE"
	SWTFPIDR4    = "SWTF_PIDR4"
	SWTFPIDR0    = "SWTF_PIDR0"
	SWTFPIDR1    = "SWTF_PIDR1"
	SWTFPIDR2    = "SWTF_PIDR2"
	SWTFPIDR3    = "SWTF_PIDR3"
	SWTFCIDR0    = "SWTF_CIDR0"
	SWTFCIDR1    = "SWTF_CIDR1"
	SWTFCIDR2    = "SWTF_CIDR2"
	SWTFCIDR3    = "SWTF_CIDR3"

	DBGMCUCR     = "DBGMCU_CR"
	RCCAHB4ENR   = "RCC_AHB4ENR"
	GPIOBMODER   = "GPIOB_MODER"
	GPIOBOSPEEDR = "GPIOB_OSPEEDR"
	GPIOBAFRL    = "GPIOB_AFRL"

	ITMTCR = "ITM_TCR"
	ITMLAR = "ITM_LAR"
)

// Register is one named memory mapped register.
type Register struct {
	Name string
	Addr uint32
}

// Table is an immutable, ordered register map.
type Table struct {
	regs  []Register
	index map[string]int
}

// NewTable builds a table from regs, keeping their order. A repeated name
// keeps its first address.
func NewTable(regs []Register) *Table {
	t := &Table{
		regs:  make([]Register, 0, len(regs)),
		index: make(map[string]int, len(regs)),
	}
	for _, r := range regs {
		if _, dup := t.index[r.Name]; dup {
			continue
		}
		t.index[r.Name] = len(t.regs)
		t.regs = append(t.regs, r)
	}
	return t
}

// STM32H7 returns the SWO, funnel, DBGMCU, RCC, GPIOB and Cortex-M7 ITM
// registers of the STM32H74x/75x parts.
func STM32H7() *Table {
	return NewTable([]Register{
		{SWOCODR, SWOBase + 0x010},
		{SWOSPPR, SWOBase + 0x0F0},
		{SWOFFSR, SWOBase + 0x300},
		{SWOClaimSet, SWOBase + 0xFA0},
		{SWOClaimClr, SWOBase + 0xFA4},
		{SWOLAR, SWOBase + 0xFB0},
		{SWOLSR, SWOBase + 0xFB4},
		{SWOAuthStat, SWOBase + 0xFB8},
		{SWODevID, SWOBase + 0xFC8},
		{SWODevType, SWOBase + 0xFCC},
		{SWOPIDR4, SWOBase + 0xFD0},

		{SWTFCtrl, SWTFBase + 0x000},
		{SWTFPriority, SWTFBase + 0x004},
		{SWTFClaimSet, SWTFBase + 0xFA0},
		{SWTFClaimClr, SWTFBase + 0xFA4},
		{SWTFLAR, SWTFBase + 0xFB0},
		{SWTFLSR, SWTFBase + 0xFB4},
		{SWTFAuthStat, SWTFBase + 0xFB8},
		{SWTFDevID, SWTFBase + 0xFC8},
		{SWTFDevType, SWTFBase + 0xFCC},
		{SWTFPIDR4, SWTFBase + 0xFD0},
		{SWTFPIDR0, SWTFBase + 0xFE0},
		{SWTFPIDR1, SWTFBase + 0xFE4},
		{SWTFPIDR2, SWTFBase + 0xFE8},
		{SWTFPIDR3, SWTFBase + 0xFEC},
		{SWTFCIDR0, SWTFBase + 0xFF0},
		{SWTFCIDR1, SWTFBase + 0xFF4},
		{SWTFCIDR2, SWTFBase + 0xFF8},
		{SWTFCIDR3, SWTFBase + 0xFFC},

		{DBGMCUCR, 0x5C001004},
		{RCCAHB4ENR, 0x580244E0},
		{GPIOBMODER, 0x58020400},
		{GPIOBOSPEEDR, 0x58020408},
		{GPIOBAFRL, 0x58020420},

		{ITMTCR, 0xE0000E80},
		{ITMLAR, 0xE0000FB0},
	})
}

// Addr looks up a register address by name.
func (t *Table) Addr(name string) (uint32, bool) {
	i, ok := t.index[name]
	if !ok {
		return 0, false
	}
	return t.regs[i].Addr, true
}

// MustAddr is Addr for names the caller knows are present.
func (t *Table) MustAddr(name string) uint32 {
	addr, ok := t.Addr(name)
	if !ok {
		panic(fmt.Sprintf("regs: unknown register %q", name))
	}
	return addr
}

// Hex returns the address of name as 0x followed by 8 lower case hex digits.
func (t *Table) Hex(name string) string {
	return fmt.Sprintf("0x%08x", t.MustAddr(name))
}

// Names lists the register names in definition order.
func (t *Table) Names() []string {
	names := make([]string, len(t.regs))
	for i, r := range t.regs {
		names[i] = r.Name
	}
	return names
}

// Registers returns a copy of the table contents.
func (t *Table) Registers() []Register {
	out := make([]Register, len(t.regs))
	copy(out, t.regs)
	return out
}

// Len returns the number of registers in the table.
func (t *Table) Len() int {
	return len(t.regs)
}
