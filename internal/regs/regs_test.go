package regs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSTM32H7Addresses(t *testing.T) {
	tbl := STM32H7()

	tests := []struct {
		name string
		addr uint32
	}{
		{SWOCODR, 0x5C003010},
		{SWOSPPR, 0x5C0030F0},
		{SWOFFSR, 0x5C003300},
		{SWOLAR, 0x5C003FB0},
		{SWOPIDR4, 0x5C003FD0},
		{SWTFCtrl, 0x5C004000},
		{SWTFPriority, 0x5C004004},
		{SWTFLAR, 0x5C004FB0},
		{SWTFCIDR3, 0x5C004FFC},
		{DBGMCUCR, 0x5C001004},
		{RCCAHB4ENR, 0x580244E0},
		{GPIOBAFRL, 0x58020420},
		{ITMTCR, 0xE0000E80},
		{ITMLAR, 0xE0000FB0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tbl.Addr(tt.name)
			if !ok {
				t.Fatalf("Addr(%q) not found", tt.name)
			}
			if got != tt.addr {
				t.Errorf("Addr(%q) = 0x%08X, want 0x%08X", tt.name, got, tt.addr)
			}
		})
	}
}

func TestHex(t *testing.T) {
	tbl := STM32H7()
	if got := tbl.Hex(SWOLAR); got != "0x5c003fb0" {
		t.Errorf("Hex(SWO_LAR) = %q", got)
	}
	if got := tbl.Hex(SWTFCtrl); got != "0x5c004000" {
		t.Errorf("Hex(SWTF_CTRL) = %q", got)
	}
}

func TestUnknownRegister(t *testing.T) {
	tbl := STM32H7()
	if _, ok := tbl.Addr("TPI_ACPR"); ok {
		t.Error("Addr(TPI_ACPR) should not be found")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustAddr on unknown name did not panic")
		}
	}()
	tbl.MustAddr("TPI_ACPR")
}

func TestNamesOrderAndDuplicates(t *testing.T) {
	tbl := NewTable([]Register{
		{"B", 2},
		{"A", 1},
		{"B", 3},
	})

	if diff := cmp.Diff([]string{"B", "A"}, tbl.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if addr := tbl.MustAddr("B"); addr != 2 {
		t.Errorf("duplicate name overwrote first entry: got %d", addr)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestRegistersIsCopy(t *testing.T) {
	tbl := STM32H7()
	rs := tbl.Registers()
	rs[0].Addr = 0
	if tbl.MustAddr(SWOCODR) != 0x5C003010 {
		t.Error("Registers() exposed internal storage")
	}
	if len(rs) != 36 {
		t.Errorf("len(Registers()) = %d, want 36", len(rs))
	}
}
