package swo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"swogen/internal/common"
	"swogen/internal/itm"
	"swogen/internal/regs"
)

func readGolden(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Could not read golden file %s: %v", name, err)
	}
	return strings.ReplaceAll(string(b), "\r\n", "\n")
}

func TestReportMatchesGolden(t *testing.T) {
	tests := []struct {
		name   string
		clock  *Clock
		golden string
	}{
		{"default clocks", nil, "default_report.txt"},
		{"200MHz core", &Clock{CoreHz: 200000000, TraceHz: 2000000}, "core200_report.txt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			want := readGolden(t, tc.golden)
			got := Generate(Config{Clock: tc.clock}).Report()
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGeneratePrescaler(t *testing.T) {
	sol := Generate(Config{})
	if sol.Prescaler != 199 {
		t.Errorf("default prescaler = %d, want 199", sol.Prescaler)
	}
	if sol.Clock != DefaultClock() {
		t.Errorf("default clock = %+v", sol.Clock)
	}

	sol = Generate(Config{Clock: &Clock{CoreHz: 2000000, TraceHz: 2000000}})
	if sol.Prescaler != 0 {
		t.Errorf("equal clocks prescaler = %d, want 0", sol.Prescaler)
	}
	if !strings.Contains(sol.GDBInit, "set *0x5c003010 = 0x000000\n") {
		t.Errorf("CODR poke missing for zero prescaler:\n%s", sol.GDBInit)
	}
}

func TestAddressesInBothBlocks(t *testing.T) {
	sol := Generate(Config{})
	tbl := regs.STM32H7()

	for _, name := range []string{regs.SWOLAR, regs.SWTFLAR, regs.SWOCODR, regs.SWOSPPR, regs.SWTFCtrl} {
		addr := tbl.Hex(name)
		if len(addr) != 10 {
			t.Errorf("%s formatted as %q, want 0x + 8 digits", name, addr)
		}
		if !strings.Contains(sol.CCode, addr) {
			t.Errorf("C code missing %s address %s", name, addr)
		}
		if !strings.Contains(sol.GDBInit, addr) {
			t.Errorf("gdbinit missing %s address %s", name, addr)
		}
	}

	if !strings.Contains(sol.CCode, "*((uint32_t *)(0x5c003fb0)) = 0xC5ACCE55; // SWO_LAR") {
		t.Error("C code missing SWO_LAR unlock")
	}
	if !strings.Contains(sol.GDBInit, "set *0x5c003fb0 = 0xC5ACCE55") {
		t.Error("gdbinit missing SWO_LAR unlock")
	}
}

func TestMonitorLines(t *testing.T) {
	sol := Generate(Config{Clock: &Clock{CoreHz: 480000000, TraceHz: 4000000}})

	lines := strings.Split(strings.TrimSuffix(sol.GDBInit, "\n"), "\n")
	tail := lines[len(lines)-2:]
	want := []string{
		"monitor tpiu config internal - uart off 480000000",
		"monitor itm port 0 on",
	}
	if diff := cmp.Diff(want, tail); diff != "" {
		t.Errorf("monitor lines mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(sol.CCode, "    monitor tpiu config internal - uart off 480000000\n") {
		t.Error("C comment missing tpiu command")
	}
}

func TestMonitorCommandsPorts(t *testing.T) {
	cfg := itm.NewConfig()
	cfg.SetPorts([]int{2, 0})

	got := MonitorCommands(DefaultClock(), cfg)
	want := []string{
		"monitor tpiu config internal - uart off 400000000",
		"monitor itm port 0 on",
		"monitor itm port 2 on",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MonitorCommands mismatch (-want +got):\n%s", diff)
	}

	sol := Generate(Config{ITM: cfg})
	if !strings.HasSuffix(sol.GDBInit, "monitor itm port 0 on\nmonitor itm port 2 on\n") {
		t.Errorf("gdbinit tail:\n%s", sol.GDBInit)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	a := Generate(Config{}).Report()
	b := Generate(Config{}).Report()
	if a != b {
		t.Error("two runs with the same input produced different reports")
	}
}

func TestGenerateZeroTraceClockPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Generate with zero trace clock did not panic")
		}
	}()
	Generate(Config{Clock: &Clock{CoreHz: 400000000}})
}

func TestGenerateExplicitZeroClockPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Generate with an explicit zero clock did not panic")
		}
	}()
	Generate(Config{Clock: &Clock{}})
}

func TestGenerateWriteTCR(t *testing.T) {
	cfg := itm.NewConfig()
	cfg.SetTraceID(0x11)

	sol := Generate(Config{ITM: cfg, WriteTCR: true})
	want := "monitor itm port 0 on\n" +
		"# ITM_LAR & ITM_TCR : Unlock ITM, TraceBusID 17\n" +
		"set *0xe0000fb0 = 0xC5ACCE55\n" +
		"set *0xe0000e80 = 0x00110001\n"
	if !strings.HasSuffix(sol.GDBInit, want) {
		t.Errorf("gdbinit tail:\n%s", sol.GDBInit)
	}
	if strings.Contains(sol.CCode, "0xe0000e80") {
		t.Error("C code should not touch ITM_TCR")
	}

	plain := Generate(Config{ITM: cfg})
	if strings.Contains(plain.GDBInit, "ITM_TCR") {
		t.Error("ITM_TCR written without WriteTCR")
	}
}

func TestGenerateLogs(t *testing.T) {
	var buf bytes.Buffer
	Generate(Config{Logger: common.NewStdLoggerWithWriter(&buf, common.SeverityDebug)})
	if !strings.Contains(buf.String(), "SWO_CODR = 199") {
		t.Errorf("debug log missing prescaler: %s", buf.String())
	}
}
