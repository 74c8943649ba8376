package swo

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"swogen/internal/common"
	"swogen/internal/itm"
	"swogen/internal/regs"
)

// RefURL is the reference printed into every generated artifact.
const RefURL = "https://gist.github.com/mofosyne/178ad947fdff0f357eb0e03a42bcef5c"

// Config selects what to generate. Nil fields take the STM32H7 defaults;
// a given Clock is used as is, zeros included.
type Config struct {
	Clock  *Clock
	Regs   *regs.Table
	ITM    *itm.Config
	Logger common.Logger

	// WriteTCR adds the ITM_TCR write carrying the ITM trace bus ID to the
	// gdbinit script.
	WriteTCR bool
}

// Solution holds the generated setup code.
type Solution struct {
	Clock     Clock
	Prescaler int64
	CCode     string // C function for the firmware
	GDBInit   string // gdbinit commands doing the same from the debugger
}

// templateData is what the artifact templates see.
type templateData struct {
	CoreHz    int64
	TraceHz   int64
	Prescaler int64
	Monitor   []string
	Ref       string
	WriteTCR  bool
	itm       *itm.Config
	regs      *regs.Table
}

// Addr is the register address in lower case hex.
func (d *templateData) Addr(name string) string {
	return d.regs.Hex(name)
}

// ADDR is the register address in upper case hex.
func (d *templateData) ADDR(name string) string {
	return fmt.Sprintf("0x%08X", d.regs.MustAddr(name))
}

func (d *templateData) Key() string {
	return fmt.Sprintf("0x%08X", regs.LockAccessKey)
}

// TraceID is the ITM trace bus ID written to ITM_TCR.
func (d *templateData) TraceID() uint8 {
	return d.itm.TraceID()
}

func (d *templateData) TCR() string {
	return fmt.Sprintf("0x%08X", d.itm.RegTCR)
}

func (d *templateData) PrescalerHex() string {
	return prescalerHex(d.Prescaler)
}

var (
	cCodeTmpl   = template.Must(template.New("c").Parse(cCodeTemplate))
	gdbInitTmpl = template.Must(template.New("gdbinit").Parse(gdbInitTemplate))
)

// Generate computes the SWO prescaler and renders both artifacts.
// It never fails; a zero trace clock panics in Prescaler.
func Generate(cfg Config) *Solution {
	clk := DefaultClock()
	if cfg.Clock != nil {
		clk = *cfg.Clock
	}
	tbl := cfg.Regs
	if tbl == nil {
		tbl = regs.STM32H7()
	}
	itmCfg := cfg.ITM
	if itmCfg == nil {
		itmCfg = itm.NewConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = common.NewNoOpLogger()
	}

	prescaler := clk.Prescaler()
	logger.Logf(common.SeverityDebug, "core %s, SWO %s, SWO_CODR = %d",
		common.FormatHz(clk.CoreHz), common.FormatHz(clk.TraceHz), prescaler)

	data := &templateData{
		CoreHz:    clk.CoreHz,
		TraceHz:   clk.TraceHz,
		Prescaler: prescaler,
		Monitor:   MonitorCommands(clk, itmCfg),
		Ref:       RefURL,
		WriteTCR:  cfg.WriteTCR,
		itm:       itmCfg,
		regs:      tbl,
	}

	return &Solution{
		Clock:     clk,
		Prescaler: prescaler,
		CCode:     render(cCodeTmpl, data),
		GDBInit:   render(gdbInitTmpl, data),
	}
}

// MonitorCommands returns the OpenOCD commands that set up host side SWO
// capture and enable the ITM stimulus ports.
func MonitorCommands(clk Clock, cfg *itm.Config) []string {
	cmds := []string{fmt.Sprintf("monitor tpiu config internal - uart off %d", clk.CoreHz)}
	for _, port := range cfg.EnabledPorts() {
		cmds = append(cmds, fmt.Sprintf("monitor itm port %d on", port))
	}
	return cmds
}

func render(t *template.Template, data *templateData) string {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		// templates are fixed, so this is a programming error
		panic(fmt.Sprintf("swo: rendering %s: %v", t.Name(), err))
	}
	return sb.String()
}

// WriteReport writes the prescaler followed by both artifacts as a
// markdown document.
func (s *Solution) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d\n\n# STM32H7 SWO Output Solution\n\n"+
		"## C\n\n```.c\n%s```\n\n"+
		"## GDBINIT\n\n```.gdbinit\n%s```\n\n\n",
		s.Prescaler, s.CCode, s.GDBInit)
	return err
}

// Report returns the WriteReport output as a string.
func (s *Solution) Report() string {
	var sb strings.Builder
	_ = s.WriteReport(&sb)
	return sb.String()
}
