package swo

import (
	"fmt"
	"io"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"swogen/internal/common"
	"swogen/internal/itm"
)

// Board is the clock and ITM setup read from a board configuration file.
//
//	[clock]
//	core_hz  = 480 * MHz
//	trace_hz = 4 * MHz
//
//	[itm]
//	ports    = 0, 1
//	trace_id = 1
type Board struct {
	Clock Clock
	ITM   *itm.Config

	// TraceIDSet is true when the file gave trace_id; only then does the
	// generated gdbinit program ITM_TCR.
	TraceIDSet bool
}

// DefaultBoard returns the recommended clocks with ITM port 0.
func DefaultBoard() *Board {
	return &Board{
		Clock: DefaultClock(),
		ITM:   itm.NewConfig(),
	}
}

// LoadBoardFile reads a board configuration from path.
func LoadBoardFile(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, common.NewErrorMsg(common.SeverityError, common.ErrConfigFile, err.Error())
	}
	defer f.Close()

	board, err := ParseBoard(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return board, nil
}

// ParseBoard reads a board configuration. Missing keys keep their defaults
// and unknown keys are ignored. Values are Starlark integer expressions with
// KHz and MHz predeclared.
func ParseBoard(r io.Reader, name string) (*Board, error) {
	ini, err := ParseIni(r)
	if err != nil {
		return nil, common.NewErrorMsg(common.SeverityError, common.ErrConfigFile, err.Error())
	}

	board := DefaultBoard()
	ev := &exprEval{name: name}

	if err := ev.intKey(ini, "clock", "core_hz", &board.Clock.CoreHz); err != nil {
		return nil, err
	}
	if err := ev.intKey(ini, "clock", "trace_hz", &board.Clock.TraceHz); err != nil {
		return nil, err
	}

	if src, ok := ini.Value("itm", "ports"); ok {
		ports, err := ev.ints(src)
		if err != nil {
			return nil, valueError("itm", "ports", src, err)
		}
		for _, p := range ports {
			if p < 0 || p >= itm.NumPorts {
				return nil, valueError("itm", "ports", src, fmt.Errorf("port %d out of range 0..%d", p, itm.NumPorts-1))
			}
		}
		board.ITM.SetPorts(toInts(ports))
	}

	if src, ok := ini.Value("itm", "trace_id"); ok {
		var traceID int64
		if err := ev.intKey(ini, "itm", "trace_id", &traceID); err != nil {
			return nil, err
		}
		if traceID < 0 || traceID > itm.MaxTraceID {
			return nil, valueError("itm", "trace_id", src, fmt.Errorf("trace ID %d out of range 0..%d", traceID, itm.MaxTraceID))
		}
		board.ITM.SetTraceID(uint8(traceID))
		board.TraceIDSet = true
	}

	return board, nil
}

func valueError(section, key, src string, err error) error {
	return common.NewErrorMsg(common.SeverityError, common.ErrConfigValue,
		fmt.Sprintf("%s.%s = %q: %v", section, key, src, err))
}

func toInts(vals []int64) []int {
	out := make([]int, len(vals))
	for i, v := range vals {
		out[i] = int(v)
	}
	return out
}

type exprEval struct {
	name string
}

func (ev *exprEval) intKey(ini *IniFile, section, key string, dst *int64) error {
	src, ok := ini.Value(section, key)
	if !ok {
		return nil
	}
	v, err := ev.eval(src)
	if err != nil {
		return valueError(section, key, src, err)
	}
	n, err := toInt64(v)
	if err != nil {
		return valueError(section, key, src, err)
	}
	*dst = n
	return nil
}

// ints evaluates src to one integer or an iterable of integers, so both
// "0, 1" and "range(4)" work.
func (ev *exprEval) ints(src string) ([]int64, error) {
	v, err := ev.eval(src)
	if err != nil {
		return nil, err
	}
	if _, isInt := v.(starlark.Int); isInt {
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		return []int64{n}, nil
	}

	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("got %s, want int or sequence of int", v.Type())
	}
	iter := iterable.Iterate()
	defer iter.Done()

	var out []int64
	var x starlark.Value
	for iter.Next(&x) {
		n, err := toInt64(x)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (ev *exprEval) eval(expr string) (starlark.Value, error) {
	thread := &starlark.Thread{Name: ev.name}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{
		"KHz": starlark.MakeInt(1000),
		"MHz": starlark.MakeInt(1000000),
	}
	prog := "rc = " + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, thread, ev.name, prog, pred)
	if err != nil {
		return nil, err
	}
	rc, ok := dict["rc"]
	if !ok {
		return nil, fmt.Errorf("expression produced no value")
	}
	return rc, nil
}

func toInt64(v starlark.Value) (int64, error) {
	i, ok := v.(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("got %s, want int", v.Type())
	}
	n, ok := i.Int64()
	if !ok {
		return 0, fmt.Errorf("%s overflows int64", i.String())
	}
	return n, nil
}
