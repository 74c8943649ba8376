// Package swo generates the firmware and debugger setup that routes ITM
// trace out of the STM32H7 SWO pin.
package swo

import "fmt"

// Recommended clocks. SWO output is only reliable with the core at 400MHz.
const (
	DefaultCoreHz  int64 = 400000000
	DefaultTraceHz int64 = 2000000
)

// Clock is the core clock and the wanted SWO bit rate.
type Clock struct {
	CoreHz  int64
	TraceHz int64
}

// DefaultClock returns the recommended 400MHz core / 2MHz SWO setup.
func DefaultClock() Clock {
	return Clock{CoreHz: DefaultCoreHz, TraceHz: DefaultTraceHz}
}

// Prescaler returns the value for SWO_CODR.
func (c Clock) Prescaler() int64 {
	return Prescaler(c.CoreHz, c.TraceHz)
}

// Prescaler returns round(coreHz / traceHz) - 1, rounding the exact
// quotient half to even. The result is not range checked: it is -1 when
// traceHz is more than twice coreHz, and may not fit the CODR field.
// A zero traceHz panics with an integer divide by zero.
func Prescaler(coreHz, traceHz int64) int64 {
	a, b := abs64(coreHz), abs64(traceHz)
	q := a / b
	r := a % b
	if 2*r > b || (2*r == b && q%2 == 1) {
		q++
	}
	if (coreHz < 0) != (traceHz < 0) {
		q = -q
	}
	return q - 1
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// prescalerHex formats v with 0x and zero padding to a total width of 8
// characters, sign included, so 199 is 0x0000c7.
func prescalerHex(v int64) string {
	if v < 0 {
		return fmt.Sprintf("-0x%05x", -v)
	}
	return fmt.Sprintf("0x%06x", v)
}
