package common

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCode identifies the class of a swogen error.
type ErrCode uint32

const (
	OK                ErrCode = 0
	ErrFail           ErrCode = 1
	ErrConfigFile     ErrCode = 2
	ErrConfigValue    ErrCode = 3
	ErrFileError      ErrCode = 4
	ErrBadPacketSeq   ErrCode = 19
	ErrInvalidPcktHdr ErrCode = 20
)

// BadIndex marks an error that is not tied to a position in a trace stream.
const BadIndex int64 = -1

// Error is the library error object.
type Error struct {
	Code    ErrCode
	Sev     Severity
	Idx     int64
	Message string
}

func NewError(sev Severity, code ErrCode) *Error {
	return &Error{
		Code: code,
		Sev:  sev,
		Idx:  BadIndex,
	}
}

func NewErrorMsg(sev Severity, code ErrCode, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Idx:     BadIndex,
		Message: msg,
	}
}

func NewErrorWithIdxMsg(sev Severity, code ErrCode, idx int64, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Idx:     idx,
		Message: msg,
	}
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	switch e.Sev {
	case SeverityError:
		sb.WriteString("ERROR:")
	case SeverityWarning:
		sb.WriteString("WARN :")
	case SeverityInfo:
		sb.WriteString("INFO :")
	default:
		return "LIBRARY INTERNAL ERROR: Invalid Error Object"
	}

	sb.WriteString(fmt.Sprintf("0x%04x ", uint32(e.Code)))

	if desc, ok := errorCodeDesc[e.Code]; ok {
		sb.WriteString(fmt.Sprintf("(%s) [%s]; ", desc.name, desc.msg))
	} else {
		sb.WriteString("(unknown); ")
	}

	if e.Idx != BadIndex {
		sb.WriteString(fmt.Sprintf("Idx=%d; ", e.Idx))
	}

	sb.WriteString(e.Message)
	return sb.String()
}

// CodeOf returns the code of the first *Error in err's chain, or ErrFail
// when err carries no code. A nil error has code OK.
func CodeOf(err error) ErrCode {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrFail
}

type errDesc struct {
	name string
	msg  string
}

var errorCodeDesc = map[ErrCode]errDesc{
	OK:                {"SWO_OK", "No Error."},
	ErrFail:           {"SWO_ERR_FAIL", "General failure."},
	ErrConfigFile:     {"SWO_ERR_CONFIG_FILE", "Board configuration file error."},
	ErrConfigValue:    {"SWO_ERR_CONFIG_VALUE", "Invalid value in board configuration."},
	ErrFileError:      {"SWO_ERR_FILE_ERROR", "File access error"},
	ErrBadPacketSeq:   {"SWO_ERR_BAD_PACKET_SEQ", "Bad packet sequence"},
	ErrInvalidPcktHdr: {"SWO_ERR_INVALID_PCKT_HDR", "Invalid packet header"},
}
