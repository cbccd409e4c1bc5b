package native

import "fmt"

// HResult is the 32-bit status word returned by the automation subsystem.
// Negative values are failures.
type HResult int32

// Status codes the invocation layer interprets.
const (
	StatusOK             HResult = 0
	StatusFalse          HResult = 1
	StatusNotImplemented HResult = -0x7fffbfff // 0x80004001
	StatusNoInterface    HResult = -0x7fffbffe // 0x80004002
	StatusPointer        HResult = -0x7fffbffd // 0x80004003
	StatusFail           HResult = -0x7fffbffb // 0x80004005
	StatusUnexpected     HResult = -0x7fff0001 // 0x8000FFFF
	StatusMemberNotFound HResult = -0x7ffdfffd // 0x80020003 DISP_E_MEMBERNOTFOUND
	StatusParamNotFound  HResult = -0x7ffdfffc // 0x80020004 DISP_E_PARAMNOTFOUND
	StatusTypeMismatch   HResult = -0x7ffdfffb // 0x80020005 DISP_E_TYPEMISMATCH
	StatusUnknownName    HResult = -0x7ffdfffa // 0x80020006 DISP_E_UNKNOWNNAME
	StatusException      HResult = -0x7ffdfff7 // 0x80020009 DISP_E_EXCEPTION
	StatusBadParamCount  HResult = -0x7ffdfff2 // 0x8002000E DISP_E_BADPARAMCOUNT
	StatusChangedMode    HResult = -0x7ffefefa // 0x80010106 RPC_E_CHANGED_MODE
	StatusDisconnected   HResult = -0x7ffefef8 // 0x80010108 RPC_E_DISCONNECTED
	StatusClassNotReg    HResult = -0x7ffbfeac // 0x80040154 REGDB_E_CLASSNOTREG
)

// Failed reports whether h is a failure code.
func (h HResult) Failed() bool { return h < 0 }

// Error implements the error interface so backends can return raw codes.
func (h HResult) Error() string {
	if name, ok := statusNames[h]; ok {
		return fmt.Sprintf("%s (0x%08X)", name, uint32(h))
	}
	return fmt.Sprintf("status 0x%08X", uint32(h))
}

var statusNames = map[HResult]string{
	StatusFalse:          "S_FALSE",
	StatusNotImplemented: "E_NOTIMPL",
	StatusNoInterface:    "E_NOINTERFACE",
	StatusPointer:        "E_POINTER",
	StatusFail:           "E_FAIL",
	StatusUnexpected:     "E_UNEXPECTED",
	StatusMemberNotFound: "member not found",
	StatusParamNotFound:  "parameter not found",
	StatusTypeMismatch:   "type mismatch",
	StatusUnknownName:    "unknown name",
	StatusException:      "exception occurred",
	StatusBadParamCount:  "invalid number of parameters",
	StatusChangedMode:    "cannot change thread mode after it is set",
	StatusDisconnected:   "object disconnected from its clients",
	StatusClassNotReg:    "class not registered",
}

// Exception is the rich failure a foreign object reports through
// StatusException.
type Exception struct {
	Code        HResult
	Source      string
	Description string
}

// Error implements the error interface.
func (e *Exception) Error() string {
	switch {
	case e.Source != "" && e.Description != "":
		return fmt.Sprintf("%s: %s (0x%08X)", e.Source, e.Description, uint32(e.Code))
	case e.Description != "":
		return fmt.Sprintf("%s (0x%08X)", e.Description, uint32(e.Code))
	default:
		return e.Code.Error()
	}
}

// Unwrap exposes the status code.
func (e *Exception) Unwrap() error { return e.Code }
