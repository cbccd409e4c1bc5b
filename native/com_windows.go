//go:build windows

package native

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/hupe1980/renga/guid"
)

var (
	modole32    = windows.NewLazySystemDLL("ole32.dll")
	modoleaut32 = windows.NewLazySystemDLL("oleaut32.dll")

	procCoInitializeEx    = modole32.NewProc("CoInitializeEx")
	procCoUninitialize    = modole32.NewProc("CoUninitialize")
	procCLSIDFromProgID   = modole32.NewProc("CLSIDFromProgID")
	procCoCreateInstance  = modole32.NewProc("CoCreateInstance")
	procSysAllocStringLen = modoleaut32.NewProc("SysAllocStringLen")
	procSysFreeString     = modoleaut32.NewProc("SysFreeString")
	procSysStringLen      = modoleaut32.NewProc("SysStringLen")
	procVariantClear      = modoleaut32.NewProc("VariantClear")
)

const (
	coinitMultithreaded = 0x0
	clsctxInprocServer  = 0x1
	clsctxLocalServer   = 0x4

	localeSystemDefault = 0x0800
	localeUserDefault   = 0x0400
)

// Variant type tags.
const (
	vtEmpty    uint16 = 0
	vtNull     uint16 = 1
	vtI2       uint16 = 2
	vtI4       uint16 = 3
	vtR4       uint16 = 4
	vtR8       uint16 = 5
	vtBSTR     uint16 = 8
	vtDispatch uint16 = 9
	vtError    uint16 = 10
	vtBool     uint16 = 11
	vtUnknown  uint16 = 13
	vtI1       uint16 = 16
	vtUI1      uint16 = 17
	vtUI2      uint16 = 18
	vtUI4      uint16 = 19
	vtI8       uint16 = 20
	vtUI8      uint16 = 21
	vtInt      uint16 = 22
	vtUint     uint16 = 23
	vtRecord   uint16 = 36
)

var (
	iidNull      = windows.GUID{}
	iidIDispatch = windows.GUID{Data1: 0x00020400, Data4: [8]byte{0xC0, 0, 0, 0, 0, 0, 0, 0x46}}
)

// variant mirrors the VARIANT layout. The payload union starts at val; the
// second word carries pRecInfo for records.
type variant struct {
	vt        uint16
	reserved1 uint16
	reserved2 uint16
	reserved3 uint16
	val       uintptr
	val2      uintptr
}

func (v *variant) payload() unsafe.Pointer { return unsafe.Pointer(&v.val) }

type dispParams struct {
	rgvarg            uintptr
	rgdispidNamedArgs uintptr
	cArgs             uint32
	cNamedArgs        uint32
}

type excepInfo struct {
	wCode             uint16
	wReserved         uint16
	bstrSource        *uint16
	bstrDescription   *uint16
	bstrHelpFile      *uint16
	dwHelpContext     uint32
	pvReserved        uintptr
	pfnDeferredFillIn uintptr
	scode             int32
}

type iUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

type iDispatchVtbl struct {
	iUnknownVtbl
	GetTypeInfoCount uintptr
	GetTypeInfo      uintptr
	GetIDsOfNames    uintptr
	Invoke           uintptr
}

type iDispatch struct {
	vtbl *iDispatchVtbl
}

type comBackend struct{}

var defaultBackend Backend = &comBackend{}

// DefaultBackend returns the COM automation backend.
func DefaultBackend() Backend { return defaultBackend }

// Initialize enters the multithreaded apartment. Goroutines migrate between
// OS threads, so the single-threaded apartment is not usable from Go.
func (*comBackend) Initialize() HResult {
	r, _, _ := procCoInitializeEx.Call(0, coinitMultithreaded)
	return HResult(int32(r))
}

func (*comBackend) Uninitialize() {
	procCoUninitialize.Call()
}

func (*comBackend) ClassID(className string) (guid.GUID, error) {
	name, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return guid.Nil, err
	}
	var clsid windows.GUID
	r, _, _ := procCLSIDFromProgID.Call(uintptr(unsafe.Pointer(name)), uintptr(unsafe.Pointer(&clsid)))
	if hr := HResult(int32(r)); hr.Failed() {
		return guid.Nil, hr
	}
	return guid.Parse(clsid.String())
}

func (*comBackend) CreateInstance(clsid guid.GUID) (Object, error) {
	wclsid, err := windows.GUIDFromString(clsid.Braced())
	if err != nil {
		return nil, err
	}
	var disp *iDispatch
	r, _, _ := procCoCreateInstance.Call(
		uintptr(unsafe.Pointer(&wclsid)),
		0,
		clsctxInprocServer|clsctxLocalServer,
		uintptr(unsafe.Pointer(&iidIDispatch)),
		uintptr(unsafe.Pointer(&disp)),
	)
	if hr := HResult(int32(r)); hr.Failed() {
		return nil, hr
	}
	return &comObject{disp: disp}, nil
}

// comObject is one IDispatch reference.
type comObject struct {
	disp *iDispatch
}

func (o *comObject) AddRef() {
	syscall.SyscallN(o.disp.vtbl.AddRef, uintptr(unsafe.Pointer(o.disp)))
}

func (o *comObject) Release() {
	syscall.SyscallN(o.disp.vtbl.Release, uintptr(unsafe.Pointer(o.disp)))
}

func (o *comObject) MemberID(name string) (MemberID, error) {
	wname, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return 0, err
	}
	var id int32
	r, _, _ := syscall.SyscallN(o.disp.vtbl.GetIDsOfNames,
		uintptr(unsafe.Pointer(o.disp)),
		uintptr(unsafe.Pointer(&iidNull)),
		uintptr(unsafe.Pointer(&wname)),
		1,
		localeUserDefault,
		uintptr(unsafe.Pointer(&id)),
	)
	if hr := HResult(int32(r)); hr.Failed() {
		return 0, hr
	}
	return MemberID(id), nil
}

func (o *comObject) Invoke(id MemberID, kind CallKind, params Params) (Value, error) {
	args := make([]variant, len(params.Args))
	defer func() {
		for i := range args {
			variantClear(&args[i])
		}
	}()
	for i, a := range params.Args {
		if err := toVariant(a, &args[i]); err != nil {
			return Value{}, err
		}
	}
	named := make([]int32, len(params.NamedArgs))
	for i, n := range params.NamedArgs {
		named[i] = int32(n)
	}

	var dp dispParams
	if len(args) > 0 {
		dp.rgvarg = uintptr(unsafe.Pointer(&args[0]))
		dp.cArgs = uint32(len(args))
	}
	if len(named) > 0 {
		dp.rgdispidNamedArgs = uintptr(unsafe.Pointer(&named[0]))
		dp.cNamedArgs = uint32(len(named))
	}

	var (
		result variant
		excep  excepInfo
		argErr uint32
	)
	r, _, _ := syscall.SyscallN(o.disp.vtbl.Invoke,
		uintptr(unsafe.Pointer(o.disp)),
		uintptr(int32(id)),
		uintptr(unsafe.Pointer(&iidNull)),
		localeSystemDefault,
		uintptr(kind),
		uintptr(unsafe.Pointer(&dp)),
		uintptr(unsafe.Pointer(&result)),
		uintptr(unsafe.Pointer(&excep)),
		uintptr(unsafe.Pointer(&argErr)),
	)
	runtime.KeepAlive(args)
	runtime.KeepAlive(named)

	hr := HResult(int32(r))
	if hr == StatusException {
		return Value{}, takeException(&excep)
	}
	if hr.Failed() {
		return Value{}, hr
	}
	return fromVariant(&result)
}

func takeException(e *excepInfo) error {
	ex := &Exception{Code: StatusException, Source: bstrToString(e.bstrSource), Description: bstrToString(e.bstrDescription)}
	if e.scode != 0 {
		ex.Code = HResult(e.scode)
	}
	for _, b := range []*uint16{e.bstrSource, e.bstrDescription, e.bstrHelpFile} {
		if b != nil {
			procSysFreeString.Call(uintptr(unsafe.Pointer(b)))
		}
	}
	return ex
}

func variantClear(v *variant) {
	procVariantClear.Call(uintptr(unsafe.Pointer(v)))
}

func allocBSTR(s string) (uintptr, error) {
	u, err := windows.UTF16FromString(s)
	if err != nil {
		return 0, err
	}
	n := len(u) - 1 // drop terminator; SysAllocStringLen appends its own
	var p *uint16
	if n > 0 {
		p = &u[0]
	}
	r, _, _ := procSysAllocStringLen.Call(uintptr(unsafe.Pointer(p)), uintptr(n))
	if r == 0 {
		return 0, fmt.Errorf("native: SysAllocStringLen failed for %d chars", n)
	}
	return r, nil
}

func bstrToString(p *uint16) string {
	if p == nil {
		return ""
	}
	n, _, _ := procSysStringLen.Call(uintptr(unsafe.Pointer(p)))
	return windows.UTF16ToString(unsafe.Slice(p, int(n)))
}

// toVariant marshals an argument. Strings and object references become owned
// by dst and are released by VariantClear after the call.
func toVariant(v Value, dst *variant) error {
	*dst = variant{}
	p := dst.payload()
	switch v.Kind() {
	case KindEmpty:
		dst.vt = vtEmpty
	case KindBool:
		b, _ := v.AsBool()
		dst.vt = vtBool
		if b {
			*(*int16)(p) = -1
		}
	case KindInt16:
		i, _ := v.AsInt16()
		dst.vt, *(*int16)(p) = vtI2, i
	case KindUint16:
		u, _ := v.AsUint16()
		dst.vt, *(*uint16)(p) = vtUI2, u
	case KindInt32:
		i, _ := v.AsInt32()
		dst.vt, *(*int32)(p) = vtI4, i
	case KindUint32:
		u, _ := v.AsUint32()
		dst.vt, *(*uint32)(p) = vtUI4, u
	case KindInt64:
		i, _ := v.AsInt64()
		dst.vt, *(*int64)(p) = vtI8, i
	case KindUint64:
		u, _ := v.AsUint64()
		dst.vt, *(*uint64)(p) = vtUI8, u
	case KindFloat32:
		f, _ := v.AsFloat32()
		dst.vt, *(*float32)(p) = vtR4, f
	case KindFloat64:
		f, _ := v.AsFloat64()
		dst.vt, *(*float64)(p) = vtR8, f
	case KindString:
		s, _ := v.AsString()
		b, err := allocBSTR(s)
		if err != nil {
			return err
		}
		dst.vt, dst.val = vtBSTR, b
	case KindObject:
		dst.vt = vtDispatch
		if obj := v.Object(); obj != nil {
			co, ok := obj.(*comObject)
			if !ok {
				return &ConversionError{From: KindObject, To: "VT_DISPATCH", Reason: fmt.Sprintf("foreign object of type %T", obj)}
			}
			co.AddRef()
			dst.val = uintptr(unsafe.Pointer(co.disp))
		}
	default:
		return &ConversionError{From: v.Kind(), To: "VARIANT", Reason: "kind cannot be passed as an argument"}
	}
	return nil
}

// fromVariant converts a call result. Object references move into the
// returned Value; records stay owned by a heap copy of the VARIANT that the
// record's release clears.
func fromVariant(src *variant) (Value, error) {
	p := src.payload()
	switch src.vt {
	case vtEmpty, vtNull:
		return Empty(), nil
	case vtBool:
		return Bool(*(*int16)(p) != 0), nil
	case vtI1:
		return Int16(int16(*(*int8)(p))), nil
	case vtUI1:
		return Uint16(uint16(*(*uint8)(p))), nil
	case vtI2:
		return Int16(*(*int16)(p)), nil
	case vtUI2:
		return Uint16(*(*uint16)(p)), nil
	case vtI4, vtInt, vtError:
		return Int32(*(*int32)(p)), nil
	case vtUI4, vtUint:
		return Uint32(*(*uint32)(p)), nil
	case vtI8:
		return Int64(*(*int64)(p)), nil
	case vtUI8:
		return Uint64(*(*uint64)(p)), nil
	case vtR4:
		return Float32(*(*float32)(p)), nil
	case vtR8:
		return Float64(*(*float64)(p)), nil
	case vtBSTR:
		s := bstrToString((*uint16)(unsafe.Pointer(src.val)))
		variantClear(src)
		return String(s), nil
	case vtDispatch:
		if src.val == 0 {
			return ObjectValue(nil), nil
		}
		return ObjectValue(&comObject{disp: (*iDispatch)(unsafe.Pointer(src.val))}), nil
	case vtUnknown:
		if src.val == 0 {
			return ObjectValue(nil), nil
		}
		defer variantClear(src)
		unk := (*iDispatch)(unsafe.Pointer(src.val))
		var disp *iDispatch
		r, _, _ := syscall.SyscallN(unk.vtbl.QueryInterface,
			uintptr(unsafe.Pointer(unk)),
			uintptr(unsafe.Pointer(&iidIDispatch)),
			uintptr(unsafe.Pointer(&disp)),
		)
		if hr := HResult(int32(r)); hr.Failed() {
			return Value{}, hr
		}
		return ObjectValue(&comObject{disp: disp}), nil
	case vtRecord:
		held := new(variant)
		*held = *src
		return RecordValue(unsafe.Pointer(held.val), unsafe.Pointer(held.val2), func() { variantClear(held) }), nil
	default:
		variantClear(src)
		return Value{}, &ConversionError{From: KindEmpty, To: "value", Reason: fmt.Sprintf("unsupported VARIANT type 0x%04X", src.vt)}
	}
}
