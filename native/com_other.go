//go:build !windows

package native

import "github.com/hupe1980/renga/guid"

// unsupportedBackend stands in for COM on platforms that have none.
type unsupportedBackend struct{}

var defaultBackend Backend = unsupportedBackend{}

// DefaultBackend returns a backend that refuses every operation. Automation
// is only available on Windows.
func DefaultBackend() Backend { return defaultBackend }

func (unsupportedBackend) Initialize() HResult { return StatusNotImplemented }

func (unsupportedBackend) Uninitialize() {}

func (unsupportedBackend) ClassID(string) (guid.GUID, error) {
	return guid.Nil, ErrUnsupportedPlatform
}

func (unsupportedBackend) CreateInstance(guid.GUID) (Object, error) {
	return nil, ErrUnsupportedPlatform
}
