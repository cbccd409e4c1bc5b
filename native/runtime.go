package native

import (
	"sync"
	"sync/atomic"

	"github.com/hupe1980/renga/logging"
)

// loggerBox keeps the stored type stable across atomic.Value stores.
type loggerBox struct{ logging.Logger }

var pkgLogger atomic.Value

func init() { pkgLogger.Store(loggerBox{logging.NoOpLogger{}}) }

// SetLogger installs the logger used for runtime lifecycle events.
func SetLogger(l logging.Logger) { pkgLogger.Store(loggerBox{logging.OrNoOp(l)}) }

func logger() logging.Logger { return pkgLogger.Load().(loggerBox).Logger }

type subsystem struct {
	live  int
	owned bool // false when the subsystem was already initialized in another mode
}

var runtimes = struct {
	mu    sync.Mutex
	state map[Backend]*subsystem
}{state: map[Backend]*subsystem{}}

// Runtime is one guard on the automation subsystem of a Backend.
type Runtime struct {
	backend Backend
	once    sync.Once
}

// AcquireRuntime returns a guard on backend's subsystem, initializing it if
// no other guard is live.
func AcquireRuntime(backend Backend) (*Runtime, error) {
	runtimes.mu.Lock()
	defer runtimes.mu.Unlock()

	sub, ok := runtimes.state[backend]
	if !ok {
		hr := backend.Initialize()
		if hr.Failed() && hr != StatusChangedMode {
			logger().Error("renga.runtime.init_failed", "code", uint32(hr))
			return nil, &RuntimeInitError{Code: hr}
		}
		sub = &subsystem{owned: hr != StatusChangedMode}
		runtimes.state[backend] = sub
		logger().Debug("renga.runtime.initialized", "owned", sub.owned)
	}
	sub.live++
	liveRuntimeGuards.Inc()

	return &Runtime{backend: backend}, nil
}

// Backend returns the backend the guard holds.
func (r *Runtime) Backend() Backend { return r.backend }

// Release drops the guard. The subsystem is torn down with the last guard.
// Release is idempotent.
func (r *Runtime) Release() {
	r.once.Do(func() {
		runtimes.mu.Lock()
		defer runtimes.mu.Unlock()

		sub, ok := runtimes.state[r.backend]
		if !ok {
			return
		}
		sub.live--
		liveRuntimeGuards.Dec()
		if sub.live > 0 {
			return
		}
		delete(runtimes.state, r.backend)
		if sub.owned {
			r.backend.Uninitialize()
		}
		logger().Debug("renga.runtime.uninitialized", "owned", sub.owned)
	})
}

// LiveRuntimes reports how many guards currently hold backend's subsystem.
func LiveRuntimes(backend Backend) int {
	runtimes.mu.Lock()
	defer runtimes.mu.Unlock()
	if sub, ok := runtimes.state[backend]; ok {
		return sub.live
	}
	return 0
}
