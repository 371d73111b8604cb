package scripting

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// LogEntry is a single log message emitted by a game script.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// VM wraps a goja runtime with sandbox restrictions for custom game
// definitions. Scripts declare a `game` object and optional curve hooks;
// they never get network, filesystem, or eval access.
type VM struct {
	runtime *goja.Runtime
	mu      sync.Mutex

	logs    []LogEntry
	logsMu  sync.Mutex
	maxLogs int
}

const (
	scriptInitTimeout = 2 * time.Second
	hookCallTimeout   = 250 * time.Millisecond
)

// NewVM creates a sandboxed runtime with the script globals injected.
func NewVM() *VM {
	vm := &VM{
		runtime: goja.New(),
		maxLogs: 200,
	}
	// Scripts see the JSON wire names, not Go field names.
	vm.runtime.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	vm.injectGlobals()
	return vm
}

// injectGlobals registers log and console.log, and blanks out every global
// that would reach outside the sandbox.
func (vm *VM) injectGlobals() {
	vm.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		msg := strings.Join(parts, " ")

		vm.logsMu.Lock()
		if len(vm.logs) >= vm.maxLogs {
			vm.logs = vm.logs[1:]
		}
		vm.logs = append(vm.logs, LogEntry{Time: time.Now(), Message: msg})
		vm.logsMu.Unlock()

		return goja.Undefined()
	})

	console := vm.runtime.NewObject()
	console.Set("log", vm.runtime.Get("log"))
	vm.runtime.Set("console", console)

	// Math stays available; everything that escapes the sandbox does not.
	vm.runtime.Set("require", goja.Undefined())
	vm.runtime.Set("fetch", goja.Undefined())
	vm.runtime.Set("XMLHttpRequest", goja.Undefined())
	vm.runtime.Set("eval", goja.Undefined())
	vm.runtime.Set("Function", goja.Undefined())
}

// Execute runs script source once, registering the game object and hooks.
func (vm *VM) Execute(source string) error {
	return vm.runWithTimeout(scriptInitTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		_, err := vm.runtime.RunString(source)
		if err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// callHook invokes a script-defined function with a single integer argument
// and returns its integer result.
func (vm *VM) callHook(name string, arg int) (int, error) {
	var out int64
	err := vm.runWithTimeout(hookCallTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()

		fn := vm.runtime.Get(name)
		if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
			return fmt.Errorf("%s() is not defined", name)
		}
		callable, ok := goja.AssertFunction(fn)
		if !ok {
			return fmt.Errorf("%s is not a function", name)
		}
		result, err := callable(goja.Undefined(), vm.runtime.ToValue(arg))
		if err != nil {
			return fmt.Errorf("%s() error: %w", name, err)
		}
		out = result.ToInteger()
		return nil
	})
	return int(out), err
}

// hasFunc reports whether the script defined a callable with the given name.
func (vm *VM) hasFunc(name string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	fn := vm.runtime.Get(name)
	if fn == nil || goja.IsUndefined(fn) || goja.IsNull(fn) {
		return false
	}
	_, ok := goja.AssertFunction(fn)
	return ok
}

// Logs returns a copy of the script's log buffer.
func (vm *VM) Logs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

func (vm *VM) runWithTimeout(timeout time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		// Interrupt a runaway script execution.
		vm.runtime.Interrupt("script execution timeout")
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("script timed out: %w", err)
			}
			return fmt.Errorf("script timed out")
		case <-time.After(200 * time.Millisecond):
			return fmt.Errorf("script timed out")
		}
	}
}
