// Package sandbox executes user-supplied strategy code against a
// read-only candle view and the indicator library, inside an embedded
// ECMAScript interpreter. Failures of any kind (syntax errors, a
// missing entry point, runtime throws, interrupts) are converted into
// diagnostic strings; the sandbox never lets an exception or panic
// escape to the caller.
package sandbox

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/quantfold/helix/internal/core"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single strategy execution unless overridden.
const DefaultTimeout = 2 * time.Second

// entryPoint is the function user code must define.
const entryPoint = "strategy"

// Result is the outcome of one execution. Signals always has exactly
// one entry per input candle; on any failure it is all-None and Errors
// explains why.
type Result struct {
	Signals []core.Action `json:"signals"`
	Errors  []string      `json:"errors"`
	Logs    []string      `json:"logs"`
}

// Executor runs custom strategies. It is stateless between executions;
// every call builds a fresh interpreter so user code can never observe
// or poison a previous run.
type Executor struct {
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithTimeout overrides the wall-clock execution bound. Zero disables
// the watchdog.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// WithLogger attaches a logger for execution diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// NewExecutor creates an Executor with the default timeout.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute compiles and runs userCode against the candles. User code
// must define strategy(data, indicators) and return an array of
// "BUY"/"SELL"/"HOLD" entries; anything else per element coerces to
// None, and the array is truncated or padded to the candle count.
func (e *Executor) Execute(userCode string, candles []core.Candle) (res Result) {
	res.Signals = make([]core.Action, len(candles))

	// User code runs arbitrary scripts; a panic from the interpreter
	// must degrade to a diagnostic, not take down the host.
	defer func() {
		if r := recover(); r != nil {
			res.Signals = make([]core.Action, len(candles))
			res.Errors = append(res.Errors, fmt.Sprintf("internal execution fault: %v", r))
			e.logger.Error("sandbox panic recovered", zap.Any("panic", r))
		}
	}()

	prog, err := goja.Compile(entryPoint+".js", userCode, false)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	vm := goja.New()

	logs := &res.Logs
	console := vm.NewObject()
	_ = console.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		*logs = append(*logs, strings.Join(parts, " "))
		return goja.Undefined()
	})
	_ = vm.Set("console", console)

	if e.timeout > 0 {
		timer := time.AfterFunc(e.timeout, func() {
			vm.Interrupt("execution timed out")
		})
		defer timer.Stop()
	}

	if _, err := vm.RunProgram(prog); err != nil {
		res.Errors = append(res.Errors, runtimeMessage(err))
		return res
	}

	fn, ok := goja.AssertFunction(vm.Get(entryPoint))
	if !ok {
		res.Errors = append(res.Errors, fmt.Sprintf("%s function is not defined", entryPoint))
		return res
	}

	data := newCandleView(vm, candles)
	indicators := newIndicatorAPI(vm, candles)

	value, err := fn(goja.Undefined(), data, indicators)
	if err != nil {
		res.Errors = append(res.Errors, runtimeMessage(err))
		return res
	}

	signals, verr := coerceSignals(value.Export(), len(candles))
	if verr != "" {
		res.Errors = append(res.Errors, verr)
	}
	res.Signals = signals
	return res
}

// coerceSignals validates the exported return value. A non-array
// reports a validation error and an all-None series; elements that are
// not one of the three action strings become None; the series is sized
// to exactly n.
func coerceSignals(exported any, n int) ([]core.Action, string) {
	signals := make([]core.Action, n)

	raw, ok := exported.([]any)
	if !ok {
		return signals, fmt.Sprintf("%s must return an array of signals, got %T", entryPoint, exported)
	}

	for i := 0; i < n && i < len(raw); i++ {
		if s, ok := raw[i].(string); ok {
			switch core.Action(s) {
			case core.ActionBuy, core.ActionSell, core.ActionHold:
				signals[i] = core.Action(s)
			}
		}
	}
	return signals, ""
}

// runtimeMessage unwraps an interpreter error into the message a user
// would expect: the thrown Error's message where available, the
// interrupt reason for timeouts, the raw error otherwise.
func runtimeMessage(err error) string {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return fmt.Sprintf("%v", interrupted.Value())
	}

	var ex *goja.Exception
	if errors.As(err, &ex) {
		val := ex.Value()
		if obj, ok := val.(*goja.Object); ok {
			if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
				return msg.String()
			}
		}
		return val.String()
	}
	return err.Error()
}
