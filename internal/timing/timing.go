// Package timing provides a monotonic clock reading and optional duration
// diagnostics for sensor operations.
package timing

import (
	"errors"
	"fmt"

	"i8kctl/internal/logger"
)

var ErrClockUnavailable = errors.New("monotonic clock unavailable")

var nowFn = now

// Now returns the monotonic clock in seconds.
func Now() (float64, error) {
	return nowFn()
}

// Tracer emits "<label> took N seconds" diagnostics when verbose is enabled.
// A nil *Tracer is valid and never logs.
type Tracer struct {
	verbose bool
	log     logger.Logger
}

func NewTracer(verbose bool, log logger.Logger) *Tracer {
	if log == nil {
		log = logger.Nop()
	}
	return &Tracer{verbose: verbose, log: log}
}

func (t *Tracer) Verbose() bool {
	return t != nil && t.verbose
}

// LogDuration reports the time elapsed since start. Clock failures drop the
// measurement.
func (t *Tracer) LogDuration(label string, start float64) {
	if !t.Verbose() {
		return
	}
	end, err := Now()
	if err != nil {
		return
	}
	t.log.Debugw(fmt.Sprintf("%s took %f seconds", label, end-start))
}

// Track starts a measurement and returns the function that ends it.
//
//	defer tr.Track("read fan 1")()
func (t *Tracer) Track(label string) func() {
	if !t.Verbose() {
		return func() {}
	}
	start, err := Now()
	if err != nil {
		return func() {}
	}
	return func() { t.LogDuration(label, start) }
}
