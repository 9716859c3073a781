// Package report prints the all-sensors overview shown when i8kctl runs
// without a sensor selection.
package report

import (
	"fmt"
	"io"

	"i8kctl/internal/logger"
	"i8kctl/internal/sensor"
)

type Reader interface {
	Read(kind sensor.Kind, index int) (int, error)
}

// Overview prints every fan state, fan speed and temperature channel that can
// be read. Each sensor is read on its own; a failure is logged at debug level
// and the next sensor is tried. Only write errors on w are returned.
func Overview(w io.Writer, r Reader, log logger.Logger, fans, temps int) error {
	if log == nil {
		log = logger.Nop()
	}
	p := &printer{w: w}

	for i := 0; i < fans; i++ {
		if state, err := r.Read(sensor.Fan, i); err == nil {
			p.printf("Fan %d state: %d\n", i+1, state)
		} else {
			log.Debugw("skipping sensor", "kind", sensor.Fan, "number", i+1, "err", err)
		}

		if rpm, err := r.Read(sensor.Tachometer, i); err == nil {
			p.printf("Fan %d speed: %d RPM\n", i+1, rpm)
		} else {
			log.Debugw("skipping sensor", "kind", sensor.Tachometer, "number", i+1, "err", err)
		}
	}

	for i := 0; i < temps; i++ {
		if temp, err := r.Read(sensor.Temperature, i); err == nil {
			p.printf("Temperature %d: %d °C\n", i+1, temp)
		} else {
			log.Debugw("skipping sensor", "kind", sensor.Temperature, "number", i+1, "err", err)
		}
	}

	return p.err
}

// printer keeps the first write error and drops later output.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
