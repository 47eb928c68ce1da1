// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen1d prints temperature samples to the terminal as a one line
// heat bar drawn with ANSI color codes.
//
// When the output is not a terminal, plain text lines are printed instead.
package screen1d

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Opts represents the options available for this display.
type Opts struct {
	// X is the width of the bar in cells.
	X int
	// Min and Max are the temperatures mapped to the ends of the bar.
	Min, Max float64
	Palette  *ansi256.Palette
	// W defaults to stdout. Plain is detected from stdout in that case.
	W     io.Writer
	Plain bool

	_ struct{}
}

// Dev is a heat bar that outputs to the console.
type Dev struct {
	w        io.Writer
	l        int
	min, max float64
	palette  ansi256.Palette
	plain    bool

	mu  sync.Mutex
	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:       opts.W,
		l:       opts.X,
		min:     opts.Min,
		max:     opts.Max,
		palette: *p,
		plain:   opts.Plain,
	}
	if d.w == nil {
		fd := os.Stdout.Fd()
		d.w = colorable.NewColorableStdout()
		d.plain = !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
	}
	if d.l <= 0 {
		d.l = 20
	}
	if d.max <= d.min {
		d.max = d.min + 1
	}
	return d
}

func (d *Dev) String() string {
	return "Screen1D"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	if d.plain {
		return nil
	}
	_, err := io.WriteString(d.w, "\033[0m")
	return err
}

// Show prints one line for a sample of the sensor named label.
//
// It is safe for concurrent use.
func (d *Dev) Show(label string, temp float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.Reset()
	if d.plain {
		fmt.Fprintf(&d.buf, "%s %.2f°C\n", label, temp)
		_, err := d.buf.WriteTo(d.w)
		return err
	}
	n := d.cells(temp)
	block := d.palette.Block(Heat(temp, d.min, d.max))
	_, _ = d.buf.WriteString("\033[0m")
	_, _ = d.buf.WriteString(label)
	_ = d.buf.WriteByte(' ')
	for i := 0; i < n; i++ {
		_, _ = d.buf.WriteString(block)
	}
	_, _ = d.buf.WriteString("\033[0m")
	_, _ = d.buf.WriteString(strings.Repeat(" ", d.l-n))
	fmt.Fprintf(&d.buf, " %.2f°C\n", temp)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// cells returns how many cells of the bar temp fills.
func (d *Dev) cells(temp float64) int {
	f := (temp - d.min) / (d.max - d.min)
	n := int(math.Round(f * float64(d.l)))
	if n < 0 {
		return 0
	}
	if n > d.l {
		return d.l
	}
	return n
}

// Heat maps temp onto a blue to red gradient over [lo, hi]. Values outside
// the range are clamped.
func Heat(temp, lo, hi float64) color.NRGBA {
	f := 0.
	if hi > lo {
		f = (temp - lo) / (hi - lo)
	}
	f = math.Max(0, math.Min(1, f))
	return color.NRGBA{R: byte(math.Round(255 * f)), B: byte(math.Round(255 * (1 - f))), A: 255}
}

var _ fmt.Stringer = &Dev{}
