// SPDX-License-Identifier: GPL-2.0-or-later

// Package lightstyle animates the light style patterns ("aazzaa") into
// per frame brightness values.
package lightstyle

import (
	"github.com/pkg/errors"

	"gorefresh/math/vec"
)

const (
	MaxLightStyles = 256
	// 'm' is normal brightness
	normal = 'm' - 'a'
)

// Value is the brightness of one style for the current frame.
type Value struct {
	RGB   vec.Vec3
	White float32 // RGB[0]+RGB[1]+RGB[2]
}

func newValue(v float32) Value {
	return Value{
		RGB:   vec.Vec3{v, v, v},
		White: 3 * v,
	}
}

type style struct {
	pattern string
	values  []float32
	average float32
	peak    float32
}

// Flat selects a steady brightness for every style.
type Flat int

const (
	FlatOff Flat = iota
	FlatAverage
	FlatPeak
)

type Table struct {
	styles [MaxLightStyles]style
	values [MaxLightStyles]Value
}

func NewTable() *Table {
	t := &Table{}
	t.Clear()
	return t
}

// Clear resets all styles to normal brightness.
func (t *Table) Clear() {
	for i := range t.styles {
		t.styles[i] = style{average: 1, peak: 1}
		t.values[i] = newValue(1)
	}
}

func avgPeak(d []float32) (float32, float32) {
	if len(d) == 0 {
		return 1, 1
	}
	var s, m float32
	for _, v := range d {
		s += v
		if v > m {
			m = v
		}
	}
	return s / float32(len(d)), m
}

// Set installs pattern for style idx. Each byte 'a'..'z' is one tenth of a
// second, 'a' is dark and 'm' normal.
func (t *Table) Set(idx int, pattern string) error {
	if idx < 0 || idx >= MaxLightStyles {
		return errors.Errorf("light style %d out of range", idx)
	}
	s := &t.styles[idx]
	s.pattern = pattern
	s.values = make([]float32, len(pattern))
	for i := 0; i < len(pattern); i++ {
		s.values[i] = float32(int(pattern[i])-'a') / normal
	}
	s.average, s.peak = avgPeak(s.values)
	return nil
}

func (t *Table) Pattern(idx int) string {
	return t.styles[idx].pattern
}

// Animate computes the values for time (in seconds).
func (t *Table) Animate(time float64, flat Flat) {
	ofs := int(time * 10)
	for i := range t.styles {
		s := &t.styles[i]
		switch {
		case len(s.values) == 0:
			t.values[i] = newValue(1)
		case flat == FlatAverage:
			t.values[i] = newValue(s.average)
		case flat == FlatPeak:
			t.values[i] = newValue(s.peak)
		default:
			t.values[i] = newValue(s.values[ofs%len(s.values)])
		}
	}
}

// Values returns the values of the last Animate call. The slice is owned by
// the table.
func (t *Table) Values() []Value {
	return t.values[:]
}

// Unlit returns a table of values used while building lightmaps so that
// lightmaps do not have to be regenerated the first time they are seen.
func Unlit() []Value {
	v := make([]Value, MaxLightStyles)
	for i := range v {
		v[i] = Default()
	}
	return v
}

// Default is the value of a style without pattern.
func Default() Value {
	return newValue(1)
}

// Standard are the patterns the game sets up for every level.
var Standard = map[int]string{
	0:  "m",
	1:  "mmnmmommommnonmmonqnmmo",
	2:  "abcdefghijklmnopqrstuvwxyzyxwvutsrqponmlkjihgfedcba",
	3:  "mmmmmaaaaammmmmaaaaaabcdefgabcdefg",
	4:  "mamamamamama",
	5:  "jklmnopqrstuvwxyzyxwvutsrqponmlkj",
	6:  "nmonqnmomnmomomno",
	7:  "mmmaaaabcdefgmmmmaaaammmaamm",
	8:  "mmmaaammmaaammmabcdefaaaammmmabcdefmmmaaaa",
	9:  "aaaaaaaazzzzzzzz",
	10: "mmamammmmammamamaaamammma",
	11: "abcdefghijklmnopqrrqponmlkjihgfedcba",
	// switchable lights start off
	63: "a",
}

// LoadStandard clears the table and installs the Standard patterns.
func (t *Table) LoadStandard() {
	t.Clear()
	for i, p := range Standard {
		t.Set(i, p)
	}
}
