// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"strconv"
	"strings"

	"gorefresh/math/vec"
)

type Entity struct {
	properties map[string]string
}

// NewEntity parses the "key" "value" lines of a single entity block.
func NewEntity(p []byte) *Entity {
	e := &Entity{properties: make(map[string]string)}
	for _, l := range bytes.Split(p, []byte("\n")) {
		var fields []string
		for len(fields) < 2 {
			q := bytes.IndexByte(l, '"')
			if q == -1 {
				break
			}
			l = l[q+1:]
			q = bytes.IndexByte(l, '"')
			if q == -1 {
				break
			}
			fields = append(fields, string(l[:q]))
			l = l[q+1:]
		}
		if len(fields) == 2 {
			e.properties[fields[0]] = fields[1]
		}
	}
	return e
}

func (e *Entity) Property(name string) (string, bool) {
	v, ok := e.properties[name]
	return v, ok
}

func (e *Entity) Name() (string, bool) {
	v, ok := e.properties["classname"]
	return v, ok
}

// Vector parses a property of the form "x y z".
func (e *Entity) Vector(name string) (vec.Vec3, bool) {
	var r vec.Vec3
	v, ok := e.properties[name]
	if !ok {
		return r, false
	}
	f := strings.Fields(v)
	if len(f) != 3 {
		return r, false
	}
	for i := range r {
		x, err := strconv.ParseFloat(f[i], 32)
		if err != nil {
			return vec.Vec3{}, false
		}
		r[i] = float32(x)
	}
	return r, true
}

func (e *Entity) Float(name string) (float32, bool) {
	v, ok := e.properties[name]
	if !ok {
		return 0, false
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil {
		return 0, false
	}
	return float32(x), true
}

// ParseEntities splits the entity lump into its top level blocks.
func ParseEntities(data []byte) []*Entity {
	es := []*Entity{}
	depth := 0
	quoted := false
	start := -1
	for i, b := range data {
		switch {
		case b == '"':
			quoted = !quoted
		case quoted:
		case b == '{':
			if depth == 0 {
				start = i
			}
			depth++
		case b == '}':
			if depth == 0 {
				// bad input
				return nil
			}
			depth--
			if depth == 0 {
				es = append(es, NewEntity(data[start:i+1]))
			}
		}
	}
	return es
}

// FindEntity returns the first entity with the given classname.
func (m *Model) FindEntity(classname string) *Entity {
	for _, e := range m.Entities {
		if n, ok := e.Name(); ok && n == classname {
			return e
		}
	}
	return nil
}
