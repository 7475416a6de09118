// SPDX-License-Identifier: GPL-2.0-or-later

// Package shader keeps the compiled programs by name.
package shader

import (
	"sort"

	"github.com/pkg/errors"

	"gorefresh/conlog"
)

type Program interface {
	Use()
}

type Registry struct {
	programs map[string]Program
}

func NewRegistry() *Registry {
	return &Registry{
		programs: make(map[string]Program),
	}
}

func (r *Registry) Register(name string, p Program) error {
	if _, ok := r.programs[name]; ok {
		return errors.Errorf("program %s already registered", name)
	}
	r.programs[name] = p
	return nil
}

// Fetch returns the program registered as name or nil.
func (r *Registry) Fetch(name string) Program {
	p, ok := r.programs[name]
	if !ok {
		conlog.Printf("program %s not found\n", name)
		return nil
	}
	return p
}

func (r *Registry) Names() []string {
	n := make([]string, 0, len(r.programs))
	for k := range r.programs {
		n = append(n, k)
	}
	sort.Strings(n)
	return n
}
