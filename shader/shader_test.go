// SPDX-License-Identifier: GPL-2.0-or-later

package shader

import (
	"fmt"
	"log"
	"testing"

	"gorefresh/conlog"
)

type fakeProgram struct {
	used int
}

func (p *fakeProgram) Use() {
	p.used++
}

func TestRegistry(t *testing.T) {
	var logged []string
	conlog.SetPrintf(func(f string, v ...interface{}) {
		logged = append(logged, fmt.Sprintf(f, v...))
	})
	defer conlog.SetPrintf(log.Printf)

	r := NewRegistry()
	p := &fakeProgram{}
	if err := r.Register(Brush, p); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Brush, p); err == nil {
		t.Errorf("duplicate Register succeeded")
	}
	if got := r.Fetch(Brush); got != p {
		t.Errorf("Fetch(%q) = %v", Brush, got)
	}
	if got := r.Fetch("sky"); got != nil {
		t.Errorf("Fetch(sky) = %v, want nil", got)
	}
	if len(logged) != 1 {
		t.Errorf("logged %v", logged)
	}
	if n := r.Names(); len(n) != 1 || n[0] != Brush {
		t.Errorf("Names = %v", n)
	}
}
