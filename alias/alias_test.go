// SPDX-License-Identifier: GPL-2.0-or-later

package alias

import (
	"testing"

	"gorefresh/cbuf"
	"gorefresh/cmd"
)

func TestAliasRegister(t *testing.T) {
	al := New()
	cmds := cmd.New()
	if err := al.Register(cmds); err != nil {
		t.Fatal(err)
	}
	if err := al.Register(cmds); err == nil {
		t.Errorf("second Register succeeded")
	}
}

func TestExecuteAlias(t *testing.T) {
	al := New()
	cmds := cmd.New()
	if err := al.Register(cmds); err != nil {
		t.Fatal(err)
	}
	cb := cbuf.New()
	var got []string
	p := func(a cmd.Arguments) (bool, error) {
		got = append(got, a.Full())
		return true, nil
	}
	cb.SetCommandExecutors([]cbuf.Efunc{
		cmds.Execute, // execute 'alias'
		al.Executor(cb),
		p,
	})
	cb.AddText("alias bright \"r_fullbright 1; gl_showtris 1\"\n")
	cb.AddText("bright\n")
	cb.AddText("unalias bright\n")
	cb.AddText("bright\n")
	if err := cb.Execute(); err != nil {
		t.Fatal(err)
	}
	want := []string{"r_fullbright 1", "gl_showtris 1", "bright"}
	if len(got) != len(want) {
		t.Fatalf("executed %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if _, ok := al.Get("bright"); ok {
		t.Errorf("alias survived unalias")
	}
}
