// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"testing"

	"gorefresh/cmd"
)

func TestRegisterAndSet(t *testing.T) {
	cv := MustRegister("test_modulate", "1", ARCHIVE)
	if cv.Value() != 1 || !cv.Bool() || !cv.Archive() {
		t.Fatalf("unexpected state after register: %v %v", cv.Value(), cv.Archive())
	}
	if _, err := Register("test_modulate", "2", NONE); err == nil {
		t.Errorf("double register did not fail")
	}
	calls := 0
	cv.SetCallback(func(*Cvar) { calls++ })
	cv.SetValue(2.5)
	if cv.String() != "2.5" || calls != 1 {
		t.Errorf("SetValue(2.5) gave %q with %d callbacks", cv.String(), calls)
	}
	cv.SetValue(3)
	if cv.String() != "3" {
		t.Errorf("SetValue(3) gave %q", cv.String())
	}
	cv.Reset()
	if cv.String() != "1" {
		t.Errorf("Reset gave %q", cv.String())
	}
}

func TestRom(t *testing.T) {
	cv := MustRegister("test_rom", "7", ROM)
	cv.SetByString("8")
	if cv.String() != "7" {
		t.Errorf("rom cvar changed to %q", cv.String())
	}
}

func TestConsoleCommands(t *testing.T) {
	cv := MustRegister("test_novis", "0", NONE)
	for _, line := range []string{"toggle test_novis", "inc test_novis 2"} {
		if ok, err := cmd.Execute(cmd.Parse(line)); !ok || err != nil {
			t.Fatalf("%q: %v %v", line, ok, err)
		}
	}
	if cv.Value() != 3 {
		t.Errorf("after toggle+inc value = %v, want 3", cv.Value())
	}
	if ok, _ := Execute(cmd.Parse("test_novis 0")); !ok || cv.Bool() {
		t.Errorf("direct set failed: %v", cv.String())
	}
	cmd.Execute(cmd.Parse("cycle test_novis 0 1 2"))
	if cv.String() != "1" {
		t.Errorf("cycle gave %q, want 1", cv.String())
	}
	cmd.Execute(cmd.Parse("set test_user 5"))
	if u, ok := Get("test_user"); !ok || !u.UserDefined() || u.Value() != 5 {
		t.Errorf("set did not create a user cvar")
	}
}
