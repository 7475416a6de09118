// SPDX-License-Identifier: GPL-2.0-or-later

package crc

import (
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
	}{
		{"", 0xffff},
		{"123456789", 0x29b1},
	}
	for _, tc := range tests {
		if got := Checksum([]byte(tc.in)); got != tc.want {
			t.Errorf("Checksum(%q) = %#04x, want %#04x", tc.in, got, tc.want)
		}
	}
}

func TestUpdateIncremental(t *testing.T) {
	all := Checksum([]byte("e1m1 base1"))
	part := Update(Update(Initial, []byte("e1m1")), []byte(" base1"))
	if all != part {
		t.Errorf("incremental %#04x != %#04x", part, all)
	}
}
