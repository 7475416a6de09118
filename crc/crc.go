// SPDX-License-Identifier: GPL-2.0-or-later

// Package crc implements the 16bit CRC (CCITT, as used by XMODEM) that
// checksums levels and colours placeholder textures.
package crc

const (
	ccittFalse = 0x1021
	Initial    = 0xffff
)

type Table struct {
	entries [256]uint16
}

var ccittFalseTable = makeTable(ccittFalse)

func makeTable(poly uint16) *Table {
	t := &Table{}
	for i := uint16(0); i < 256; i++ {
		crc := i << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		t.entries[i] = crc
	}
	return t
}

// Update continues crc over p.
func Update(crc uint16, p []byte) uint16 {
	for _, v := range p {
		crc = ccittFalseTable.entries[byte(crc>>8)^v] ^ (crc << 8)
	}
	return crc
}

// Checksum returns the CRC of p starting from Initial.
func Checksum(p []byte) uint16 {
	return Update(Initial, p)
}
