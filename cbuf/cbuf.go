// SPDX-License-Identifier: GPL-2.0-or-later

// Package cbuf buffers console text and runs it line by line.
package cbuf

import (
	"log"
	"strings"

	"gorefresh/cmd"
	"gorefresh/conlog"
)

// Efunc tries to run a parsed line and reports whether it knew the command.
type Efunc func(cmd.Arguments) (bool, error)

type CommandBuffer struct {
	buf string
	// a "wait" delays the rest of the buffer to the next Execute
	wait      bool
	executors []Efunc
}

func New(executors ...Efunc) *CommandBuffer {
	return &CommandBuffer{
		executors: executors,
	}
}

func (c *CommandBuffer) SetCommandExecutors(e []Efunc) {
	c.executors = e
}

func (c *CommandBuffer) AddText(text string) {
	c.buf += text
}

// InsertText puts text in front of everything not yet executed.
func (c *CommandBuffer) InsertText(text string) {
	c.buf = text + "\n" + c.buf
}

func nextLine(buf string) (string, string) {
	quote := false
	i := 0
LineLoop:
	for ; i < len(buf); i++ {
		switch buf[i] {
		case '"':
			quote = !quote
		case ';':
			if !quote {
				break LineLoop
			}
		case '\n':
			break LineLoop
		}
	}
	line := buf[:i]
	if i < len(buf) {
		i++
	}
	return line, buf[i:]
}

// Execute runs lines until the buffer is empty or a wait is reached. The
// first failing command stops execution, the remaining text stays buffered.
func (c *CommandBuffer) Execute() error {
	for len(c.buf) != 0 {
		var line string
		line, c.buf = nextLine(c.buf)
		if err := c.execute(line); err != nil {
			return err
		}
		if c.wait {
			c.wait = false
			return nil
		}
	}
	return nil
}

func (c *CommandBuffer) execute(s string) error {
	a := cmd.Parse(s)
	args := a.Args()
	if len(args) == 0 {
		return nil
	}
	name := args[0].String()
	if strings.EqualFold(name, "wait") {
		c.wait = true
		return nil
	}
	for _, e := range c.executors {
		if ok, err := e(a); err != nil {
			return err
		} else if ok {
			return nil
		}
	}
	log.Printf("Unknown command \"%s\"", name)
	conlog.Printf("Unknown command \"%s\"\n", name)
	return nil
}
