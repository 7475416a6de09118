// SPDX-License-Identifier: GPL-2.0-or-later

// Package alias implements console aliases: a name expanding to command
// text.
package alias

import (
	"sort"
	"strings"

	"gorefresh/cbuf"
	"gorefresh/cmd"
	"gorefresh/conlog"
)

type Aliases struct {
	aliases map[string]string
}

func New() *Aliases {
	return &Aliases{
		aliases: make(map[string]string),
	}
}

func (al *Aliases) Register(c *cmd.Commands) error {
	if err := c.Add("alias", al.alias); err != nil {
		return err
	}
	if err := c.Add("unalias", al.unalias); err != nil {
		return err
	}
	return c.Add("unaliasall", al.unaliasAll)
}

func (al *Aliases) alias(a cmd.Arguments) error {
	args := a.Args()[1:]
	switch len(args) {
	case 0:
		al.list()
	case 1:
		if v, ok := al.aliases[args[0].String()]; ok {
			conlog.Printf("  %s: %s", args[0].String(), v)
		}
	default:
		name := args[0].String()
		parts := make([]string, 0, len(args)-1)
		for _, p := range args[1:] {
			parts = append(parts, p.String())
		}
		// each alias value ends with a '\n'
		al.aliases[name] = strings.TrimSpace(strings.Join(parts, " ")) + "\n"
	}
	return nil
}

func (al *Aliases) list() {
	if len(al.aliases) == 0 {
		conlog.SafePrintf("no alias commands found\n")
		return
	}
	names := make([]string, 0, len(al.aliases))
	for k := range al.aliases {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		conlog.SafePrintf("  %s: %s", k, al.aliases[k])
	}
	conlog.SafePrintf("%v alias command(s)\n", len(al.aliases))
}

func (al *Aliases) unalias(a cmd.Arguments) error {
	args := a.Args()[1:]
	if len(args) != 1 {
		conlog.Printf("unalias <name> : delete alias\n")
		return nil
	}
	name := args[0].String()
	if _, ok := al.aliases[name]; !ok {
		conlog.Printf("No alias named %s\n", name)
		return nil
	}
	delete(al.aliases, name)
	return nil
}

func (al *Aliases) unaliasAll(_ cmd.Arguments) error {
	clear(al.aliases)
	return nil
}

func (al *Aliases) Get(name string) (string, bool) {
	a, ok := al.aliases[name]
	return a, ok
}

// Executor expands aliases into cb.
func (al *Aliases) Executor(cb *cbuf.CommandBuffer) cbuf.Efunc {
	return func(a cmd.Arguments) (bool, error) {
		args := a.Args()
		if len(args) == 0 {
			return false, nil
		}
		if v, ok := al.Get(args[0].String()); ok {
			cb.InsertText(v)
			return true, nil
		}
		return false, nil
	}
}
