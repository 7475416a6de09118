// SPDX-License-Identifier: GPL-2.0-or-later

// Package filesystem resolves game file names against a search path of
// directories and PAK archives. Later entries shadow earlier ones.
package filesystem

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"gorefresh/pack"
)

type File interface {
	io.ReadSeekCloser
	io.ReaderAt
}

type source interface {
	open(name string) (File, error)
	String() string
}

type dirSource string

func (d dirSource) open(name string) (File, error) {
	return os.Open(filepath.Join(string(d), filepath.FromSlash(name)))
}

func (d dirSource) String() string {
	return string(d)
}

type packSource struct {
	p *pack.Pack
}

type closer struct {
	*io.SectionReader
}

func (*closer) Close() error {
	return nil
}

func (p packSource) open(name string) (File, error) {
	f, err := p.p.Open(name)
	if err != nil {
		return nil, err
	}
	return &closer{f}, nil
}

func (p packSource) String() string {
	return p.p.String()
}

var (
	baseDir string
	gameDir string
	// searched from the end
	path  []source
	mutex sync.RWMutex
)

func GameDir() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return gameDir
}

func BaseDir() string {
	mutex.RLock()
	defer mutex.RUnlock()
	return baseDir
}

// UseBaseDir resets the search path to baseq2 inside dir.
func UseBaseDir(dir string) {
	mutex.Lock()
	defer mutex.Unlock()
	closeAll()
	baseDir = dir
	gameDir = filepath.Join(baseDir, "baseq2")
	useDir(gameDir)
}

// UseGameDir adds a mod directory on top of baseq2.
func UseGameDir(game string) {
	mutex.Lock()
	defer mutex.Unlock()
	closeAll()
	root := filepath.Join(baseDir, "baseq2")
	useDir(root)
	gameDir = filepath.Join(baseDir, game)
	useDir(gameDir)
}

// AddPack puts an already opened pack on top of the search path.
func AddPack(p *pack.Pack) {
	mutex.Lock()
	defer mutex.Unlock()
	path = append(path, packSource{p})
}

func closeAll() {
	for _, s := range path {
		if p, ok := s.(packSource); ok {
			p.p.Close()
		}
	}
	path = nil
}

func useDir(dir string) {
	path = append(path, dirSource(dir))
	for i := 0; ; i++ {
		pfp := filepath.Join(dir, fmt.Sprintf("pak%d.pak", i))
		p, err := pack.NewPackReader(pfp)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Printf("Could not mount %s: %v", pfp, err)
			}
			break
		}
		path = append(path, packSource{p})
	}
}

// SearchPath lists the sources in lookup order.
func SearchPath() []string {
	mutex.RLock()
	defer mutex.RUnlock()
	r := make([]string, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		r = append(r, path[i].String())
	}
	return r
}

func Open(name string) (File, error) {
	mutex.RLock()
	defer mutex.RUnlock()
	name = strings.TrimPrefix(filepath.ToSlash(name), "/")
	for i := len(path) - 1; i >= 0; i-- {
		f, err := path[i].open(name)
		if err == nil {
			return f, nil
		}
	}
	return nil, errors.Wrap(os.ErrNotExist, name)
}

func ReadFile(name string) ([]byte, error) {
	file, err := Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func isSep(c uint8) bool {
	return c == '/' || c == '\\'
}

func Ext(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}

func StripExt(path string) string {
	for i := len(path) - 1; i >= 0 && !isSep(path[i]); i-- {
		if path[i] == '.' {
			return path[:i]
		}
	}
	return path
}
