// Package monitor mirrors frames to an on-screen Tek 4010 emulation: an
// xterm running in Tek mode, fed terminal command bytes through a named
// pipe. Purely a convenience while composing scenes, so every failure here
// is swallowed.
package monitor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/ivlev/hpgl2tek/internal/hpgl"
	"github.com/ivlev/hpgl2tek/internal/tek"
)

type Monitor struct {
	dir  string
	pipe *os.File
	cmd  *exec.Cmd
}

// Open spawns the xterm and connects the pipe. The open blocks until the
// cat inside the xterm picks up the reading end.
func Open() (*Monitor, error) {
	dir, err := os.MkdirTemp("", "tekmon")
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "pipe")
	if err := syscall.Mkfifo(path, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("mkfifo: %w", err)
	}

	cmd := exec.Command("/usr/bin/xterm", "-t", "-fg", "green", "-e", "cat "+path)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("xterm: %w", err)
	}

	pipe, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		cmd.Process.Kill()
		os.RemoveAll(dir)
		return nil, err
	}
	return &Monitor{dir: dir, pipe: pipe, cmd: cmd}, nil
}

// ShowFrame clears the emulated screen and draws the strokes. Encoding or
// write failures only mean a blank monitor, never a failed render.
func (m *Monitor) ShowFrame(strokes hpgl.Strokes) {
	data, err := tek.ToTek4010(strokes)
	if err != nil {
		return
	}
	// ESC FF очищает экран в Tek-режиме xterm
	m.pipe.Write(append([]byte{0x1b, 0x0c}, data...))
}

func (m *Monitor) Close() {
	m.pipe.Close()
	if m.cmd.Process != nil {
		m.cmd.Process.Kill()
	}
	m.cmd.Wait()
	os.RemoveAll(m.dir)
}
