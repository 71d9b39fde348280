// Package printertest provides in-memory printer ports for tests.
package printertest

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"bonnetje/internal/domain"
)

// ErrWrite is returned by a Port told to fail.
var ErrWrite = errors.New("printertest: write failed")

// Port records every write as one command.
type Port struct {
	mu     sync.Mutex
	writes [][]byte
	closed int

	// FailAt makes the write with this 1-based index fail. Zero never fails.
	FailAt int
}

func (p *Port) Write(_ context.Context, b []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed > 0 {
		return errors.New("printertest: write on closed port")
	}
	if p.FailAt > 0 && len(p.writes)+1 == p.FailAt {
		p.writes = append(p.writes, nil)
		return ErrWrite
	}
	p.writes = append(p.writes, bytes.Clone(b))
	return nil
}

func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

// Writes returns the recorded commands; a failed write is recorded as nil.
func (p *Port) Writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.writes))
	copy(out, p.writes)
	return out
}

// Bytes returns everything successfully written, concatenated.
func (p *Port) Bytes() []byte {
	return bytes.Join(p.Writes(), nil)
}

// Closed reports how many times Close was called.
func (p *Port) Closed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Opener hands out a fresh Port per OpenPort call.
type Opener struct {
	mu    sync.Mutex
	ports []*Port

	// OpenErr, when set, is returned by OpenPort instead of a port.
	OpenErr error
	// FailAt is copied into every Port handed out.
	FailAt int
}

func (o *Opener) OpenPort(ctx context.Context) (domain.Port, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.OpenErr != nil {
		return nil, o.OpenErr
	}
	p := &Port{FailAt: o.FailAt}
	o.ports = append(o.ports, p)
	return p, nil
}

// Ports returns every port opened so far, oldest first.
func (o *Opener) Ports() []*Port {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*Port, len(o.ports))
	copy(out, o.ports)
	return out
}

var (
	_ domain.Port       = (*Port)(nil)
	_ domain.PortOpener = (*Opener)(nil)
)
