// Package textio provides the buffered and line-prefixing writers used to
// print documents and debugging dumps.
package textio

import (
	"bytes"
	"fmt"
	"io"
)

// FlushPolicy returns how many leading bytes of a buffer are ready to be
// written out; zero holds everything back.
type FlushPolicy func(b []byte) int

// FlushLines flushes through the last complete line.
func FlushLines(b []byte) int {
	if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// Buffer accumulates writes in memory, passing them on to To whenever its
// Policy allows, or when explicitly flushed.
type Buffer struct {
	bytes.Buffer
	To     io.Writer
	Policy FlushPolicy
}

// Flush writes out everything buffered.
func (buf *Buffer) Flush() error {
	_, err := buf.WriteTo(buf.To)
	return err
}

// MaybeFlush writes out as much as Policy allows, defaulting to FlushLines.
func (buf *Buffer) MaybeFlush() error {
	policy := buf.Policy
	if policy == nil {
		policy = FlushLines
	}
	b := buf.Bytes()
	if n := policy(b); n > 0 {
		m, err := buf.To.Write(b[:n])
		buf.Next(m)
		return err
	}
	return nil
}

// ErrWriter wraps a writer, retaining its first error and dropping all writes
// after it, so that callers may write freely and check once at the end.
type ErrWriter struct {
	io.Writer
	Err error
}

// Write passes p through unless a prior write failed.
func (ew *ErrWriter) Write(p []byte) (n int, err error) {
	if ew.Err == nil {
		n, ew.Err = ew.Writer.Write(p)
	}
	return n, ew.Err
}

// WriteString writes s unless a prior write failed.
func (ew *ErrWriter) WriteString(s string) (n int, err error) {
	if ew.Err == nil {
		n, ew.Err = io.WriteString(ew.Writer, s)
	}
	return n, ew.Err
}

// Printf formats to the writer unless a prior write failed.
func (ew *ErrWriter) Printf(format string, args ...interface{}) {
	if ew.Err == nil {
		fmt.Fprintf(ew, format, args...)
	}
}

// Prefixer writes Prefix at the start of every line written through it.
type Prefixer struct {
	Prefix string

	// Skip suppresses the prefix on the first line, for output that
	// continues a line already started by the caller.
	Skip bool

	buf Buffer
}

// PrefixWriter returns a Prefixer writing to w. Callers should Close it to
// flush any partial final line.
func PrefixWriter(prefix string, w io.Writer) *Prefixer {
	p := &Prefixer{Prefix: prefix}
	p.buf.To = w
	return p
}

// Close flushes any buffered partial line.
func (p *Prefixer) Close() error { return p.buf.Flush() }

func (p *Prefixer) Write(b []byte) (n int, err error) {
	for len(b) > 0 {
		if at := p.buf.Len(); at == 0 || p.buf.Bytes()[at-1] == '\n' {
			if p.Skip {
				p.Skip = false
			} else {
				p.buf.WriteString(p.Prefix)
			}
		}
		line := b
		if i := bytes.IndexByte(b, '\n'); i >= 0 {
			line, b = b[:i+1], b[i+1:]
		} else {
			b = nil
		}
		m, _ := p.buf.Write(line)
		n += m
	}
	return n, p.buf.MaybeFlush()
}

// WriteLines calls next with a buffered writer until it returns false or a
// write fails, flushing complete lines after each call. The flush argument
// passed to next forces out any partial line.
func WriteLines(to io.Writer, next func(w io.Writer, flush func()) bool) error {
	ew, ok := to.(*ErrWriter)
	if !ok {
		ew = &ErrWriter{Writer: to}
	}
	buf := Buffer{To: ew}
	for ew.Err == nil && next(&buf, func() { buf.Flush() }) {
		buf.MaybeFlush()
	}
	buf.Flush()
	return ew.Err
}
