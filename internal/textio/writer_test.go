package textio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixWriter(t *testing.T) {
	for _, tc := range []struct {
		name   string
		skip   bool
		writes []string
		want   string
	}{
		{"lines", false, []string{"a\nb\n"}, "> a\n> b\n"},
		{"split writes", false, []string{"a", "b\nc", "\n"}, "> ab\n> c\n"},
		{"partial tail", false, []string{"a\nb"}, "> a\n> b"},
		{"skip first", true, []string{"a\nb\n"}, "a\n> b\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			p := PrefixWriter("> ", &out)
			p.Skip = tc.skip
			for _, s := range tc.writes {
				io.WriteString(p, s)
			}
			assert.NoError(t, p.Close())
			assert.Equal(t, tc.want, out.String())
		})
	}
}

func TestPrefixWriter_holdsPartialLines(t *testing.T) {
	var out bytes.Buffer
	p := PrefixWriter("  ", &out)
	io.WriteString(p, "one\ntw")
	assert.Equal(t, "  one\n", out.String())
	io.WriteString(p, "o\n")
	assert.Equal(t, "  one\n  two\n", out.String())
}

type failWriter struct{ after int }

var errFull = errors.New("full")

func (fw *failWriter) Write(p []byte) (int, error) {
	if fw.after <= 0 {
		return 0, errFull
	}
	fw.after--
	return len(p), nil
}

func TestErrWriter(t *testing.T) {
	ew := &ErrWriter{Writer: &failWriter{after: 1}}
	ew.WriteString("ok")
	assert.NoError(t, ew.Err)
	ew.Printf("%v", 1)
	assert.Equal(t, errFull, ew.Err)
	n, err := ew.Write([]byte("dropped"))
	assert.Zero(t, n)
	assert.Equal(t, errFull, err)
}

func TestWriteLines(t *testing.T) {
	var out bytes.Buffer
	items := []string{"a", "b", "c"}
	i := 0
	err := WriteLines(&out, func(w io.Writer, _ func()) bool {
		if i >= len(items) {
			return false
		}
		fmt.Fprintf(w, "%v. %v\n", i+1, items[i])
		i++
		return true
	})
	assert.NoError(t, err)
	assert.Equal(t, "1. a\n2. b\n3. c\n", out.String())
}

func TestWriteLines_stopsOnError(t *testing.T) {
	calls := 0
	err := WriteLines(&failWriter{after: 1}, func(w io.Writer, _ func()) bool {
		calls++
		io.WriteString(w, strings.Repeat("x", calls)+"\n")
		return calls < 10
	})
	assert.Equal(t, errFull, err)
	assert.Equal(t, 2, calls)
}
