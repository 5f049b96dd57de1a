package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferedAdvanceFillsWindow(t *testing.T) {
	s := NewBuffered(strings.NewReader("0123456789"))
	require.NoError(t, s.Advance(4, 0))
	require.Equal(t, 4, s.Size())
	require.Equal(t, []byte("0123"), s.Buffer()[:4])
	for _, b := range s.Buffer()[4:] {
		require.Equal(t, byte(0), b)
	}
}

func TestBufferedAdvanceStepsForward(t *testing.T) {
	s := NewBuffered(strings.NewReader("abcdefgh"))
	require.NoError(t, s.Advance(4, 0))
	require.Equal(t, []byte("abcd"), s.Buffer()[:4])

	require.NoError(t, s.Advance(4, 2))
	require.Equal(t, []byte("cdef"), s.Buffer()[:4])
}

func TestBufferedAdvanceReportsEOF(t *testing.T) {
	s := NewBuffered(strings.NewReader("ab"))
	require.NoError(t, s.Advance(10, 0))
	require.Equal(t, 2, s.Size())

	require.NoError(t, s.Advance(10, 2))
	require.Equal(t, 0, s.Size())
	for _, b := range s.Buffer() {
		require.Equal(t, byte(0), b)
	}
}

func TestBufferedAdvanceRejectsOversizedStep(t *testing.T) {
	s := NewBuffered(strings.NewReader("abcd"))
	require.NoError(t, s.Advance(4, 0))
	require.Error(t, s.Advance(4, 100))
}
