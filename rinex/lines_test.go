package rinex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/entrope/srnx/stream"
)

func readAllLines(t *testing.T, body string) []string {
	t.Helper()
	lr := newLineReader(stream.NewBuffered(strings.NewReader(body)))
	var out []string
	for {
		line, err := lr.next()
		if err != nil {
			return out
		}
		out = append(out, string(line))
	}
}

func TestLineReaderLF(t *testing.T) {
	require.Equal(t, []string{"one", "two", "three"}, readAllLines(t, "one\ntwo\nthree\n"))
}

func TestLineReaderCRLF(t *testing.T) {
	require.Equal(t, []string{"one", "two", "three"}, readAllLines(t, "one\r\ntwo\r\nthree\r\n"))
}

func TestLineReaderBareCR(t *testing.T) {
	require.Equal(t, []string{"one", "two", "three"}, readAllLines(t, "one\rtwo\rthree\r"))
}

func TestLineReaderMixedTerminators(t *testing.T) {
	require.Equal(t, []string{"one", "two", "three"}, readAllLines(t, "one\r\ntwo\nthree\r"))
}
