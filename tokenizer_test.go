package search

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestScannerSkipSpace(t *testing.T) {
	s := &scanner{input: "   abc"}
	s.skipSpace()
	assert.Equal(t, "abc", s.remaining())
}

func TestScannerEOF(t *testing.T) {
	s := &scanner{input: "a"}
	assert.False(t, s.eof())
	s.pos = 1
	assert.True(t, s.eof())
}

func TestScannerReadQuotedRun(t *testing.T) {
	s := &scanner{input: `"hello world" rest`}
	content, ok := s.readQuotedRun('"')
	assert.True(t, ok)
	assert.Equal(t, "hello world", content)
	assert.Equal(t, " rest", s.remaining())
}

func TestScannerReadQuotedRunUnterminated(t *testing.T) {
	s := &scanner{input: `"hello`}
	_, ok := s.readQuotedRun('"')
	assert.False(t, ok)
}

func TestScannerParseProximitySuffix(t *testing.T) {
	s := &scanner{input: "~5 rest"}
	n := s.parseProximitySuffix()
	assert.NotNil(t, n)
	assert.Equal(t, 5, *n)
	assert.Equal(t, " rest", s.remaining())
}

func TestScannerParseProximitySuffixAbsent(t *testing.T) {
	s := &scanner{input: "rest"}
	n := s.parseProximitySuffix()
	assert.Nil(t, n)
	assert.Equal(t, "rest", s.remaining())
}

func TestSplitRange(t *testing.T) {
	g, err := compileGrammar(Config{})
	assert.NoError(t, err)

	lo, hi, ok := splitRange("1..10", g.rang)
	assert.True(t, ok)
	assert.Equal(t, "1", lo)
	assert.Equal(t, "10", hi)

	_, _, ok = splitRange("1..2..3", g.rang)
	assert.False(t, ok)

	_, _, ok = splitRange("noRangeHere", g.rang)
	assert.False(t, ok)
}

func TestPeekWordOrSymbolRun(t *testing.T) {
	s := &scanner{input: "and foo"}
	word, ok := s.peekWordOrSymbolRun()
	assert.True(t, ok)
	assert.Equal(t, "and", word)
	assert.Equal(t, "and foo", s.remaining()) // peek must not consume
}
