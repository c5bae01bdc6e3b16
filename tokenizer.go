package search

import (
	"regexp"
	"strconv"
	"strings"
)

// connectorTokenRegex extracts the next "word-or-symbol-run" at a cursor,
// used to recognize and/or/not/near keywords and their "&&"/"||" symbolic
// spellings without needing a full pre-tokenization pass. This generalizes
// gobo's tokenize() special-char-vs-bareword-run split (lib/search/parser.go)
// into something that can be peeked without committing to consuming it.
var connectorTokenRegex = regexp.MustCompile(`^([A-Za-z0-9]+|[&|]+)`)

// scanner is a mutable cursor over the input string (spec.md §5: "the
// parser maintains a mutable cursor over the input").
type scanner struct {
	input string
	pos   int
}

func (this *scanner) eof() bool {
	return this.pos >= len(this.input)
}

func (this *scanner) remaining() string {
	return this.input[this.pos:]
}

func (this *scanner) peekByte() (byte, bool) {
	if this.eof() {
		return 0, false
	}
	return this.input[this.pos], true
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func (this *scanner) skipSpace() {
	for !this.eof() && isSpaceByte(this.input[this.pos]) {
		this.pos++
	}
}

// matchAnchored matches re against the remainder of the input and, on
// success, advances the cursor past the match. re must be anchored with
// "^" (the term/field/op grammar regexes are compiled that way; the range
// regex is not and is only used through splitRange).
func (this *scanner) matchAnchored(re *regexp.Regexp) (string, bool) {
	m := re.FindString(this.remaining())
	if m == "" {
		return "", false
	}
	this.pos += len(m)
	return m, true
}

// peekWordOrSymbolRun extracts, without consuming, the next connector-like
// token at the cursor: either a contiguous alphanumeric run (for
// and/or/not/nearN keyword spellings) or a contiguous run of '&'/'|' (for
// "&&"/"||" spellings).
func (this *scanner) peekWordOrSymbolRun() (string, bool) {
	m := connectorTokenRegex.FindString(this.remaining())
	if m == "" {
		return "", false
	}
	return m, true
}

// readQuotedRun consumes an opening delim byte already known to be at the
// cursor, reads until the next occurrence of delim, and returns the
// enclosed content with the cursor left just past the closing delim. It
// mirrors gobo's tokenize() quoted-string handling (lib/search/parser.go),
// generalized to an arbitrary single-byte delimiter.
func (this *scanner) readQuotedRun(delim byte) (string, bool) {
	if this.eof() || this.input[this.pos] != delim {
		return "", false
	}
	start := this.pos + 1
	i := start
	for i < len(this.input) && this.input[i] != delim {
		i++
	}
	if i >= len(this.input) {
		return "", false // unterminated
	}
	content := this.input[start:i]
	this.pos = i + 1
	return content, true
}

// parseProximitySuffix consumes an immediately-following "~N" if present
// (no intervening whitespace), returning the parsed N.
func (this *scanner) parseProximitySuffix() *int {
	if this.eof() || this.input[this.pos] != '~' {
		return nil
	}
	save := this.pos
	this.pos++
	digitsStart := this.pos
	for !this.eof() && this.input[this.pos] >= '0' && this.input[this.pos] <= '9' {
		this.pos++
	}
	if this.pos == digitsStart {
		this.pos = save
		return nil
	}
	n, err := strconv.Atoi(this.input[digitsStart:this.pos])
	if err != nil {
		this.pos = save
		return nil
	}
	return &n
}

// splitRange reports whether term contains exactly one occurrence of the
// configured range separator, splitting it into (lo, hi) with surrounding
// whitespace trimmed (spec.md §4.1: "a.. b" range shorthand).
func splitRange(term string, rangeRe *regexp.Regexp) (lo, hi string, ok bool) {
	loc := rangeRe.FindStringIndex(term)
	if loc == nil {
		return "", "", false
	}
	// reject a second occurrence: "1..2..3" is not a 2-element range.
	rest := term[loc[1]:]
	if rangeRe.FindStringIndex(rest) != nil {
		return "", "", false
	}
	lo = strings.TrimSpace(term[:loc[0]])
	hi = strings.TrimSpace(rest)
	if lo == "" || hi == "" {
		return "", "", false
	}
	return lo, hi, true
}
