package search

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestBoolOpDefaultBucket(t *testing.T) {
	assert.Equal(t, BucketMust, BoolOpAnd.Bucket())
	assert.Equal(t, BucketShould, BoolOpOr.Bucket())
}

func TestCompileGrammarDefaults(t *testing.T) {
	g, err := compileGrammar(Config{})
	assert.NoError(t, err)

	assert.True(t, g.and.MatchString("and"))
	assert.True(t, g.and.MatchString("AND"))
	assert.True(t, g.and.MatchString("&&"))
	assert.False(t, g.and.MatchString("andx"))

	assert.True(t, g.or.MatchString("or"))
	assert.True(t, g.or.MatchString("||"))

	assert.True(t, g.not.MatchString("not"))
	assert.True(t, g.not.MatchString("!"))

	m := g.near.FindStringSubmatch("near5")
	assert.Equal(t, []string{"near5", "5"}, m)
}

func TestCompileGrammarRangeRegexIsUnanchored(t *testing.T) {
	g, err := compileGrammar(Config{})
	assert.NoError(t, err)

	lo, hi, ok := splitRange("1..10", g.rang)
	assert.True(t, ok)
	assert.Equal(t, "1", lo)
	assert.Equal(t, "10", hi)
}

func TestCompileGrammarRejectsBadOverride(t *testing.T) {
	_, err := compileGrammar(Config{TermRegex: "(unclosed"})
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestStripAnchors(t *testing.T) {
	assert.Equal(t, "abc", stripAnchors("^abc$"))
	assert.Equal(t, "abc", stripAnchors("abc"))
}

func TestPick(t *testing.T) {
	assert.Equal(t, "override", pick("override", "fallback"))
	assert.Equal(t, "fallback", pick("", "fallback"))
}
