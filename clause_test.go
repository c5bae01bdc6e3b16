package search

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestClauseIsGroup(t *testing.T) {
	assert.True(t, Clause{Op: OpGroup}.IsGroup())
	assert.False(t, Clause{Op: OpExact}.IsGroup())
}

func TestClauseIsRange(t *testing.T) {
	assert.True(t, Clause{Op: OpRange}.IsRange())
	assert.True(t, Clause{Op: OpNotRange}.IsRange())
	assert.False(t, Clause{Op: OpExact}.IsRange())
}

func TestClauseCloneIsDeep(t *testing.T) {
	prox := 5
	orig := Clause{
		Field:     "color",
		Op:        OpExact,
		Value:     "red",
		Range:     &RangeValue{Lo: "1", Hi: "2"},
		Proximity: &prox,
	}

	cloned := orig.clone()
	cloned.Range.Lo = "99"
	*cloned.Proximity = 42

	assert.Equal(t, "1", orig.Range.Lo)
	assert.Equal(t, 5, *orig.Proximity)
}

func TestClauseCloneRecursesIntoSub(t *testing.T) {
	sub := newTree(nil, DialectNative, DialectOpts{})
	sub.append(BucketMust, Clause{Field: "a", Op: OpExact, Value: "b"})

	group := Clause{Op: OpGroup, Sub: sub}
	cloned := group.clone()
	cloned.Sub.buckets[BucketMust][0] = Clause{Field: "changed", Op: OpExact, Value: "x"}

	assert.Equal(t, "a", sub.buckets[BucketMust][0].Field)
}
