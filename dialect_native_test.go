package search

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func nativeTree(t *testing.T) *Tree {
	reg, err := NewFieldRegistry([]*FieldDescriptor{NewFieldDescriptor("color", FieldChar)})
	assert.NoError(t, err)
	return newTree(reg, DialectNative, DialectOpts{})
}

func TestNativeStringifySimple(t *testing.T) {
	tree := nativeTree(t)
	tree.AddAndClause(Clause{Field: "color", Op: OpExact, Value: "red"})
	s, err := tree.StringErr()
	assert.NoError(t, err)
	assert.Equal(t, "+color=red", s)
}

func TestNativeStringifyAllThreeBuckets(t *testing.T) {
	tree := nativeTree(t)
	tree.AddAndClause(Clause{Field: "a", Op: OpContains, Value: "1"})
	tree.AddOrClause(Clause{Field: "b", Op: OpContains, Value: "2"})
	tree.AddNotClause(Clause{Field: "c", Op: OpContains, Value: "3"})

	s, err := tree.StringErr()
	assert.NoError(t, err)
	assert.Equal(t, "+a:1 b:2 -c:3", s)
}

func TestNativeStringifyGroup(t *testing.T) {
	sub := newTree(nil, DialectNative, DialectOpts{})
	sub.AddOrClause(Clause{Field: "color", Op: OpExact, Value: "red"})
	sub.AddOrClause(Clause{Field: "color", Op: OpExact, Value: "green"})

	tree := nativeTree(t)
	tree.AddAndClause(Clause{Op: OpGroup, Sub: sub})

	s, err := tree.StringErr()
	assert.NoError(t, err)
	assert.Equal(t, "+(color=red color=green)", s)
}

func TestNativeStringifyPhraseWithProximity(t *testing.T) {
	prox := 5
	tree := nativeTree(t)
	tree.AddAndClause(Clause{Op: OpContains, Value: "foo bar", Quote: QuoteDouble, Proximity: &prox})

	s, err := tree.StringErr()
	assert.NoError(t, err)
	assert.Equal(t, `+"foo bar"~5`, s)
}

func TestNativeStringifyRange(t *testing.T) {
	tree := nativeTree(t)
	tree.AddAndClause(Clause{Field: "date", Op: OpRange, Range: &RangeValue{Lo: "1", Hi: "10"}})

	s, err := tree.StringErr()
	assert.NoError(t, err)
	assert.Equal(t, "+date..1..10", s)
}

func TestNativeStringifyEmptyTree(t *testing.T) {
	tree := nativeTree(t)
	s, err := tree.StringErr()
	assert.NoError(t, err)
	assert.Equal(t, "", s)
}
