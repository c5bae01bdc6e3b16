package search

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestExpandDefaultFieldInjection(t *testing.T) {
	reg, err := NewFieldRegistry([]*FieldDescriptor{NewFieldDescriptor("title", FieldChar)})
	assert.NoError(t, err)

	tree := newTree(reg, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Op: OpContains, Value: "hello"})

	cfg := Config{DefaultField: "title", DefaultOp: OpExact}
	out, err := expandTree(tree, reg, cfg, "hello")
	assert.NoError(t, err)
	assert.Equal(t, []Clause{{Field: "title", Op: OpExact, Value: "hello"}}, out.Bucket(BucketMust))
}

func TestExpandUnknownFieldIsError(t *testing.T) {
	reg, err := NewFieldRegistry([]*FieldDescriptor{NewFieldDescriptor("title", FieldChar)})
	assert.NoError(t, err)

	tree := newTree(reg, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Field: "bogus", Op: OpExact, Value: "x"})

	_, err = expandTree(tree, reg, Config{}, "bogus:x")
	assert.Error(t, err)
	var fieldErr *FieldError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "bogus:x", fieldErr.Input)
}

func TestExpandUnknownFieldSloppySkipsError(t *testing.T) {
	reg, err := NewFieldRegistry([]*FieldDescriptor{NewFieldDescriptor("title", FieldChar)})
	assert.NoError(t, err)

	tree := newTree(reg, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Field: "bogus", Op: OpExact, Value: "x"})

	out, err := expandTree(tree, reg, Config{Sloppy: true}, "bogus:x")
	assert.NoError(t, err)
	assert.Equal(t, []Clause{{Field: "bogus", Op: OpExact, Value: "x"}}, out.Bucket(BucketMust))
}

func TestExpandOneToOneAliasRename(t *testing.T) {
	name := NewFieldDescriptor("name", FieldChar)
	alias := NewFieldDescriptor("n", FieldChar)
	alias.AliasFor = []string{"name"}
	reg, err := NewFieldRegistry([]*FieldDescriptor{name, alias})
	assert.NoError(t, err)

	tree := newTree(reg, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Field: "n", Op: OpExact, Value: "bob"})

	out, err := expandTree(tree, reg, Config{}, "n:bob")
	assert.NoError(t, err)
	assert.Equal(t, []Clause{{Field: "name", Op: OpExact, Value: "bob"}}, out.Bucket(BucketMust))
}

func TestExpandFanOutAliasProducesOrGroup(t *testing.T) {
	title := NewFieldDescriptor("title", FieldChar)
	body := NewFieldDescriptor("body", FieldChar)
	alias := NewFieldDescriptor("text", FieldChar)
	alias.AliasFor = []string{"title", "body"}
	reg, err := NewFieldRegistry([]*FieldDescriptor{title, body, alias})
	assert.NoError(t, err)

	tree := newTree(reg, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Field: "text", Op: OpContains, Value: "hello"})

	out, err := expandTree(tree, reg, Config{}, "text:hello")
	assert.NoError(t, err)
	must := out.Bucket(BucketMust)
	assert.Len(t, must, 1)
	assert.True(t, must[0].IsGroup())
	assert.Equal(t, []Clause{
		{Field: "title", Op: OpContains, Value: "hello"},
		{Field: "body", Op: OpContains, Value: "hello"},
	}, must[0].Sub.Bucket(BucketShould))
}

func TestExpandValidatorRejection(t *testing.T) {
	year := NewFieldDescriptor("year", FieldInt)
	year.Validator = func(v string) error {
		if v != "2024" {
			return errors.New("not a valid year")
		}
		return nil
	}
	reg, err := NewFieldRegistry([]*FieldDescriptor{year})
	assert.NoError(t, err)

	tree := newTree(reg, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Field: "year", Op: OpExact, Value: "abc"})

	_, err = expandTree(tree, reg, Config{}, "year=abc")
	assert.Error(t, err)
	var fieldErr *FieldError
	assert.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "abc", fieldErr.Value0)
}

// spec.md §8's `field1=(green or blue)` with `field1` aliasing to
// `[field2, mydefault]`: the whole subquery is cloned once per alias, so
// the result groups by alias — (field2=green OR field2=blue) next to
// (mydefault=green OR mydefault=blue) — not by value.
func TestExpandFanOutOverGroupIsGroupedByAlias(t *testing.T) {
	field2 := NewFieldDescriptor("field2", FieldChar)
	mydefault := NewFieldDescriptor("mydefault", FieldChar)
	alias := NewFieldDescriptor("field1", FieldChar)
	alias.AliasFor = []string{"field2", "mydefault"}
	reg, err := NewFieldRegistry([]*FieldDescriptor{field2, mydefault, alias})
	assert.NoError(t, err)

	sub := newTree(reg, DialectNative, DialectOpts{})
	sub.AddOrClause(Clause{Field: "field1", Op: OpExact, Value: "green"})
	sub.AddOrClause(Clause{Field: "field1", Op: OpExact, Value: "blue"})

	tree := newTree(reg, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Op: OpGroup, Sub: sub})

	out, err := expandTree(tree, reg, Config{}, "field1=(green or blue)")
	assert.NoError(t, err)

	must := out.Bucket(BucketMust)
	assert.Len(t, must, 1)
	assert.True(t, must[0].IsGroup())

	byAlias := must[0].Sub.Bucket(BucketShould)
	assert.Len(t, byAlias, 2)
	assert.True(t, byAlias[0].IsGroup())
	assert.Equal(t, []Clause{
		{Field: "field2", Op: OpExact, Value: "green"},
		{Field: "field2", Op: OpExact, Value: "blue"},
	}, byAlias[0].Sub.Bucket(BucketShould))
	assert.True(t, byAlias[1].IsGroup())
	assert.Equal(t, []Clause{
		{Field: "mydefault", Op: OpExact, Value: "green"},
		{Field: "mydefault", Op: OpExact, Value: "blue"},
	}, byAlias[1].Sub.Bucket(BucketShould))

	s, err := out.StringErr()
	assert.NoError(t, err)
	assert.Equal(t, "+((field2=green field2=blue) (mydefault=green mydefault=blue))", s)
}

func TestExpandRecursesIntoGroups(t *testing.T) {
	title := NewFieldDescriptor("title", FieldChar)
	reg, err := NewFieldRegistry([]*FieldDescriptor{title})
	assert.NoError(t, err)

	sub := newTree(reg, DialectNative, DialectOpts{})
	sub.AddOrClause(Clause{Field: "title", Op: OpExact, Value: "a"})

	tree := newTree(reg, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Op: OpGroup, Sub: sub})

	out, err := expandTree(tree, reg, Config{}, "(title=a)")
	assert.NoError(t, err)
	must := out.Bucket(BucketMust)
	assert.Len(t, must, 1)
	assert.Equal(t, []Clause{{Field: "title", Op: OpExact, Value: "a"}}, must[0].Sub.Bucket(BucketShould))
}

func TestExpandTermExpanderRewritesLeafIntoOrGroup(t *testing.T) {
	tree := newTree(nil, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Op: OpContains, Value: "color"})

	expander := func(term string) []string {
		if term == "color" {
			return []string{"color", "colour"}
		}
		return []string{term}
	}

	out := expandTermsInTree(tree, expander)
	must := out.Bucket(BucketMust)
	assert.Len(t, must, 1)
	assert.True(t, must[0].IsGroup())
	assert.Equal(t, []Clause{
		{Op: OpContains, Value: "color"},
		{Op: OpContains, Value: "colour"},
	}, must[0].Sub.Bucket(BucketShould))
}

func TestExpandTermExpanderLeavesUnchangedTermAlone(t *testing.T) {
	tree := newTree(nil, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Op: OpContains, Value: "plain"})

	expander := func(term string) []string { return []string{term} }

	out := expandTermsInTree(tree, expander)
	assert.Equal(t, []Clause{{Op: OpContains, Value: "plain"}}, out.Bucket(BucketMust))
}

func TestExpandTermExpanderSkipsRanges(t *testing.T) {
	tree := newTree(nil, DialectNative, DialectOpts{})
	tree.AddAndClause(Clause{Field: "date", Op: OpRange, Range: &RangeValue{Lo: "1", Hi: "10"}})

	expander := func(term string) []string { return []string{"should", "not", "apply"} }

	out := expandTermsInTree(tree, expander)
	assert.Equal(t, []Clause{{Field: "date", Op: OpRange, Range: &RangeValue{Lo: "1", Hi: "10"}}}, out.Bucket(BucketMust))
}
