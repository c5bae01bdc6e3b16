package search

import (
	"regexp"
	"strings"
)

// Default grammar knobs (spec.md §4.1). Each is overridable per-Config.
const (
	defaultTermRegex        = `^[^\s()]+`
	defaultFieldRegex       = `^[.\w]+`
	defaultOpRegex          = `^(~\d+|==|<=|>=|!=|=~|!~|[:=<>~#])`
	defaultOpNoFieldRegex   = `^(=~|!~|[~:#])`
	defaultAndRegex         = `(?i)^(and|&&)$`
	defaultOrRegex          = `(?i)^(or|\|\|)$`
	defaultNotRegex         = `(?i)^(not|!)$`
	defaultNearRegex        = `(?i)^near(\d+)$`
	defaultRangeRegex       = `\.\.`
	defaultPhraseDelim      = `"`
)

// TermExpander is the C10 hook: given a bareword term, return the list of
// replacement terms (which may or may not include the original). Fires
// before alias expansion (spec.md §4.6).
type TermExpander func(term string) []string

// BoolOpDefault selects the implicit sign a clause starts with before any
// prefix sign or connector adjusts it (spec.md §6 "default_boolop"). The
// zero value, BoolOpAnd, is spec.md's documented default ("+"); this avoids
// the ambiguity a bare Bucket field would have, since BucketShould's own
// wire value is "" and would be indistinguishable from "unset".
type BoolOpDefault int

const (
	BoolOpAnd BoolOpDefault = iota
	BoolOpOr
)

// Bucket returns the starting bucket this default implies.
func (this BoolOpDefault) Bucket() Bucket {
	if this == BoolOpOr {
		return BucketShould
	}
	return BucketMust
}

// Config is the C3 "parser configuration": every recognized option from
// spec.md §6, gathered into one struct built up field-by-field the way
// gobo's CreateQuery builds a *searchQuery before using it.
type Config struct {
	// DefaultBoolOp is the initial sign for each clause: BoolOpAnd (the
	// default, implicit AND) or BoolOpOr (implicit OR).
	DefaultBoolOp BoolOpDefault

	// DefaultField is injected onto a leaf that has no explicit field.
	DefaultField string
	// DefaultOp is the operator injected alongside DefaultField. Defaults
	// to OpContains (":").
	DefaultOp Op

	// Fields is the field registry, built from a list of descriptors. A nil
	// or empty Fields means "no registry configured" — alias
	// expansion/validation (C9) is then skipped entirely (spec.md §4.3:
	// "Runs only when a field registry is configured"). Under DialectSWISH,
	// NewParser always registers the implicit swishdefault field, so a
	// registry exists and expansion runs even when Fields is empty.
	Fields []*FieldDescriptor

	Dialect     Dialect
	DialectOpts DialectOpts

	// CroakOnError: false (the default) makes Parse return a *ParseError
	// rather than panicking; true is only meaningful to callers that want
	// to treat a returned error as fatal themselves. The parser itself
	// never panics either way — this flag is surfaced for API parity with
	// spec.md §6 and is otherwise a no-op inside this package.
	CroakOnError bool

	// Sloppy enables the lenient recovery mode of spec.md §4.2.
	Sloppy bool

	TermExpander TermExpander

	// Regex overrides. A leading "^" and trailing "$" on an override are
	// stripped and compileGrammar re-applies anchoring per class: Term/Field/
	// Op classes match at the start of the remaining input, and/or/not/near
	// match a whole word, and the range separator is unanchored. An override
	// that fails to compile makes NewParser return a *ConfigError.
	TermRegex      string
	FieldRegex     string
	OpRegex        string
	OpNoFieldRegex string
	AndRegex       string
	OrRegex        string
	NotRegex       string
	NearRegex      string
	RangeRegex     string

	// PhraseDelim overrides the phrase delimiter (default `"`).
	PhraseDelim string
}

// compiledGrammar holds every pre-compiled regex a Parser needs, built once
// at NewParser time (spec.md §9: "Expose the grammar via pre-compiled regex
// objects").
type compiledGrammar struct {
	term      *regexp.Regexp
	field     *regexp.Regexp
	op        *regexp.Regexp
	opNoField *regexp.Regexp
	and       *regexp.Regexp
	or        *regexp.Regexp
	not       *regexp.Regexp
	near      *regexp.Regexp
	rang      *regexp.Regexp
	phrase    string
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// stripAnchors removes a leading "^" and/or trailing "$" so a pattern can
// be safely re-wrapped below. Without this, a caller-supplied override that
// already anchors its own pattern would end up double-anchored.
func stripAnchors(src string) string {
	src = strings.TrimPrefix(src, "^")
	src = strings.TrimSuffix(src, "$")
	return src
}

// compileGrammar builds every grammar regex anchored the way its use site
// requires: cursor-matching classes (term/field/op) are always anchored at
// the start only, so they match at the parser's current position rather
// than wherever in the remaining input they happen to occur; keyword
// classes (and/or/not/near) are always anchored at both ends, since they
// are always tested against an already-isolated word token.
func compileGrammar(cfg Config) (*compiledGrammar, error) {
	g := &compiledGrammar{}

	type kind int
	const (
		kindPrefix kind = iota
		kindWhole
		kindFree
	)

	specs := []struct {
		name string
		src  string
		kind kind
		dst  **regexp.Regexp
	}{
		{"term_regex", pick(cfg.TermRegex, defaultTermRegex), kindPrefix, &g.term},
		{"field_regex", pick(cfg.FieldRegex, defaultFieldRegex), kindPrefix, &g.field},
		{"op_regex", pick(cfg.OpRegex, defaultOpRegex), kindPrefix, &g.op},
		{"op_nofield_regex", pick(cfg.OpNoFieldRegex, defaultOpNoFieldRegex), kindPrefix, &g.opNoField},
		{"and_regex", pick(cfg.AndRegex, defaultAndRegex), kindWhole, &g.and},
		{"or_regex", pick(cfg.OrRegex, defaultOrRegex), kindWhole, &g.or},
		{"not_regex", pick(cfg.NotRegex, defaultNotRegex), kindWhole, &g.not},
		{"near_regex", pick(cfg.NearRegex, defaultNearRegex), kindWhole, &g.near},
		{"range_regex", pick(cfg.RangeRegex, defaultRangeRegex), kindFree, &g.rang},
	}

	for _, s := range specs {
		body := stripAnchors(s.src)
		var wrapped string
		switch s.kind {
		case kindWhole:
			wrapped = "^(?:" + body + ")$"
		case kindFree:
			wrapped = body
		default:
			wrapped = "^(?:" + body + ")"
		}
		re, err := regexp.Compile(wrapped)
		if err != nil {
			return nil, &ConfigError{Detail: "bad " + s.name + ": " + err.Error()}
		}
		*s.dst = re
	}

	g.phrase = pick(cfg.PhraseDelim, defaultPhraseDelim)
	return g, nil
}
