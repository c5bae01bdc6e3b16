package search

import "strings"

// Dialect is the tagged variant selecting which serializer a Tree uses.
// spec.md §9 explicitly calls for "a tagged variant (Native | SQL | SWISH)
// over a shared AST" rather than an inheritance tree; gobo's own
// printTokenTree dispatches the same way, via a type switch on node kind
// (switch tn := node.(type)), so a tag switch here follows the teacher's
// own dispatch idiom rather than inventing a new one.
type Dialect int

const (
	DialectNative Dialect = iota
	DialectSQL
	DialectSWISH
)

func (this Dialect) String() string {
	switch this {
	case DialectNative:
		return "Native"
	case DialectSQL:
		return "SQL"
	case DialectSWISH:
		return "SWISH"
	default:
		return "Unknown"
	}
}

// ParseDialect maps a dialect id string (as accepted by the "dialect" /
// "query_class" config key, spec.md §6) to a Dialect. Matching is
// case-insensitive.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "native", "":
		return DialectNative, nil
	case "sql":
		return DialectSQL, nil
	case "swish":
		return DialectSWISH, nil
	default:
		return DialectNative, &ConfigError{Detail: "unknown dialect: " + name}
	}
}

// DialectOpts is the "query_class_opts" bag (spec.md §6): dialect-specific
// knobs passed through verbatim. Fields not meaningful to a given dialect
// are simply ignored by it.
type DialectOpts struct {
	// Like is the SQL LIKE-family keyword used for fuzzy (~) clauses.
	// Defaults to "ILIKE" (spec.md §4.5).
	Like string

	// QuoteFields, if true, quotes field names in SQL output. Off by
	// default; spec.md §4.5 only mandates quoting values, not fields.
	QuoteFields bool

	// Wildcard is the dialect's wildcard glyph. Defaults to "%" for SQL and
	// "*" for SWISH/Native; internally clauses always use '*' (spec.md §9
	// "Wildcards... Internally normalize to a single glyph").
	Wildcard string

	// Fuzzify, if true, appends a trailing wildcard to bare term values
	// that don't already carry one (spec.md §4.5, SQL fuzzify).
	Fuzzify bool

	// Fuzzify2, if true, surrounds the value with wildcards on both sides
	// instead of appending one (spec.md §4.5, SQL fuzzify2). Fuzzify2 takes
	// precedence over Fuzzify when both are set.
	Fuzzify2 bool

	// CroakOnError mirrors the top-level strictness flag (spec.md §6). No
	// serializer reads it: SQL and SWISH return their DialectError from
	// StringErr whatever its value.
	CroakOnError bool
}

const internalWildcard = "*"

func (this DialectOpts) likeKeyword() string {
	if this.Like != "" {
		return this.Like
	}
	return "ILIKE"
}

func notLike(like string) string {
	return "NOT " + like
}

// stringifyTree renders a Tree's three buckets under the shared skeleton
// all three dialects agree on (spec.md §4.5 intro): iterate "+", "", "-" in
// order, join each bucket's clauses with a connector, then join the three
// bucket strings with the dialect's top-level joiner.
func stringifyTree(tree *Tree, clauseFn func(c Clause, prefix string) (string, error), connector func(b Bucket) string, topJoin string) (string, error) {
	var parts []string
	for _, b := range bucketOrder {
		clauses := tree.buckets[b]
		if len(clauses) == 0 {
			continue
		}
		prefix := string(b)
		var rendered []string
		for _, c := range clauses {
			s, err := clauseFn(c, prefix)
			if err != nil {
				return "", err
			}
			if s != "" {
				rendered = append(rendered, s)
			}
		}
		if len(rendered) == 0 {
			continue
		}
		parts = append(parts, strings.Join(rendered, connector(b)))
	}
	return strings.Join(parts, topJoin), nil
}
