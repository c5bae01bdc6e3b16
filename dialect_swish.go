package search

import (
	"strconv"
	"strings"
)

// swishDefaultField is the implicit field NewParser adds to a SWISH parser's
// registry whenever the caller's Fields do not already include a field of
// this name. Field-less SWISH leaves render against it.
const swishDefaultField = "swishdefault"

// stringifySWISH implements the C8 SWISH serializer (spec.md §4.5):
// AND/OR/AND bucket joins (each "-" clause rendered in its own NOT form),
// unquoted field names, numeric range expansion,
// and the "!~" -> NOT name=\"value*\"" rewrite.
func stringifySWISH(tree *Tree) (string, error) {
	return stringifyTree(tree, func(c Clause, prefix string) (string, error) {
		return swishClause(tree, c, prefix)
	}, swishConnector, " AND ")
}

func swishConnector(b Bucket) string {
	switch b {
	case BucketMust:
		return " AND "
	case BucketMustNot:
		return " AND "
	default:
		return " OR "
	}
}

func swishClause(tree *Tree, c Clause, prefix string) (string, error) {
	negate := prefix == string(BucketMustNot)

	if c.IsGroup() {
		sub, err := stringifySWISH(c.Sub)
		if err != nil {
			return "", err
		}
		// "a single-child group collapses its parentheses."
		if swishIsSingleChild(c.Sub) {
			if negate {
				return "NOT " + sub, nil
			}
			return sub, nil
		}
		if negate {
			return "NOT (" + sub + ")", nil
		}
		return "(" + sub + ")", nil
	}

	if c.IsRange() {
		return swishRange(tree, c, negate)
	}

	field := c.Field
	if field == "" {
		field = swishDefaultField
	}
	desc := tree.fields.Lookup(field)
	numeric := desc != nil && desc.Type.IsNumeric()

	value := c.Value

	op := c.Op
	switch op {
	case OpContains:
		op = OpExact
	}

	if op == OpNotFuzzy {
		// "A '!~' leaf renders as NOT name=\"value*\", ensuring the
		// wildcard is present."
		v := value
		if !strings.Contains(v, internalWildcard) {
			v = v + internalWildcard
		}
		return "NOT " + field + "=" + swishQuote(v), nil
	}

	if numeric {
		value = strings.ReplaceAll(value, internalWildcard, "")
	}
	rendered := value
	if !numeric {
		rendered = swishQuote(value)
	}

	if negate {
		// a "-"-prefixed leaf renders field=(NOT value), not NOT field=value
		// (spec.md §8's `-color:red (...)` -> `... AND color=(NOT "red")`).
		return field + "=(NOT " + rendered + ")", nil
	}

	return swishPrefix(op) + field + swishOpSymbol(op) + rendered, nil
}

// swishIsSingleChild reports whether sub carries exactly one clause across
// all of its buckets.
func swishIsSingleChild(sub *Tree) bool {
	if sub == nil {
		return false
	}
	count := 0
	for _, b := range bucketOrder {
		count += len(sub.buckets[b])
	}
	return count == 1
}

func swishPrefix(op Op) string {
	if op == OpNotEquals || op == OpNotFuzzy {
		return "NOT "
	}
	return ""
}

func swishOpSymbol(op Op) string {
	switch op {
	case OpNotEquals:
		return "="
	default:
		return string(OpExact)
	}
}

func swishQuote(value string) string {
	return `"` + value + `"`
}

// swishRange implements spec.md §4.5's range expansion: "Range operators
// .. / !.. expand numeric ranges as (v1 OR v2 OR ...); non-numeric or
// non-2-element ranges are a hard error."
func swishRange(tree *Tree, c Clause, negate bool) (string, error) {
	if c.Range == nil {
		return "", &DialectError{Dialect: DialectSWISH, Detail: "range clause missing bounds"}
	}
	desc := tree.fields.Lookup(c.Field)
	if desc == nil || !desc.Type.IsNumeric() {
		return "", &DialectError{Dialect: DialectSWISH, Detail: "range operator requires a numeric field: " + c.Field}
	}

	lo, err := strconv.Atoi(c.Range.Lo)
	if err != nil {
		return "", &DialectError{Dialect: DialectSWISH, Detail: "non-numeric range bound: " + c.Range.Lo}
	}
	hi, err := strconv.Atoi(c.Range.Hi)
	if err != nil {
		return "", &DialectError{Dialect: DialectSWISH, Detail: "non-numeric range bound: " + c.Range.Hi}
	}
	if hi < lo {
		return "", &DialectError{Dialect: DialectSWISH, Detail: "range hi < lo"}
	}

	var parts []string
	for v := lo; v <= hi; v++ {
		parts = append(parts, c.Field+"="+strconv.Itoa(v))
	}
	joined := "(" + strings.Join(parts, " OR ") + ")"
	negated := c.Op == OpNotRange
	if negated != negate {
		return "NOT " + joined, nil
	}
	return joined, nil
}
