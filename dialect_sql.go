package search

import (
	"sort"
	"strings"
)

// stringifySQL implements the C7 SQL serializer (spec.md §4.5): AND/OR/AND
// bucket joins, with per-clause operator normalization, quoting, and
// fuzzification driven by the field registry and DialectOpts.
func stringifySQL(tree *Tree) (string, error) {
	return stringifyTree(tree, func(c Clause, prefix string) (string, error) {
		return sqlClause(tree, c, prefix)
	}, sqlConnector, " AND ")
}

func sqlConnector(b Bucket) string {
	switch b {
	case BucketMust:
		return " AND "
	case BucketMustNot:
		return " AND "
	default:
		return " OR "
	}
}

func sqlClause(tree *Tree, c Clause, prefix string) (string, error) {
	if c.IsGroup() {
		sub, err := stringifySQL(c.Sub)
		if err != nil {
			return "", err
		}
		if prefix == string(BucketMustNot) {
			return "NOT (" + sub + ")", nil
		}
		return "(" + sub + ")", nil
	}

	if c.IsRange() {
		return sqlRange(tree, c, prefix)
	}

	negate := prefix == string(BucketMustNot)

	if c.Field == "" {
		return sqlNoField(tree, c, negate)
	}

	desc := tree.fields.Lookup(c.Field)
	if desc != nil && desc.Callback != nil {
		return desc.Callback(c.Field, c.Op, c.Value), nil
	}

	return sqlRenderOne(tree, c.Field, desc, c.Op, c.Value, negate)
}

// sqlNoField renders a field-less leaf by expanding it to every field in the
// registry, in name order, OR-joined (AND-joined when negated). It does not
// consult Config.DefaultField; that field is injected earlier, during alias
// expansion, when a registry is configured. With no registry the leaf is
// rendered with an empty field name.
func sqlNoField(tree *Tree, c Clause, negate bool) (string, error) {
	names := tree.fields.FieldNames()
	sort.Strings(names)
	if len(names) == 0 {
		return sqlRenderOne(tree, "", nil, c.Op, c.Value, negate)
	}

	var parts []string
	for _, name := range names {
		desc := tree.fields.Lookup(name)
		if desc != nil && desc.Callback != nil {
			parts = append(parts, desc.Callback(name, c.Op, c.Value))
			continue
		}
		s, err := sqlRenderOne(tree, name, desc, c.Op, c.Value, negate)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	joiner := " OR "
	if negate {
		joiner = " AND "
	}
	return "(" + strings.Join(parts, joiner) + ")", nil
}

// sqlRenderOne renders a single "<field> <op> <value>" fragment per
// spec.md §4.5's SQL rules.
func sqlRenderOne(tree *Tree, field string, desc *FieldDescriptor, op Op, value string, negate bool) (string, error) {
	numeric := desc != nil && desc.Type.IsNumeric()

	value = strings.ReplaceAll(value, internalWildcard, sqlWildcard(tree.opts))

	if tree.opts.Fuzzify2 {
		w := sqlWildcard(tree.opts)
		if !strings.Contains(value, w) {
			value = w + value + w
		}
	} else if tree.opts.Fuzzify {
		w := sqlWildcard(tree.opts)
		if !strings.Contains(value, w) {
			value = value + w
		}
	}

	hasWildcard := strings.Contains(value, sqlWildcard(tree.opts))

	switch op {
	case OpContains:
		op = OpExact
	}
	if hasWildcard {
		if op == OpNotFuzzy {
			// already fuzzy-negated
		} else {
			op = OpFuzzy
		}
	}
	if negate {
		op = negateOp(op)
	}

	fieldStr := field
	if tree.opts.QuoteFields && field != "" {
		fieldStr = `"` + field + `"`
	}

	if numeric {
		value = strings.ReplaceAll(value, sqlWildcard(tree.opts), "")
	}

	var opStr string
	switch op {
	case OpFuzzy, OpNotFuzzy:
		// spec.md §4.5: fuzzy_op/fuzzy_not_op default to ILIKE/NOT ILIKE for
		// text fields, >= / !>= for numeric ones.
		if numeric {
			opStr = ">="
			if op == OpNotFuzzy {
				opStr = "!>="
			}
		} else {
			opStr = tree.opts.likeKeyword()
			if op == OpNotFuzzy {
				opStr = notLike(opStr)
			}
		}
	default:
		opStr = string(sqlOpSymbol(op))
	}

	valStr := sqlQuoteValue(value, numeric)
	return fieldStr + " " + opStr + " " + valStr, nil
}

func sqlWildcard(opts DialectOpts) string {
	if opts.Wildcard != "" {
		return opts.Wildcard
	}
	return "%"
}

func sqlQuoteValue(value string, numeric bool) string {
	if numeric {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func sqlOpSymbol(op Op) Op {
	switch op {
	case OpExact, OpEquals:
		return OpExact
	default:
		return op
	}
}

func negateOp(op Op) Op {
	switch op {
	case OpEquals, OpExact:
		return OpNotEquals
	case OpNotEquals:
		return OpEquals
	case OpLess:
		return OpGreaterEq
	case OpLessEq:
		return OpGreater
	case OpGreater:
		return OpLessEq
	case OpGreaterEq:
		return OpLess
	case OpFuzzy:
		return OpNotFuzzy
	case OpNotFuzzy:
		return OpFuzzy
	default:
		return op
	}
}

// sqlRange renders a range leaf as a SQL BETWEEN fragment, negated to NOT
// BETWEEN under the "-" bucket or an OpNotRange clause.
func sqlRange(tree *Tree, c Clause, prefix string) (string, error) {
	if c.Range == nil || c.Range.Lo == "" || c.Range.Hi == "" {
		return "", &DialectError{Dialect: DialectSQL, Detail: "range clause missing lo/hi"}
	}
	desc := tree.fields.Lookup(c.Field)
	numeric := desc != nil && desc.Type.IsNumeric()

	lo, hi := c.Range.Lo, c.Range.Hi
	if !numeric {
		lo = sqlQuoteValue(lo, false)
		hi = sqlQuoteValue(hi, false)
	}

	between := "BETWEEN"
	if c.Op == OpNotRange || prefix == string(BucketMustNot) {
		between = "NOT BETWEEN"
	}

	field := c.Field
	if tree.opts.QuoteFields {
		field = `"` + field + `"`
	}

	return field + " " + between + " " + lo + " AND " + hi, nil
}
