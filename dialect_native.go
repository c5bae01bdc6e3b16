package search

import "strconv"

// stringifyNative implements the C6 Native serializer (spec.md §4.5): the
// normalized "<prefix><field><op><quote><value><quote>" form, with no
// type-awareness and no operator remapping. It is the canonical debug
// rendering and never returns a DialectError.
func stringifyNative(tree *Tree) (string, error) {
	return stringifyTree(tree, nativeClause, nativeConnector, " ")
}

func nativeConnector(b Bucket) string {
	return " "
}

func nativeClause(c Clause, prefix string) (string, error) {
	if c.IsGroup() {
		sub, err := stringifyNative(c.Sub)
		if err != nil {
			return "", err
		}
		return prefix + "(" + sub + ")", nil
	}

	if c.IsRange() {
		return prefix + c.Field + string(c.Op) + c.Range.Lo + ".." + c.Range.Hi, nil
	}

	q := string(c.Quote)
	val := q + c.Value + q
	if c.Proximity != nil {
		val += proximitySuffix(*c.Proximity)
	}
	if c.Field == "" {
		return prefix + val, nil
	}
	return prefix + c.Field + string(c.Op) + val, nil
}

func proximitySuffix(n int) string {
	return "~" + strconv.Itoa(n)
}
