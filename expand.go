package search

// expandTree runs the C9 post-parse rewrite pass: default-field injection,
// field lookup, alias rename/fan-out, and validation (spec.md §4.3). It
// returns a new tree; the input tree is never mutated in place, so callers
// that still hold a reference to the pre-expansion tree keep seeing the
// original. input is threaded through only to bracket error messages the
// way spec.md §7 requires.
func expandTree(tree *Tree, fields *FieldRegistry, cfg Config, input string) (*Tree, error) {
	out := newTree(tree.fields, tree.dialect, tree.opts)
	for _, b := range bucketOrder {
		for _, c := range tree.buckets[b] {
			expanded, err := expandClause(c, fields, cfg, input)
			if err != nil {
				return nil, err
			}
			out.append(b, expanded)
		}
	}
	return out, nil
}

// expandClause applies spec.md §4.3's five steps to a single clause,
// recursing into group subtrees.
func expandClause(c Clause, fields *FieldRegistry, cfg Config, input string) (Clause, error) {
	if c.IsGroup() {
		if aliases, ok := groupAliasFanout(c.Sub, fields); ok {
			return expandGroupFanout(c.Sub, aliases, fields, cfg, input)
		}
		sub, err := expandTree(c.Sub, fields, cfg, input)
		if err != nil {
			return Clause{}, err
		}
		c.Sub = sub
		return c, nil
	}

	// Step 1: default field injection.
	if c.Field == "" && cfg.DefaultField != "" {
		c.Field = cfg.DefaultField
		if cfg.DefaultOp != "" {
			c.Op = cfg.DefaultOp
		}
	}

	if c.Field == "" {
		// No field to look up; nothing further to do.
		return c, nil
	}

	// Step 2: field lookup.
	desc := fields.Lookup(c.Field)
	if desc == nil {
		if cfg.Sloppy {
			return c, nil
		}
		return Clause{}, &FieldError{Input: input, Field: c.Field, Detail: "unknown field"}
	}

	// Step 3/4: alias rename or fan-out.
	if len(desc.AliasFor) == 1 {
		c.Field = desc.AliasFor[0]
		desc = fields.Lookup(c.Field)
		if desc == nil {
			if cfg.Sloppy {
				return c, nil
			}
			return Clause{}, &FieldError{Input: input, Field: c.Field, Detail: "alias target unknown"}
		}
	} else if len(desc.AliasFor) >= 2 {
		group := newTree(fields, cfg.Dialect, cfg.DialectOpts)
		for _, alias := range desc.AliasFor {
			leaf := c
			leaf.Field = alias
			if target := fields.Lookup(alias); target != nil && target.Validator != nil {
				if err := target.Validator(leaf.Value); err != nil && !cfg.Sloppy {
					return Clause{}, &FieldError{Input: input, Field: alias, Value0: leaf.Value, Detail: err.Error()}
				}
			}
			group.append(BucketShould, leaf)
		}
		return Clause{Field: "", Op: OpGroup, Sub: group}, nil
	}

	// Step 5: validate.
	if desc.Validator != nil {
		if err := desc.Validator(c.Value); err != nil {
			return Clause{}, &FieldError{Input: input, Field: c.Field, Value0: c.Value, Detail: err.Error()}
		}
	}

	return c, nil
}

// groupAliasFanout reports whether sub is a single-field subquery — every
// leaf across every bucket shares one field, none of them are themselves
// groups — whose shared field resolves to a multi-alias descriptor. When it
// does, expandClause clones the whole subquery once per alias instead of
// expanding each leaf independently: spec.md §8's `field1=(green or blue)`
// with `field1` aliasing to `[field2, mydefault]` expands structurally to
// `(field2=green field2=blue) OR (mydefault=green mydefault=blue)`, grouped
// by alias. Leaf-by-leaf fan-out would instead group by value —
// `(field2=green mydefault=green) OR (field2=blue mydefault=blue)` — which
// is boolean-equivalent but not the shape §8 names.
func groupAliasFanout(sub *Tree, fields *FieldRegistry) ([]string, bool) {
	shared := ""
	found := false
	for _, b := range bucketOrder {
		for _, leaf := range sub.buckets[b] {
			if leaf.IsGroup() || leaf.Field == "" {
				return nil, false
			}
			if !found {
				shared = leaf.Field
				found = true
			} else if leaf.Field != shared {
				return nil, false
			}
		}
	}
	if !found {
		return nil, false
	}
	desc := fields.Lookup(shared)
	if desc == nil || len(desc.AliasFor) < 2 {
		return nil, false
	}
	return desc.AliasFor, true
}

// expandGroupFanout clones sub once per alias, renaming every leaf's shared
// field to that alias and validating against the alias's own descriptor,
// then ORs the clones together under a new outer group.
func expandGroupFanout(sub *Tree, aliases []string, fields *FieldRegistry, cfg Config, input string) (Clause, error) {
	outer := newTree(fields, sub.dialect, sub.opts)
	for _, alias := range aliases {
		clone := newTree(fields, sub.dialect, sub.opts)
		target := fields.Lookup(alias)
		for _, b := range bucketOrder {
			for _, leaf := range sub.buckets[b] {
				leaf.Field = alias
				if target != nil && target.Validator != nil {
					if err := target.Validator(leaf.Value); err != nil && !cfg.Sloppy {
						return Clause{}, &FieldError{Input: input, Field: alias, Value0: leaf.Value, Detail: err.Error()}
					}
				}
				clone.append(b, leaf)
			}
		}
		outer.append(BucketShould, Clause{Field: "", Op: OpGroup, Sub: clone})
	}
	return Clause{Field: "", Op: OpGroup, Sub: outer}, nil
}

// expandTerm runs the C10 term-expander hook on a single bareword leaf,
// rewriting it into an OR-group of one leaf per returned replacement term
// (spec.md §4.6). It must run before alias expansion.
func expandTerm(c Clause, expander TermExpander, fields *FieldRegistry, dialect Dialect, opts DialectOpts) Clause {
	if expander == nil || c.IsGroup() || c.IsRange() {
		return c
	}
	terms := expander(c.Value)
	if len(terms) == 0 {
		return c
	}
	if len(terms) == 1 && terms[0] == c.Value {
		return c
	}

	group := newTree(fields, dialect, opts)
	for _, t := range terms {
		leaf := c
		leaf.Value = t
		group.append(BucketShould, leaf)
	}
	return Clause{Field: "", Op: OpGroup, Sub: group}
}

// expandTermsInTree walks a freshly-parsed tree and applies expandTerm to
// every leaf, recursing into groups (spec.md §4.6). This runs before
// expandTree/alias expansion, per the ordering spec.md §4.6 specifies.
func expandTermsInTree(tree *Tree, expander TermExpander) *Tree {
	if expander == nil {
		return tree
	}
	out := newTree(tree.fields, tree.dialect, tree.opts)
	for _, b := range bucketOrder {
		for _, c := range tree.buckets[b] {
			if c.IsGroup() {
				c.Sub = expandTermsInTree(c.Sub, expander)
			} else {
				c = expandTerm(c, expander, tree.fields, tree.dialect, tree.opts)
			}
			out.append(b, c)
		}
	}
	return out
}
