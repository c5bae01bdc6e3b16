package search

// A Bucket names one of the three roles a clause can play inside a tree.
type Bucket string

const (
	// BucketMust holds AND-joined clauses ("+").
	BucketMust Bucket = "+"
	// BucketShould holds OR-joined clauses ("").
	BucketShould Bucket = ""
	// BucketMustNot holds negated clauses ("-").
	BucketMustNot Bucket = "-"
)

// bucketOrder is the fixed post-order walk/stringify order required by
// spec.md §4.4: "+", "", "-". Every Walk and every dialect's stringify
// skeleton iterates in exactly this order.
var bucketOrder = []Bucket{BucketMust, BucketShould, BucketMustNot}

// Op is one of the recognized clause operators (spec.md §6).
type Op string

const (
	OpContains    Op = ":"
	OpExact       Op = "="
	OpEquals      Op = "=="
	OpNotEquals   Op = "!="
	OpLess        Op = "<"
	OpLessEq      Op = "<="
	OpGreater     Op = ">"
	OpGreaterEq   Op = ">="
	OpFuzzy       Op = "~"
	OpNotFuzzy    Op = "!~"
	OpRegex       Op = "=~"
	OpSet         Op = "#"
	OpRange       Op = ".."
	OpNotRange    Op = "!.."
	OpGroup       Op = "()"
)

// Quote records which delimiter (if any) the user typed around a value, so
// a dialect can re-emit it faithfully.
type Quote string

const (
	QuoteNone   Quote = ""
	QuoteDouble Quote = `"`
	QuoteSingle Quote = `'`
)

// RangeValue is the [lo, hi] pair a range leaf (op == ".." or "!..") carries
// as its Value.
type RangeValue struct {
	Lo string
	Hi string
}

// Clause is a single leaf ("<field><op><value>") or a parenthesized group.
//
// A leaf clause carries a scalar Value or a RangeValue. A group clause has
// Op == OpGroup and Sub holds the subtree; Value and RangeValue are unused
// on a group. This mirrors spec.md §3's invariant and §9's recommendation
// to keep a single struct rather than split leaf/group into a sum type, so
// that Walk and Snapshot stay uniform the way gobo's single queryToken
// interface kept its tree walk uniform.
type Clause struct {
	Field string
	Op    Op
	Value string

	// Range is non-nil only when Op is OpRange or OpNotRange.
	Range *RangeValue

	// Sub is non-nil only when Op is OpGroup; it is the nested subtree.
	Sub *Tree

	Quote Quote

	// Proximity is only meaningful on a phrase clause (Quote == QuoteDouble
	// and the value originated from a "..." literal). A nil Proximity means
	// "no proximity suffix was given".
	Proximity *int
}

// IsGroup reports whether this clause is a parenthesized subquery.
func (this Clause) IsGroup() bool {
	return this.Op == OpGroup
}

// IsRange reports whether this clause is a range (or negated range) leaf.
func (this Clause) IsRange() bool {
	return this.Op == OpRange || this.Op == OpNotRange
}

// clone makes a structural copy of a clause, recursing into Sub. Used by
// Tree.clone (and so TranslateTo) and by AddSubClause, so the copy shares
// no pointers with the original.
func (this Clause) clone() Clause {
	out := this
	if this.Range != nil {
		r := *this.Range
		out.Range = &r
	}
	if this.Proximity != nil {
		p := *this.Proximity
		out.Proximity = &p
	}
	if this.Sub != nil {
		out.Sub = this.Sub.clone()
	}
	return out
}
