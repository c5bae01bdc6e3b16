package search

// WalkFunc is invoked once per clause during Tree.Walk. self is passed back
// in so a WalkFunc can recurse into a group clause's subtree itself,
// matching spec.md §4.4 ("Implementations must re-enter on group clauses").
type WalkFunc func(clause Clause, parent *Tree, self WalkFunc, prefix string)

// Tree is the C5 AST container: a mapping from the three bucket keys to
// ordered clause sequences, plus the field registry and dialect needed to
// serialize it. A Tree returned by Parser.Parse is conceptually frozen; the
// Add*Clause family below are the only sanctioned mutators, matching
// spec.md §4.4's builder contract.
type Tree struct {
	buckets map[Bucket][]Clause
	fields  *FieldRegistry
	dialect Dialect
	opts    DialectOpts
}

// newTree builds an empty tree bound to the given registry/dialect/opts.
func newTree(fields *FieldRegistry, dialect Dialect, opts DialectOpts) *Tree {
	return &Tree{
		buckets: make(map[Bucket][]Clause),
		fields:  fields,
		dialect: dialect,
		opts:    opts,
	}
}

// Dialect returns the dialect this tree will render under.
func (this *Tree) Dialect() Dialect { return this.dialect }

// Bucket returns the ordered clause slice for a bucket. The returned slice
// must be treated as read-only by callers; use the Add* methods to mutate.
func (this *Tree) Bucket(b Bucket) []Clause {
	return this.buckets[b]
}

// IsEmpty reports whether every bucket is empty.
func (this *Tree) IsEmpty() bool {
	for _, b := range bucketOrder {
		if len(this.buckets[b]) > 0 {
			return false
		}
	}
	return true
}

func (this *Tree) append(b Bucket, c Clause) {
	this.buckets[b] = append(this.buckets[b], c)
}

// AddOrClause mutates the tree so the result is parse-equivalent to
// "(orig) OR (c)" (spec.md §4.4).
func (this *Tree) AddOrClause(c Clause) {
	this.append(BucketShould, c)
}

// AddAndClause mutates the tree so the result is parse-equivalent to
// "(orig) AND (c)" (spec.md §4.4).
func (this *Tree) AddAndClause(c Clause) {
	this.append(BucketMust, c)
}

// AddNotClause mutates the tree so the result is parse-equivalent to
// "(orig) AND NOT (c)" (spec.md §4.4).
func (this *Tree) AddNotClause(c Clause) {
	this.append(BucketMustNot, c)
}

// AddSubClause attaches every clause of sub into the matching bucket of
// this tree, preserving sub's own bucket assignment for each clause
// (spec.md §4.4: "preserving each of its buckets by calling the matching
// add-method per contained clause").
func (this *Tree) AddSubClause(sub *Tree) {
	if sub == nil {
		return
	}
	for _, b := range bucketOrder {
		for _, c := range sub.buckets[b] {
			this.append(b, c.clone())
		}
	}
}

// Walk performs a post-order traversal over the three buckets in the fixed
// "+", "", "-" order (spec.md §4.4).
func (this *Tree) Walk(fn WalkFunc) {
	for _, b := range bucketOrder {
		prefix := string(b)
		for _, c := range this.buckets[b] {
			fn(c, this, fn, prefix)
		}
	}
}

// clone makes a full structural copy of the tree, sharing no slices or
// pointers with the original (used by TranslateTo and by Clause.clone for
// group subtrees).
func (this *Tree) clone() *Tree {
	if this == nil {
		return nil
	}
	out := newTree(this.fields, this.dialect, this.opts)
	for _, b := range bucketOrder {
		for _, c := range this.buckets[b] {
			out.buckets[b] = append(out.buckets[b], c.clone())
		}
	}
	return out
}

// ClauseSnapshot is the plain, self-contained structural record for a
// single clause inside a TreeSnapshot: no back-reference to any Parser or
// Tree (spec.md §4.4's tree() contract).
type ClauseSnapshot struct {
	Field     string
	Op        Op
	Value     string
	Range     *RangeValue
	Sub       TreeSnapshot
	Quote     Quote
	Proximity *int
}

// TreeSnapshot is the plain data value returned by Tree.Snapshot: a mapping
// of bucket key to ordered clause records, used for equality tests and as
// the input to inter-dialect translation.
type TreeSnapshot map[Bucket][]ClauseSnapshot

// Snapshot returns a plain structural copy of the tree (spec.md §4.4's
// tree() method).
func (this *Tree) Snapshot() TreeSnapshot {
	out := make(TreeSnapshot)
	for _, b := range bucketOrder {
		clauses := this.buckets[b]
		if len(clauses) == 0 {
			continue
		}
		recs := make([]ClauseSnapshot, 0, len(clauses))
		for _, c := range clauses {
			recs = append(recs, snapshotClause(c))
		}
		out[b] = recs
	}
	return out
}

func snapshotClause(c Clause) ClauseSnapshot {
	rec := ClauseSnapshot{
		Field: c.Field,
		Op:    c.Op,
		Value: c.Value,
		Quote: c.Quote,
	}
	if c.Range != nil {
		r := *c.Range
		rec.Range = &r
	}
	if c.Proximity != nil {
		p := *c.Proximity
		rec.Proximity = &p
	}
	if c.Sub != nil {
		rec.Sub = c.Sub.Snapshot()
	}
	return rec
}

// TranslateTo returns a structural clone of this tree re-bound to a
// different dialect; the clause data is unchanged, only the serializer
// used by String() differs (spec.md §4.4).
func (this *Tree) TranslateTo(dialect Dialect, opts DialectOpts) *Tree {
	out := this.clone()
	out.dialect = dialect
	out.opts = opts
	return out
}

// String renders the tree under its bound dialect, returning the empty
// string if rendering fails. Use StringErr if you need to observe the
// DialectError (native never errors; SQL/SWISH can).
func (this *Tree) String() string {
	s, err := this.StringErr()
	if err != nil {
		return ""
	}
	return s
}

// StringErr renders the tree under its bound dialect, surfacing any
// DialectError.
func (this *Tree) StringErr() (string, error) {
	debugf("StringErr: dialect=%s", this.dialect)
	switch this.dialect {
	case DialectSQL:
		return stringifySQL(this)
	case DialectSWISH:
		return stringifySWISH(this)
	default:
		return stringifyNative(this)
	}
}
