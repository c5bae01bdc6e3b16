package search

import (
	"regexp"
	"strconv"
	"strings"
)

// proximityOnlyRegex recognizes an op match that is nothing but a bare
// "~N" — see parseFieldOp's quoted-field disambiguation.
var proximityOnlyRegex = regexp.MustCompile(`^~\d+$`)

// Parser is a configured, reusable query parser (spec.md §5: "a configured
// parser instance is safe to reuse across concurrent call sites"). Build
// one with NewParser and call Parse as many times as you like; a Parser
// never mutates its own grammar or field registry after construction.
type Parser struct {
	cfg     Config
	grammar *compiledGrammar
	fields  *FieldRegistry
	dialect Dialect
	opts    DialectOpts
}

// NewParser builds a Parser from cfg, compiling its regex grammar and
// normalizing its field registry once up front.
func NewParser(cfg Config) (*Parser, error) {
	grammar, err := compileGrammar(cfg)
	if err != nil {
		return nil, err
	}

	fieldList := cfg.Fields
	if cfg.Dialect == DialectSWISH {
		hasDefault := false
		for _, f := range fieldList {
			if f.Name == swishDefaultField {
				hasDefault = true
				break
			}
		}
		if !hasDefault {
			fieldList = append(append([]*FieldDescriptor{}, fieldList...), NewFieldDescriptor(swishDefaultField, FieldChar))
		}
	}

	var reg *FieldRegistry
	if len(fieldList) > 0 {
		reg, err = NewFieldRegistry(fieldList)
		if err != nil {
			return nil, err
		}
	}

	if cfg.DefaultOp == "" {
		cfg.DefaultOp = OpContains
	}

	return &Parser{
		cfg:     cfg,
		grammar: grammar,
		fields:  reg,
		dialect: cfg.Dialect,
		opts:    cfg.DialectOpts,
	}, nil
}

// sign is the prefix/NOT-keyword effect on a clause, independent of any
// bucket it may already imply.
type sign int

const (
	signNone sign = iota
	signPlus
	signMinus
)

// parseState carries the mutable cursor plus everything it needs read-only
// access to; one is created per top-level Parse call and threaded through
// every recursive parseQuery call for parenthesized subqueries.
type parseState struct {
	scanner
	original string
	p        *Parser
}

// Parse tokenizes and parses input into a Tree, honoring this Parser's
// configuration (spec.md §4.1, §4.2).
func (this *Parser) Parse(input string) (*Tree, error) {
	debugf("Parse: %q", input)

	st := &parseState{
		scanner:  scanner{input: input},
		original: input,
		p:        this,
	}

	tree, err := st.parseQuery("", false, "", false, true)
	if err != nil {
		debugf("Parse: %q failed: %s", input, err)
		if this.cfg.Sloppy {
			// Sloppy mode never fails outright; fall back to an empty tree
			// rather than surface the error (spec.md §4.2).
			return newTree(this.fields, this.dialect, this.opts), nil
		}
		return nil, err
	}

	st.skipSpace()
	if !st.eof() {
		if this.cfg.Sloppy {
			return tree, nil
		}
		return nil, &ParseError{Input: input, Detail: "unexpected trailing text: " + st.remaining()}
	}

	if this.cfg.TermExpander != nil {
		tree = expandTermsInTree(tree, this.cfg.TermExpander)
	}

	if this.fields != nil {
		expanded, err := expandTree(tree, this.fields, this.cfg, input)
		if err != nil {
			if this.cfg.Sloppy {
				return tree, nil
			}
			return nil, err
		}
		tree = expanded
	}

	return tree, nil
}

// parseQuery implements the "query := ws? clause (bool_sep clause)* ws?"
// production (spec.md §4.1). parentField/parentOp (when hasParentField /
// hasParentOp are true) are inherited by field-less leaves, per "When
// parent_op is present, inherited on bareword leaves so that
// 'color=(red or green)' distributes to 'color=red, color=green'". root is
// true only for the outermost call, since the "reject on all-negative
// result" check in spec.md §4.1 only applies "on exit" of the top parse.
func (this *parseState) parseQuery(parentField string, hasParentField bool, parentOp Op, hasParentOp bool, root bool) (*Tree, error) {
	tree := newTree(this.p.fields, this.p.dialect, this.p.opts)

	type item struct {
		clause Clause
		sg     sign
	}
	var items []item
	sawAnd := false
	sawOr := false
	first := true

	for {
		this.skipSpace()
		if this.eof() {
			break
		}
		if b, ok := this.peekByte(); ok && b == ')' {
			// A stray ')' at the root level (one with no matching '(' of its
			// own) isn't a real closing paren to return up to; in sloppy
			// mode it's just garbage to skip over and keep going.
			if root && this.p.cfg.Sloppy {
				this.pos++
				continue
			}
			break
		}

		connector := ""
		if !first {
			kw, ok := this.tryBoolKeyword()
			if ok {
				connector = kw
			}
		}
		if connector == "and" {
			if sawOr {
				if this.p.cfg.Sloppy {
					continue
				}
				return nil, &ParseError{Input: this.original, Detail: "cannot mix AND and OR at the same level; use parentheses"}
			}
			sawAnd = true
		} else if connector == "or" {
			if sawAnd {
				if this.p.cfg.Sloppy {
					continue
				}
				return nil, &ParseError{Input: this.original, Detail: "cannot mix AND and OR at the same level; use parentheses"}
			}
			sawOr = true
		}

		clause, sg, err := this.parseClause(parentField, hasParentField, parentOp, hasParentOp)
		if err != nil {
			if this.p.cfg.Sloppy {
				if !this.recoverSloppy() {
					break
				}
				continue
			}
			return nil, err
		}

		items = append(items, item{clause: clause, sg: sg})
		first = false
	}

	// The level's implicit bucket is decided once, by whichever connector
	// (if any) joined its clauses — "a or b" buckets both a and b as
	// should-match even though the first clause precedes the "or" keyword
	// that reveals the level is OR-joined (spec.md §4.1 step 6). The same
	// retroactive knowledge applies to the "'-' operand of OR" check: a
	// leading "-a" in "-a or b" is just as invalid as "a or -b".
	levelBucket := this.p.cfg.DefaultBoolOp.Bucket()
	if sawOr {
		levelBucket = BucketShould
	} else if sawAnd {
		levelBucket = BucketMust
	}

	if sawOr && !this.p.cfg.Sloppy {
		for _, it := range items {
			if it.sg == signMinus {
				return nil, &ParseError{Input: this.original, Detail: "operands of OR cannot be negated"}
			}
		}
	}

	for _, it := range items {
		bucket := levelBucket
		switch it.sg {
		case signPlus:
			bucket = BucketMust
			if sawOr {
				// spec.md §4.1 step 6: "+" under OR becomes "" — an explicit
				// must-sign doesn't survive a should-joined level, the same
				// way an unsigned clause under AND is promoted to must.
				bucket = BucketShould
			}
		case signMinus:
			bucket = BucketMustNot
		}
		tree.append(bucket, it.clause)
	}

	if root && !this.p.cfg.Sloppy {
		if len(tree.buckets[BucketMustNot]) > 0 &&
			len(tree.buckets[BucketMust]) == 0 &&
			len(tree.buckets[BucketShould]) == 0 {
			return nil, &ParseError{Input: this.original, Detail: "query has no positive clause to anchor its negatives"}
		}
	}

	return tree, nil
}

// recoverSloppy discards one "unit" of input (a rune, essentially) so the
// sloppy-mode loop can make forward progress after a clause failed to
// parse, and reports whether there was anything left to discard.
func (this *parseState) recoverSloppy() bool {
	if this.eof() {
		return false
	}
	this.pos++
	return true
}

// tryBoolKeyword peeks (and, on a match, consumes) a leading AND/OR
// connector token: "and"/"&&" or "or"/"||" (case-insensitive per the
// default and_regex/or_regex).
func (this *parseState) tryBoolKeyword() (string, bool) {
	save := this.pos
	this.skipSpace()
	word, ok := this.peekWordOrSymbolRun()
	if !ok {
		this.pos = save
		return "", false
	}
	switch {
	case this.p.grammar.and.MatchString(word):
		this.pos += len(word)
		return "and", true
	case this.p.grammar.or.MatchString(word):
		this.pos += len(word)
		return "or", true
	default:
		this.pos = save
		return "", false
	}
}

// consumeSign implements spec.md §4.1 step 2: a leading '+', '-', NOT
// keyword, or bare '!' not followed by one of the operator-continuation
// glyphs (':', '=', '~', or the start of a range "..").
func (this *parseState) consumeSign() sign {
	this.skipSpace()
	b, ok := this.peekByte()
	if !ok {
		return signNone
	}

	switch b {
	case '+':
		this.pos++
		return signPlus
	case '-':
		this.pos++
		return signMinus
	case '!':
		rest := this.input[this.pos+1:]
		if strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, "~") || strings.HasPrefix(rest, "..") {
			return signNone
		}
		this.pos++
		return signMinus
	}

	save := this.pos
	word, ok := this.peekWordOrSymbolRun()
	if ok && this.p.grammar.not.MatchString(word) {
		this.pos += len(word)
		return signMinus
	}
	this.pos = save
	return signNone
}

// parseClause implements spec.md §4.1 steps 2-5 for a single clause.
func (this *parseState) parseClause(parentField string, hasParentField bool, parentOp Op, hasParentOp bool) (Clause, sign, error) {
	sg := this.consumeSign()
	this.skipSpace()

	field, hasField, op, hasOp, err := this.parseFieldOp()
	if err != nil {
		return Clause{}, sg, err
	}

	if hasField && hasParentField {
		return Clause{}, sg, &ParseError{Input: this.original, Detail: "nested field not allowed: " + field}
	}

	effectiveField := field
	if !hasField && hasParentField {
		effectiveField = parentField
	}
	effectiveOp := op
	if !hasOp {
		if hasParentOp {
			effectiveOp = parentOp
		} else {
			effectiveOp = OpContains
		}
	}

	this.skipSpace()

	clause, err := this.parseValue(effectiveField, effectiveOp, hasOp || hasParentOp)
	if err != nil {
		return Clause{}, sg, err
	}

	if updated, ok := this.tryNear(clause); ok {
		clause = updated
	}

	return clause, sg, nil
}

// parseFieldOp implements spec.md §4.1 step 3: "field op", "\"field\" op",
// "'field' op", or a field-less op.
func (this *parseState) parseFieldOp() (field string, hasField bool, op Op, hasOp bool, err error) {
	save := this.pos

	// Quoted field: "field"op or 'field'op, only if an op glyph follows
	// immediately.
	if b, ok := this.peekByte(); ok && (b == '"' || b == '\'') {
		isPhraseDelim := len(this.p.grammar.phrase) == 1 && this.p.grammar.phrase[0] == b
		if content, ok := this.readQuotedRun(b); ok {
			if opText, ok := this.matchAnchored(this.p.grammar.op); ok {
				// A bare "~N" right after the phrase delimiter is the
				// value-phrase's own proximity suffix (spec.md §4.1's
				// phrase production), never a quoted-field's operator.
				if !(isPhraseDelim && proximityOnlyRegex.MatchString(opText)) {
					return content, true, Op(opText), true, nil
				}
			}
		}
		this.pos = save
	}

	// Bareword field, only if an op glyph immediately follows.
	if fieldText, ok := this.matchAnchored(this.p.grammar.field); ok {
		if opText, ok := this.matchAnchored(this.p.grammar.op); ok {
			return fieldText, true, Op(opText), true, nil
		}
		this.pos = save
	}

	// Field-less op.
	if opText, ok := this.matchFieldlessOp(); ok {
		return "", false, Op(opText), true, nil
	}

	return "", false, "", false, nil
}

// matchFieldlessOp matches grammar.opNoField at the cursor. In sloppy mode a
// match is rejected when it is immediately followed by another operator
// glyph: spec.md §4.2's "unrecognized operator glyphs become part of the
// term" means a run like "~~~~~~~" is operator soup, not a real field-less
// op applied to a term, so the whole run is left for the bareword path
// below instead of peeling off a single leading glyph.
func (this *parseState) matchFieldlessOp() (string, bool) {
	m := this.p.grammar.opNoField.FindString(this.remaining())
	if m == "" {
		return "", false
	}
	if this.p.cfg.Sloppy {
		rest := this.remaining()[len(m):]
		if rest != "" && this.p.grammar.op.MatchString(rest) {
			return "", false
		}
	}
	this.pos += len(m)
	return m, true
}

// parseValue implements spec.md §4.1 step 4: a phrase, a parenthesized
// subquery, or a bareword term (possibly a range).
func (this *parseState) parseValue(field string, op Op, hasOp bool) (Clause, error) {
	this.skipSpace()

	if this.eof() {
		return Clause{}, &ParseError{Input: this.original, Detail: "expected value, got end of input"}
	}

	delim := this.p.grammar.phrase
	if len(delim) == 1 && this.input[this.pos] == delim[0] {
		content, ok := this.readQuotedRun(delim[0])
		if !ok {
			return Clause{}, &ParseError{Input: this.original, Detail: "unterminated phrase"}
		}
		prox := this.parseProximitySuffix()
		return Clause{Field: field, Op: op, Value: content, Quote: QuoteDouble, Proximity: prox}, nil
	}

	if b, _ := this.peekByte(); b == '(' {
		this.pos++
		sub, err := this.parseQuery(field, field != "", op, hasOp, false)
		if err != nil {
			return Clause{}, err
		}
		this.skipSpace()
		closed := false
		if b, ok := this.peekByte(); ok && b == ')' {
			this.pos++
			closed = true
		}
		if !closed {
			if !this.p.cfg.Sloppy {
				return Clause{}, &ParseError{Input: this.original, Detail: "no matching )"}
			}
			// Sloppy mode never fails on real input (spec.md §4.2); a group
			// left open to end of input is treated as implicitly closed
			// there instead of discarding everything recovered inside it.
		}
		if this.p.cfg.Sloppy && sub.IsEmpty() {
			// "empty groups are discarded" (spec.md §4.2).
			return Clause{}, &ParseError{Input: this.original, Detail: "empty group"}
		}
		return Clause{Field: "", Op: OpGroup, Sub: sub}, nil
	}

	term, ok := this.matchAnchored(this.p.grammar.term)
	if !ok || term == "" {
		return Clause{}, &ParseError{Input: this.original, Detail: "expected a value"}
	}

	if this.p.cfg.Sloppy && field == "" && !hasOp && this.looksLikeSloppyNoise(term) {
		// "stray boolean keywords... and isolated sign characters are
		// dropped" (spec.md §4.2): a fieldless, opless bareword that is
		// itself just recovery debris — a lone symbol left over from a
		// split sign/operator run, or an and/or/not/near keyword that
		// never found a clause to attach to.
		return Clause{}, &ParseError{Input: this.original, Detail: "recovered noise token: " + term}
	}

	if lo, hi, ok := splitRange(term, this.p.grammar.rang); ok {
		rangeOp := OpRange
		if strings.Contains(string(op), "!") {
			rangeOp = OpNotRange
		}
		return Clause{Field: field, Op: rangeOp, Range: &RangeValue{Lo: lo, Hi: hi}}, nil
	}

	return Clause{Field: field, Op: op, Value: term}, nil
}

// looksLikeSloppyNoise reports whether term is recovery debris rather than a
// real bareword: a single non-alphanumeric leftover (the tail half of a
// split sign/operator run, e.g. the second "-" of "--"), or a whole and/or/
// not/near keyword that never found a clause to attach to because it sits
// at the start of a level or right after another discarded keyword.
func (this *parseState) looksLikeSloppyNoise(term string) bool {
	if len(term) == 1 && !isAlnumByte(term[0]) {
		return true
	}
	g := this.p.grammar
	return g.and.MatchString(term) || g.or.MatchString(term) || g.not.MatchString(term) || g.near.MatchString(term)
}

func isAlnumByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// tryNear implements spec.md §4.1 step 5's "Proximity keyword NEARn after a
// clause rewrites the clause: the next term is appended to the value,
// proximity is set, and quote is forced to \"".
func (this *parseState) tryNear(clause Clause) (Clause, bool) {
	if clause.IsGroup() || clause.IsRange() {
		return clause, false
	}

	save := this.pos
	this.skipSpace()
	word, ok := this.peekWordOrSymbolRun()
	if !ok {
		this.pos = save
		return clause, false
	}
	m := this.p.grammar.near.FindStringSubmatch(word)
	if m == nil {
		this.pos = save
		return clause, false
	}
	this.pos += len(word)

	this.skipSpace()
	nextTerm, ok := this.matchAnchored(this.p.grammar.term)
	if !ok {
		this.pos = save
		return clause, false
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		this.pos = save
		return clause, false
	}

	clause.Value = clause.Value + " " + nextTerm
	clause.Quote = QuoteDouble
	clause.Proximity = &n
	return clause, true
}
