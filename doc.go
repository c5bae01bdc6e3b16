// Package search implements a parser, tree model, and multi-dialect
// serializer for a compact, human-oriented search query language.
//
// The basic idea is that an application exposes a single search box to an
// end-user, and needs to turn whatever they typed into something a backend
// can execute: a normalized debug form, a SQL WHERE clause, or a Swish-e
// style query. This package does the middle part: it turns a string like
//
//	year:2011 && in:europe && !germany
//
// into a typed AST (a Tree of Clause values), lets you validate and rewrite
// that tree against a field schema (aliases, types, custom value callbacks),
// and then asks a Dialect to turn it back into a string.
//
// A query is built from clauses, grouped into three buckets: "+" (must
// match), "" (should match, i.e. OR), and "-" (must not match). Clauses
// support field:value pairs, quoted phrases with a proximity suffix,
// parenthesized subqueries, boolean connectors, and an "a..b" range
// shorthand.
//
// This package does not execute queries against an index; it only produces
// trees and strings for some other engine to consume.
package search

// Debug gates optional trace logging in the parser and dialect serializers.
// It mirrors gobo's lib/search qDebug constant, just made runtime-toggleable
// since this package has no equivalent of a single compiled binary.
var Debug = false
