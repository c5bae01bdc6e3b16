package search

import "log"

// debugf writes a trace line if Debug is enabled. Every parser and dialect
// trace point in this package goes through here, the way gobo's
// lib/search gated its (now-commented-out) tokenize traces and its
// printQuery/printTokenTree dump behind a single flag.
func debugf(format string, args ...interface{}) {
	if !Debug {
		return
	}
	log.Printf(format, args...)
}
