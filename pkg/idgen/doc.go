// Package idgen provides an incrementing, globally-unique ID generator
// built on Sonyflake (a Snowflake variant): 64-bit, time-ordered, safe to
// call concurrently from multiple goroutines.
//
//	id, err := idgen.GenerateID()     // default generator
//	gen := idgen.New()
//	id, err := gen.GenerateID()       // standalone generator
package idgen
