// Package model holds the wire types exchanged with the outside
// world, kept distinct from internal/opt's working representation the
// way the teacher separates its API payload types from internal/opt's
// Problem/Solution types.
package model

// Result is the single JSON object the CLI prints to stdout.
type Result struct {
	Instance string  `json:"Instance"`
	Time     float64 `json:"Time"`
	Result   float64 `json:"Result"`
	Solution string  `json:"Solution"`
}
