// Package consensus recomputes which identification candidate's species
// a post displays, from current candidate ratings.
package consensus
