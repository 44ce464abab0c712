// Package redis adapts the document store contracts to Redis.
//
// Every document is a hash: posts, comments, identification candidates,
// per-post consensus metadata, per-user vote records, and per-user
// statistic counters. Rating-ordered listings come from sorted-set
// indexes whose scores the toggle script keeps in lockstep with the
// rating fields. The vote toggle itself is a Lua script so the vote
// record, the target rating, the index score, and the author statistic
// move as one atomic unit.
package redis
