// Package naming turns raw CSV header text into schema identifiers and titles.
//
// A Transformer applies a pluggable Rule and guarantees that, for the life of
// the Transformer, no two calls return the same string: a collision is
// resolved by appending a space and the smallest free counter ("amount",
// "amount 1", "amount 2", ...). Identifier and title generation use separate
// Transformer instances so their collision sets stay independent.
//
// Transformers are not safe for concurrent use; each generation run owns its own.
package naming
