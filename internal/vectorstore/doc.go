// Package vectorstore holds the dense vector data of a shard.
//
// A Store is one contiguous []float32 of count*dim components, addressed by
// zero-based row ids in ingestion order. Stores are immutable once built:
// replacing a shard's contents means building a new Store and swapping the
// pointer, which lets readers scan without copying.
package vectorstore
