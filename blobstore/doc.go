// Package blobstore stores annotation archives and mergelists as whole
// named blobs.
//
// Archives are small enough to move in one piece, so the interface is
// Get/Put rather than ranged reads:
//
//	type Store interface {
//	    Get(ctx, name) ([]byte, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and scratch sessions
//   - LocalStore: a directory on the local file system
//   - CachingStore: LRU read cache in front of any Store
//   - s3.Store: Amazon S3 (aws-sdk-go-v2)
//   - minio.Store: MinIO and other S3-compatible servers
//
// Implementations must be safe for concurrent use.
package blobstore
