// Package blobstore provides the storage abstraction for immutable index segments.
//
// BlobStore is the interface for reading and writing data blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process maps, used by tests
//   - LocalStore: local filesystem with atomic writes and mmap reads
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible services
//
// Blob names are slash-separated and may contain directories
// (for example "users_by_birth/000003.seg"). List returns names in
// lexical order.
package blobstore
