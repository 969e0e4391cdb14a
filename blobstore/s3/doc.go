// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("indexes/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	idx, err := schemaidx.Open(ctx, store, "users_by_birth", temporal.UniqueLocalDateTime)
//
// # Concurrent Writers
//
// S3 cannot atomically swap an index's CURRENT pointer. When more than one
// process may flush the same index, wrap the store in a CommitStore, which
// commits pointers to DynamoDB with conditional writes:
//
//	commits := s3.NewCommitStore(store, dynamodb.NewFromConfig(cfg), "schemaidx-commits")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large segments
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
