// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works against MinIO and other S3-compatible systems (Ceph, SeaweedFS,
// Garage) without pulling in the AWS SDK.
//
// # Basic Usage
//
//	store, err := minio.Dial(ctx, "localhost:9000", "my-bucket",
//	    minio.WithStaticCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("indexes/"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	idx, err := schemaidx.Create(ctx, store, "users_by_birth", temporal.UniqueLocalDateTime)
package minio
