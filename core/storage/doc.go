// Package storage wraps the MinIO/S3 client used to read grant batches.
//
// Client exposes only the read operations the grant importer needs, so tests
// can substitute the testify mock in the mocks subpackage.
package storage
