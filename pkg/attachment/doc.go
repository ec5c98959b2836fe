// Package attachment stores and resolves email attachment files. The
// notification core holds only string references; this package owns the
// bytes, with a local filesystem backend for development and an S3
// backend for production.
//
// References are opaque relative paths generated on save. Both backends
// reject traversal attempts and report missing files with ErrFileNotFound
// so the composer can map them to its own failure mode.
package attachment
