// Package checksum hashes data files so that an uploaded copy can be
// matched to its source.
//
// # Example Usage
//
//	sum, err := checksum.New().File(path)
//
// SHA256 is safe for concurrent use by multiple goroutines.
package checksum
