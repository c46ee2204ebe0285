package storage

import (
	"errors"
	"fmt"
)

// Error carries the failed operation and the bucket/key it targeted.
type Error struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Bucket != "" && e.Key != "":
		return fmt.Sprintf("storage.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	case e.Bucket != "":
		return fmt.Sprintf("storage.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	default:
		return fmt.Sprintf("storage.%s: %v", e.Op, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, bucket, key string, err error) *Error {
	return &Error{Op: op, Bucket: bucket, Key: key, Err: err}
}

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrUnsupportedOffset is returned by backends that can only page
	// forward one page at a time.
	ErrUnsupportedOffset = errors.New("offset is not the next sequential page")

	ErrUnknownBackend = errors.New("unknown storage backend")
)
