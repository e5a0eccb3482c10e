package service

import (
	"errors"
	"fmt"
)

// The admin workflow classifies every failure at its operation boundary:
// validation failures never reach a remote call, upload failures abort a save
// before anything is persisted, persist failures leave the catalog untouched,
// and fetch failures leave the cache empty.

// ValidationError rejects a draft before any remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// UploadError reports a rejected or failed object-store write.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("image upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError reports an insert/update/delete rejected by the product store.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("product store operation failed: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// FetchError reports a failed catalog list load.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("product list fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUpload reports whether err is an UploadError.
func IsUpload(err error) bool {
	var ue *UploadError
	return errors.As(err, &ue)
}

// IsPersist reports whether err is a PersistError.
func IsPersist(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}

// IsFetch reports whether err is a FetchError.
func IsFetch(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
