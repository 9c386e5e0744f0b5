package mhash

// BackendError is returned from a [Hasher]
// when the underlying hash library fails.
type BackendError struct {
	// Name of the hash algorithm, e.g. "sha256".
	Hasher string

	Err error
}

func (e *BackendError) Error() string {
	return e.Hasher + " hash backend failed: " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
