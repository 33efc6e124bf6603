package ambulance

import "fmt"

// StoreError wraps a failure from the ambulance data store. Message is what
// clients get to see.
type StoreError struct {
	Store   string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s store error: %s", e.Store, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func NewStoreError(store, message string, err error) *StoreError {
	return &StoreError{
		Store:   store,
		Message: message,
		Err:     err,
	}
}
