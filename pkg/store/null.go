package store

import "context"

// NullStore is a no-op store that never keeps anything.
// Useful when a workspace should live only for the current process.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Get always reports a missing key.
func (s *NullStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

// Set does nothing.
func (s *NullStore) Set(ctx context.Context, key, value string) error {
	return nil
}

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
