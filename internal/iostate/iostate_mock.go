package iostate

import (
	"github.com/stretchr/testify/mock"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// MockStateStore is a mock implementation of StateStore for testing.
type MockStateStore struct {
	mock.Mock
}

var _ contract.StateStore = &MockStateStore{} // Compile-time check

// Get implements the StateStore interface.
func (m *MockStateStore) Get(key string) (string, bool, error) {
	args := m.Called(key)
	return args.String(0), args.Bool(1), args.Error(2)
}

// Set implements the StateStore interface.
func (m *MockStateStore) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// Delete implements the StateStore interface.
func (m *MockStateStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// Clear implements the StateStore interface.
func (m *MockStateStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the StateStore interface.
func (m *MockStateStore) GetStatus() (schema.StateStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StateStatus), args.Error(1)
}

// Close implements the StateStore interface.
func (m *MockStateStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
