package iostate

import (
	"fmt"
	"sync"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// StoreManager owns the process-wide state store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.StateStore
}

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// Store returns the active StateStore, or nil before InitStore.
func (mgr *StoreManager) Store() contract.StateStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}

// InitStore initializes the global state store exactly once.
func InitStore(backend schema.DatabaseBackend, connStr string) error {
	var initErr error
	initOnce.Do(func() {
		store, err := NewStateStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize state store: %w", err)
			return
		}
		Manager.Lock()
		Manager.store = store
		Manager.Unlock()
	})
	return initErr
}

// CloseStore should be called on application shutdown.
func CloseStore() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.store != nil {
			_ = Manager.store.Close()
		}
	})
}
