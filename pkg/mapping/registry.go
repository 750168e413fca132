package mapping

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/marmos91/gridaccounts/pkg/models"
)

var (
	// ErrNoDriverConfigured is returned by Open when no storage provider is named.
	ErrNoDriverConfigured = errors.New("no storage provider configured")

	// ErrUnknownDriver is returned by Open when the named provider is not registered.
	ErrUnknownDriver = errors.New("unknown storage provider")
)

// DriverArgs are the constructor arguments handed to a driver factory.
type DriverArgs struct {
	// ConnectionString is driver specific (a file path, a DSN, ...).
	ConnectionString string

	// Table is the realm the records are stored under.
	Table string
}

// Factory constructs a Store from driver arguments.
type Factory func(ctx context.Context, args DriverArgs) (Store, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Factory)
)

// Register makes a driver available under name. Drivers call it from init.
// Registering the same name twice panics.
func Register(name string, factory Factory) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if factory == nil {
		panic("mapping: Register factory is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("mapping: Register called twice for driver " + name)
	}
	drivers[name] = factory
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open constructs the store registered under name.
//
// A missing or unknown name is a configuration fault: callers should treat
// it as fatal at startup.
func Open(ctx context.Context, name string, args DriverArgs) (Store, error) {
	if name == "" {
		return nil, ErrNoDriverConfigured
	}

	driversMu.RLock()
	factory, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownDriver, name, Drivers())
	}

	if args.Table == "" {
		args.Table = models.DefaultRealm
	}

	store, err := factory(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s mapping store: %w", name, err)
	}
	return store, nil
}
