package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/marmos91/gridaccounts/pkg/models"
)

// systemFolders are created under the root of every new inventory.
var systemFolders = []struct {
	name string
	kind models.AssetType
}{
	{"Body Parts", models.AssetTypeBodypart},
	{"Clothing", models.AssetTypeClothing},
	{"Notecards", models.AssetTypeNotecard},
	{"Objects", models.AssetTypeObject},
	{"Sounds", models.AssetTypeSound},
	{"Textures", models.AssetTypeTexture},
}

// RootFolderName names the root of every inventory.
const RootFolderName = "My Inventory"

// Inventory is a thread-safe in-memory inventory service.
type Inventory struct {
	mu      sync.RWMutex
	folders map[string]*models.InventoryFolder
	items   map[string]*models.InventoryItem
}

// NewInventory creates an empty inventory service.
func NewInventory() *Inventory {
	return &Inventory{
		folders: make(map[string]*models.InventoryFolder),
		items:   make(map[string]*models.InventoryItem),
	}
}

// CreateUserInventory creates the root and system folders. Calling it for a
// user that already has a root folder is a no-op.
func (inv *Inventory) CreateUserInventory(_ context.Context, principalID string) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.rootLocked(principalID) != nil {
		return nil
	}

	root := &models.InventoryFolder{
		ID:      uuid.New().String(),
		Name:    RootFolderName,
		Owner:   principalID,
		Type:    models.AssetTypeRootFolder,
		Version: 1,
	}
	inv.folders[root.ID] = root

	for _, sf := range systemFolders {
		f := &models.InventoryFolder{
			ID:       uuid.New().String(),
			Name:     sf.name,
			Owner:    principalID,
			ParentID: root.ID,
			Type:     sf.kind,
			Version:  1,
		}
		inv.folders[f.ID] = f
	}
	return nil
}

// GetFolderForType returns the system folder of type t directly under the
// user's root.
func (inv *Inventory) GetFolderForType(_ context.Context, principalID string, t models.AssetType) (*models.InventoryFolder, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	root := inv.rootLocked(principalID)
	if root == nil {
		return nil, models.ErrFolderNotFound
	}
	for _, f := range inv.folders {
		if f.Owner == principalID && f.ParentID == root.ID && f.Type == t {
			c := *f
			return &c, nil
		}
	}
	return nil, models.ErrFolderNotFound
}

// GetRootFolder returns the user's root folder.
func (inv *Inventory) GetRootFolder(_ context.Context, principalID string) (*models.InventoryFolder, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	root := inv.rootLocked(principalID)
	if root == nil {
		return nil, models.ErrFolderNotFound
	}
	c := *root
	return &c, nil
}

// AddFolder stores a copy of folder.
func (inv *Inventory) AddFolder(_ context.Context, folder *models.InventoryFolder) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	c := *folder
	inv.folders[folder.ID] = &c
	return nil
}

// GetItem returns a copy of the item.
func (inv *Inventory) GetItem(_ context.Context, itemID string) (*models.InventoryItem, error) {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	item, ok := inv.items[itemID]
	if !ok {
		return nil, models.ErrItemNotFound
	}
	return item.Clone(), nil
}

// AddItem stores a copy of item.
func (inv *Inventory) AddItem(_ context.Context, item *models.InventoryItem) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.items[item.ID] = item.Clone()
	return nil
}

// Folders returns the user's folders sorted by name.
func (inv *Inventory) Folders(principalID string) []*models.InventoryFolder {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var out []*models.InventoryFolder
	for _, f := range inv.folders {
		if f.Owner == principalID {
			c := *f
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Items returns the user's items sorted by name.
func (inv *Inventory) Items(principalID string) []*models.InventoryItem {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var out []*models.InventoryItem
	for _, it := range inv.items {
		if it.Owner == principalID {
			out = append(out, it.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (inv *Inventory) rootLocked(principalID string) *models.InventoryFolder {
	for _, f := range inv.folders {
		if f.Owner == principalID && f.Type == models.AssetTypeRootFolder {
			return f
		}
	}
	return nil
}
