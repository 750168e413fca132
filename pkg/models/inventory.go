package models

import "time"

// AssetType identifies the kind of asset an inventory entry refers to.
type AssetType int8

// Asset types used by provisioning. Values match the grid wire protocol.
const (
	AssetTypeUnknown    AssetType = -1
	AssetTypeTexture    AssetType = 0
	AssetTypeSound      AssetType = 1
	AssetTypeClothing   AssetType = 5
	AssetTypeObject     AssetType = 6
	AssetTypeNotecard   AssetType = 7
	AssetTypeFolder     AssetType = 8
	AssetTypeRootFolder AssetType = 9
	AssetTypeBodypart   AssetType = 13
	AssetTypeLink       AssetType = 24
)

// InventoryFolder is a folder in a user's inventory tree.
type InventoryFolder struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Owner    string    `json:"owner"`
	ParentID string    `json:"parent_id"`
	Type     AssetType `json:"type"`
	Version  int       `json:"version"`
}

// InventoryItem is a single entry in a user's inventory.
type InventoryItem struct {
	ID                  string    `json:"id"`
	AssetID             string    `json:"asset_id"`
	AssetType           AssetType `json:"asset_type"`
	InvType             int       `json:"inv_type"`
	Folder              string    `json:"folder"`
	Owner               string    `json:"owner"`
	Creator             string    `json:"creator"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Flags               uint32    `json:"flags"`
	BasePermissions     uint32    `json:"base_permissions"`
	CurrentPermissions  uint32    `json:"current_permissions"`
	EveryOnePermissions uint32    `json:"everyone_permissions"`
	NextPermissions     uint32    `json:"next_permissions"`
	GroupPermissions    uint32    `json:"group_permissions"`
	GroupID             string    `json:"group_id"`
	GroupOwned          bool      `json:"group_owned"`
	SalePrice           int       `json:"sale_price"`
	SaleType            uint8     `json:"sale_type"`
	CreationDate        time.Time `json:"creation_date"`
}

// Clone returns a value copy of the item.
func (i *InventoryItem) Clone() *InventoryItem {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
