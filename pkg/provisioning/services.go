package provisioning

import (
	"context"
	"fmt"

	"github.com/marmos91/gridaccounts/pkg/models"
	"github.com/marmos91/gridaccounts/pkg/notify"
)

// InventoryService owns users' inventory trees.
type InventoryService interface {
	// CreateUserInventory creates the root folder and standard system
	// folders of a new user.
	CreateUserInventory(ctx context.Context, principalID string) error

	// GetFolderForType returns the user's system folder for type t, or
	// models.ErrFolderNotFound.
	GetFolderForType(ctx context.Context, principalID string, t models.AssetType) (*models.InventoryFolder, error)

	// GetRootFolder returns the user's root folder, or models.ErrFolderNotFound.
	GetRootFolder(ctx context.Context, principalID string) (*models.InventoryFolder, error)

	AddFolder(ctx context.Context, folder *models.InventoryFolder) error

	// GetItem returns an item by id, or models.ErrItemNotFound.
	GetItem(ctx context.Context, itemID string) (*models.InventoryItem, error)

	AddItem(ctx context.Context, item *models.InventoryItem) error
}

// AuthenticationService stores login credentials.
type AuthenticationService interface {
	SetPassword(ctx context.Context, principalID, password string) error
}

// AvatarService stores avatar appearance.
type AvatarService interface {
	// GetAvatar returns nil and models.ErrAvatarNotFound for a user with no
	// stored appearance.
	GetAvatar(ctx context.Context, principalID string) (*models.AvatarData, error)
	SetAvatar(ctx context.Context, principalID string, avatar *models.AvatarData) error
}

// GridUserService stores per-user location state.
type GridUserService interface {
	SetHome(ctx context.Context, userID, regionID string, position, lookAt models.Vector3) error
	SetLastPosition(ctx context.Context, userID, sessionID, regionID string, position, lookAt models.Vector3) error
	GetGridUserInfo(ctx context.Context, userID string) (*models.GridUserInfo, error)
}

// Notifier delivers email-like notifications.
type Notifier interface {
	Notify(ctx context.Context, msg notify.Message) error
}

// Localizer renders a message key in a language with printf-style args.
type Localizer interface {
	Localize(lang, key string, args ...any) string
}

// Services bundles the collaborators the workflow drives. Notifier and
// Localizer may be nil.
type Services struct {
	Inventory InventoryService
	Auth      AuthenticationService
	Avatar    AvatarService
	GridUser  GridUserService
	Notifier  Notifier
	Localizer Localizer
}

func (s Services) validate() error {
	switch {
	case s.Inventory == nil:
		return fmt.Errorf("provisioning: inventory service is required")
	case s.Auth == nil:
		return fmt.Errorf("provisioning: authentication service is required")
	case s.Avatar == nil:
		return fmt.Errorf("provisioning: avatar service is required")
	case s.GridUser == nil:
		return fmt.Errorf("provisioning: grid user service is required")
	}
	return nil
}

// sprintfLocalizer is used when no Localizer is configured.
type sprintfLocalizer struct{}

func (sprintfLocalizer) Localize(_ string, key string, args ...any) string {
	if len(args) == 0 {
		return key
	}
	return fmt.Sprintf(key, args...)
}
