package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/marmos91/gridaccounts/pkg/models"
)

func TestInventory(t *testing.T) {
	ctx := context.Background()
	inv := NewInventory()

	_, err := inv.GetRootFolder(ctx, "u1")
	assert.ErrorIs(t, err, models.ErrFolderNotFound)

	require.NoError(t, inv.CreateUserInventory(ctx, "u1"))
	require.NoError(t, inv.CreateUserInventory(ctx, "u1"), "second call is a no-op")
	assert.Len(t, inv.Folders("u1"), len(systemFolders)+1)

	root, err := inv.GetRootFolder(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, RootFolderName, root.Name)

	clothing, err := inv.GetFolderForType(ctx, "u1", models.AssetTypeClothing)
	require.NoError(t, err)
	assert.Equal(t, root.ID, clothing.ParentID)

	_, err = inv.GetFolderForType(ctx, "u1", models.AssetTypeLink)
	assert.ErrorIs(t, err, models.ErrFolderNotFound)

	item := &models.InventoryItem{ID: "i1", Owner: "u1", Folder: clothing.ID, Name: "Shirt"}
	require.NoError(t, inv.AddItem(ctx, item))
	item.Name = "mutated"

	got, err := inv.GetItem(ctx, "i1")
	require.NoError(t, err)
	assert.Equal(t, "Shirt", got.Name, "store keeps its own copy")

	_, err = inv.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrItemNotFound)
	assert.Len(t, inv.Items("u1"), 1)
}

func TestAuth(t *testing.T) {
	ctx := context.Background()
	a := NewAuthWithCost(bcrypt.MinCost)

	assert.False(t, a.HasPassword("u1"))
	require.NoError(t, a.SetPassword(ctx, "u1", "s3cret"))
	assert.True(t, a.HasPassword("u1"))

	assert.NoError(t, a.Authenticate(ctx, "u1", "s3cret"))
	assert.ErrorIs(t, a.Authenticate(ctx, "u1", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, a.Authenticate(ctx, "u2", "s3cret"), ErrInvalidCredentials)
}

func TestAvatars(t *testing.T) {
	ctx := context.Background()
	s := NewAvatars()

	_, err := s.GetAvatar(ctx, "u1")
	assert.ErrorIs(t, err, models.ErrAvatarNotFound)

	in := &models.AvatarData{AvatarType: 1, Data: map[string]string{"Wearable 0:0": "i1"}}
	require.NoError(t, s.SetAvatar(ctx, "u1", in))
	in.Data["Wearable 0:0"] = "changed"

	got, err := s.GetAvatar(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "i1", got.Data["Wearable 0:0"])
}

func TestGridUsers(t *testing.T) {
	ctx := context.Background()
	s := NewGridUsers()

	_, err := s.GetGridUserInfo(ctx, "u1")
	assert.ErrorIs(t, err, models.ErrGridUserNotFound)

	pos := models.Vector3{X: 128, Y: 128, Z: 25}
	require.NoError(t, s.SetHome(ctx, "u1", "r1", pos, models.Vector3{X: 1}))
	require.NoError(t, s.SetLastPosition(ctx, "u1", models.ZeroID, "r1", pos, models.Vector3{}))

	info, err := s.GetGridUserInfo(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "r1", info.HomeRegionID)
	assert.Equal(t, "r1", info.LastRegionID)
	assert.Equal(t, pos, info.HomePosition)
	assert.Equal(t, float32(1), info.HomeLookAt.X)
}
