package provisioning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/gridaccounts/pkg/models"
)

var femaleAvatar = DefaultAvatar{Type: "female", Name: "Female Template", PrettyType: "Female"}

const (
	templateHome = "aaaaaaaa-0000-0000-0000-000000000001"
	policyHome   = "bbbbbbbb-0000-0000-0000-000000000002"
)

func registerWithAvatar(t *testing.T, h *harness, avatarType string) *Result {
	t.Helper()
	reg := validRegistration()
	reg.AvatarType = avatarType
	res, err := h.workflow.Register(context.Background(), reg)
	require.NoError(t, err)
	return res
}

func TestDefaultAvatarClone(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Policy{DefaultAvatars: []DefaultAvatar{femaleAvatar}})
	templateID, itemIDs := h.template(t, "Female", "Template")

	res := registerWithAvatar(t, h, "female")
	assert.Empty(t, res.Warnings)
	userID := res.Account.PrincipalID

	clothing, err := h.inventory.GetFolderForType(ctx, userID, models.AssetTypeClothing)
	require.NoError(t, err)

	var outfit *models.InventoryFolder
	for _, f := range h.inventory.Folders(userID) {
		if f.Name == "Default Avatar Female" {
			outfit = f
		}
	}
	require.NotNil(t, outfit, "outfit folder is created")
	assert.Equal(t, clothing.ID, outfit.ParentID)
	assert.Equal(t, models.AssetTypeClothing, outfit.Type)

	items := h.inventory.Items(userID)
	require.Len(t, items, 2)

	appearance, err := h.avatars.GetAvatar(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "33,61,85", appearance.Data["VisualParams"])

	seen := map[string]bool{}
	for _, slot := range []string{"Wearable 0:0", "Wearable 1:0"} {
		id := appearance.Data[slot]
		assert.NotContains(t, itemIDs, id, "slot %s points at a copy", slot)
		assert.False(t, seen[id], "copies are distinct")
		seen[id] = true

		item, err := h.inventory.GetItem(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, userID, item.Owner)
		assert.Equal(t, outfit.ID, item.Folder)
		assert.Equal(t, "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", item.AssetID)
	}

	// the template is untouched
	tmpl, err := h.avatars.GetAvatar(ctx, templateID)
	require.NoError(t, err)
	assert.Equal(t, itemIDs[0], tmpl.Data["Wearable 0:0"])
	assert.Equal(t, itemIDs[1], tmpl.Data["Wearable 1:0"])
	for _, id := range itemIDs {
		item, err := h.inventory.GetItem(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, templateID, item.Owner)
	}
}

func TestDefaultAvatarSkips(t *testing.T) {
	tests := []struct {
		name       string
		avatars    []DefaultAvatar
		avatarType string
		template   bool
	}{
		{name: "no avatar type", avatars: []DefaultAvatar{femaleAvatar}, template: true},
		{name: "unknown type", avatars: []DefaultAvatar{femaleAvatar}, avatarType: "robot", template: true},
		{name: "malformed name", avatars: []DefaultAvatar{{Type: "female", Name: "Template"}}, avatarType: "female", template: true},
		{name: "missing template", avatars: []DefaultAvatar{femaleAvatar}, avatarType: "female"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Policy{DefaultAvatars: tt.avatars})
			if tt.template {
				h.template(t, "Female", "Template")
			}

			res := registerWithAvatar(t, h, tt.avatarType)
			assert.Empty(t, res.Warnings)

			userID := res.Account.PrincipalID
			assert.Empty(t, h.inventory.Items(userID))
			_, err := h.avatars.GetAvatar(context.Background(), userID)
			assert.ErrorIs(t, err, models.ErrAvatarNotFound)
		})
	}
}

func TestDefaultAvatarTemplateWithoutAppearance(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Policy{DefaultAvatars: []DefaultAvatar{femaleAvatar}})
	require.NoError(t, h.dir.CreateAccount(ctx, &models.Account{FirstName: "Female", LastName: "Template"}))

	res := registerWithAvatar(t, h, "female")
	assert.Empty(t, res.Warnings)
	_, err := h.avatars.GetAvatar(ctx, res.Account.PrincipalID)
	assert.ErrorIs(t, err, models.ErrAvatarNotFound)
}

func TestDefaultAvatarItemCopyFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Policy{DefaultAvatars: []DefaultAvatar{femaleAvatar}})
	_, itemIDs := h.template(t, "Female", "Template")
	h.inventory.failAddItem.Store(true)

	res := registerWithAvatar(t, h, "female")
	require.Len(t, res.Warnings, 2, "one warning per failed slot")
	for _, w := range res.Warnings {
		assert.ErrorIs(t, w, errInjected)
	}
	assert.Equal(t, 2, h.metrics.step("inventory"))

	// failed slots keep the template's value
	appearance, err := h.avatars.GetAvatar(ctx, res.Account.PrincipalID)
	require.NoError(t, err)
	assert.Equal(t, itemIDs[0], appearance.Data["Wearable 0:0"])
}

func TestDefaultAvatarFolderFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Policy{DefaultAvatars: []DefaultAvatar{femaleAvatar}})
	h.template(t, "Female", "Template")
	h.inventory.failAddFolder.Store(true)

	res := registerWithAvatar(t, h, "female")
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], errInjected)

	// items still land under the intended folder id
	items := h.inventory.Items(res.Account.PrincipalID)
	require.Len(t, items, 2)
	assert.Equal(t, items[0].Folder, items[1].Folder)
	_, err := h.avatars.GetAvatar(ctx, res.Account.PrincipalID)
	assert.NoError(t, err)
}

func TestDefaultAvatarHome(t *testing.T) {
	ctx := context.Background()

	t.Run("template home", func(t *testing.T) {
		h := newHarness(t, Policy{DefaultAvatars: []DefaultAvatar{femaleAvatar}})
		templateID, _ := h.template(t, "Female", "Template")
		pos := models.Vector3{X: 10, Y: 20, Z: 30}
		require.NoError(t, h.gridUsers.SetHome(ctx, templateID, templateHome, pos, models.Vector3{X: 1}))

		res := registerWithAvatar(t, h, "female")
		info, err := h.gridUsers.GetGridUserInfo(ctx, res.Account.PrincipalID)
		require.NoError(t, err)
		assert.Equal(t, templateHome, info.HomeRegionID)
		assert.Equal(t, pos, info.HomePosition)
		assert.Equal(t, models.Vector3{X: 1}, info.HomeLookAt)
		assert.Equal(t, templateHome, info.LastRegionID)
	})

	t.Run("configured home wins", func(t *testing.T) {
		pos := models.Vector3{X: 128, Y: 128, Z: 22}
		h := newHarness(t, Policy{
			DefaultAvatars: []DefaultAvatar{femaleAvatar},
			HomeRegion:     policyHome,
			HomePosition:   pos,
		})
		templateID, _ := h.template(t, "Female", "Template")
		require.NoError(t, h.gridUsers.SetHome(ctx, templateID, templateHome, models.Vector3{}, models.Vector3{}))

		res := registerWithAvatar(t, h, "female")
		info, err := h.gridUsers.GetGridUserInfo(ctx, res.Account.PrincipalID)
		require.NoError(t, err)
		assert.Equal(t, policyHome, info.HomeRegionID)
		assert.Equal(t, pos, info.HomePosition)
	})

	t.Run("no home anywhere", func(t *testing.T) {
		h := newHarness(t, Policy{DefaultAvatars: []DefaultAvatar{femaleAvatar}, HomeRegion: models.ZeroID})
		h.template(t, "Female", "Template")

		res := registerWithAvatar(t, h, "female")
		_, err := h.gridUsers.GetGridUserInfo(ctx, res.Account.PrincipalID)
		assert.ErrorIs(t, err, models.ErrGridUserNotFound)
	})
}

func TestSplitTemplateName(t *testing.T) {
	first, last, ok := splitTemplateName("Female Template")
	assert.True(t, ok)
	assert.Equal(t, "Female", first)
	assert.Equal(t, "Template", last)

	for _, bad := range []string{"", "Template", "A B C", " Template", "Female "} {
		_, _, ok := splitTemplateName(bad)
		assert.False(t, ok, bad)
	}
}
