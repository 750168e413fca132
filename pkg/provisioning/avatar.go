package provisioning

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/internal/telemetry"
	"github.com/marmos91/gridaccounts/pkg/models"
)

// applyDefaultAvatar gives userID a copy of the appearance of the template
// configured for avatarType and sets its home location.
//
// An unknown type, a malformed template name, a missing template account or
// a template without appearance skip the step silently. Collaborator write
// failures are returned as warnings.
func (w *Workflow) applyDefaultAvatar(ctx context.Context, userID, avatarType, lang string) []error {
	def, ok := w.policy.avatar(avatarType)
	if !ok {
		return nil
	}
	first, last, ok := splitTemplateName(def.Name)
	if !ok {
		logger.DebugCtx(ctx, "Default avatar name is not \"First Last\"", logger.KeyAvatarType, avatarType, "name", def.Name)
		return nil
	}

	ctx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanAvatarClone, userID, telemetry.AvatarType(avatarType))
	defer span.End()

	template, err := w.identity.Accounts().GetAccountByName(ctx, models.ZeroID, first, last)
	if err != nil {
		logger.WarnCtx(ctx, "Default avatar account does not exist", logger.KeyFirstName, first, logger.KeyLastName, last, logger.KeyError, err)
		return nil
	}

	appearance, err := w.svc.Avatar.GetAvatar(ctx, template.PrincipalID)
	if err != nil || appearance == nil {
		logger.WarnCtx(ctx, "Default avatar has no appearance", logger.KeyFirstName, first, logger.KeyLastName, last, logger.KeyError, err)
		return nil
	}

	logger.DebugCtx(ctx, "Creating default avatar", logger.KeyAvatarType, avatarType, logger.KeyPrincipalID, template.PrincipalID)

	var warnings []error

	folderName := strings.TrimSpace(w.loc.Localize(lang, labelDefaultAvatar) + " " + w.loc.Localize(lang, def.PrettyType))
	folderID, err := w.createOutfitFolder(ctx, userID, folderName)
	if err != nil {
		warnings = append(warnings, err)
	}

	if folderID != "" {
		warnings = append(warnings, w.cloneAppearance(ctx, userID, folderID, appearance)...)
	} else {
		logger.DebugCtx(ctx, "No folder to hold default avatar", "folder", folderName)
	}

	return append(warnings, w.setHome(ctx, userID, template.PrincipalID)...)
}

// createOutfitFolder creates a clothing folder named name under the user's
// Clothing folder, or the root folder when Clothing is missing. It returns
// "" when the user has neither. A failed AddFolder still returns the id.
func (w *Workflow) createOutfitFolder(ctx context.Context, userID, name string) (string, error) {
	parent, err := w.svc.Inventory.GetFolderForType(ctx, userID, models.AssetTypeClothing)
	if err != nil || parent == nil {
		parent, err = w.svc.Inventory.GetRootFolder(ctx, userID)
		if err != nil || parent == nil {
			return "", nil
		}
	}

	folder := &models.InventoryFolder{
		ID:       uuid.New().String(),
		Name:     name,
		Owner:    userID,
		ParentID: parent.ID,
		Type:     models.AssetTypeClothing,
		Version:  1,
	}
	err = w.svc.Inventory.AddFolder(ctx, folder)
	return folder.ID, w.stepFailed(ctx, "inventory", "add_folder", err)
}

// cloneAppearance copies every item referenced by appearance into folderID
// and stores an appearance pointing at the copies. appearance is not
// modified.
func (w *Workflow) cloneAppearance(ctx context.Context, userID, folderID string, appearance *models.AvatarData) []error {
	var warnings []error

	slots := make([]string, 0, len(appearance.Data))
	for slot, value := range appearance.Data {
		if value != "" {
			slots = append(slots, slot)
		}
	}
	sort.Strings(slots)

	cloned := make(map[string]string, len(slots))
	for _, slot := range slots {
		newID, err := w.cloneItem(ctx, appearance.Data[slot], userID, folderID)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		if newID != "" {
			cloned[slot] = newID
		}
	}

	out := appearance.Clone()
	for slot, id := range cloned {
		out.Data[slot] = id
	}

	if err := w.stepFailed(ctx, "avatar", "set_avatar", w.svc.Avatar.SetAvatar(ctx, userID, out)); err != nil {
		warnings = append(warnings, err)
	}
	return warnings
}

// cloneItem copies the item with id itemID to a new item owned by userID in
// folderID. Values that are not item ids, e.g. visual params, return "".
func (w *Workflow) cloneItem(ctx context.Context, itemID, userID, folderID string) (string, error) {
	if _, err := uuid.Parse(itemID); err != nil {
		return "", nil
	}

	item, err := w.svc.Inventory.GetItem(ctx, itemID)
	if err != nil || item == nil {
		if err != nil && !errors.Is(err, models.ErrItemNotFound) {
			logger.DebugCtx(ctx, "Default avatar item lookup failed", logger.KeyItemID, itemID, logger.KeyError, err)
		}
		return "", nil
	}

	copied := item.Clone()
	copied.ID = uuid.New().String()
	copied.Owner = userID
	copied.Folder = folderID

	if err := w.svc.Inventory.AddItem(ctx, copied); err != nil {
		return "", w.stepFailed(ctx, "inventory", "add_item", err)
	}
	return copied.ID, nil
}

// setHome sets the user's home and last position. The configured home
// region wins over the template's; with neither, nothing is set.
func (w *Workflow) setHome(ctx context.Context, userID, templateID string) []error {
	region := w.policy.homeRegion()
	position := w.policy.HomePosition
	var lookAt models.Vector3

	if region == "" {
		info, err := w.svc.GridUser.GetGridUserInfo(ctx, templateID)
		if err == nil && info != nil {
			region = nonZeroUUID(info.HomeRegionID)
			position = info.HomePosition
			lookAt = info.HomeLookAt
		}
	}
	if region == "" {
		return nil
	}

	ctx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanHomeSet, userID)
	defer span.End()

	var warnings []error
	if err := w.stepFailed(ctx, "griduser", "set_home", w.svc.GridUser.SetHome(ctx, userID, region, position, lookAt)); err != nil {
		warnings = append(warnings, err)
	}
	if err := w.stepFailed(ctx, "griduser", "set_last_position", w.svc.GridUser.SetLastPosition(ctx, userID, models.ZeroID, region, position, lookAt)); err != nil {
		warnings = append(warnings, err)
	}
	return warnings
}
