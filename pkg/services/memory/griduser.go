package memory

import (
	"context"
	"sync"

	"github.com/marmos91/gridaccounts/pkg/models"
)

// GridUsers stores home and last location per user.
type GridUsers struct {
	mu    sync.RWMutex
	users map[string]*models.GridUserInfo
}

// NewGridUsers creates an empty grid user store.
func NewGridUsers() *GridUsers {
	return &GridUsers{users: make(map[string]*models.GridUserInfo)}
}

func (s *GridUsers) SetHome(_ context.Context, userID, regionID string, position, lookAt models.Vector3) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.entryLocked(userID)
	u.HomeRegionID = regionID
	u.HomePosition = position
	u.HomeLookAt = lookAt
	return nil
}

// SetLastPosition records the last location. sessionID is accepted for
// interface parity and not stored.
func (s *GridUsers) SetLastPosition(_ context.Context, userID, _ string, regionID string, position, lookAt models.Vector3) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.entryLocked(userID)
	u.LastRegionID = regionID
	u.LastPosition = position
	u.LastLookAt = lookAt
	return nil
}

func (s *GridUsers) GetGridUserInfo(_ context.Context, userID string) (*models.GridUserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, models.ErrGridUserNotFound
	}
	c := *u
	return &c, nil
}

func (s *GridUsers) entryLocked(userID string) *models.GridUserInfo {
	u, ok := s.users[userID]
	if !ok {
		u = &models.GridUserInfo{UserID: userID, HomeRegionID: models.ZeroID, LastRegionID: models.ZeroID}
		s.users[userID] = u
	}
	return u
}
