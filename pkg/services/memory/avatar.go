package memory

import (
	"context"
	"sync"

	"github.com/marmos91/gridaccounts/pkg/models"
)

// Avatars stores avatar appearance by principal id.
type Avatars struct {
	mu   sync.RWMutex
	data map[string]*models.AvatarData
}

// NewAvatars creates an empty appearance store.
func NewAvatars() *Avatars {
	return &Avatars{data: make(map[string]*models.AvatarData)}
}

func (s *Avatars) GetAvatar(_ context.Context, principalID string) (*models.AvatarData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.data[principalID]
	if !ok {
		return nil, models.ErrAvatarNotFound
	}
	return a.Clone(), nil
}

func (s *Avatars) SetAvatar(_ context.Context, principalID string, avatar *models.AvatarData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[principalID] = avatar.Clone()
	return nil
}
