package provisioning

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	accountsmem "github.com/marmos91/gridaccounts/pkg/accounts/memory"
	"github.com/marmos91/gridaccounts/pkg/identity"
	mappingmem "github.com/marmos91/gridaccounts/pkg/mapping/memory"
	"github.com/marmos91/gridaccounts/pkg/models"
	"github.com/marmos91/gridaccounts/pkg/notify"
	"github.com/marmos91/gridaccounts/pkg/services/memory"
)

var errInjected = errors.New("injected failure")

// harness wires a workflow to in-memory stores and services.
type harness struct {
	dir       *accountsmem.Directory
	mappings  *mappingmem.Store
	coord     *identity.Coordinator
	inventory *faultyInventory
	auth      *memory.Auth
	avatars   *memory.Avatars
	gridUsers *memory.GridUsers
	notifier  *notify.Log
	metrics   *recordingMetrics
	workflow  *Workflow
}

func newHarness(t *testing.T, policy Policy, opts ...func(*Services)) *harness {
	t.Helper()

	h := &harness{
		dir:       accountsmem.NewDirectory(),
		mappings:  mappingmem.NewStore(),
		inventory: &faultyInventory{Inventory: memory.NewInventory()},
		auth:      fastAuth(),
		avatars:   memory.NewAvatars(),
		gridUsers: memory.NewGridUsers(),
		notifier:  notify.NewLog(),
		metrics:   &recordingMetrics{outcomes: map[string]int{}, steps: map[string]int{}},
	}
	h.coord = identity.New(h.dir, h.mappings, identity.Config{}, nil)

	svc := Services{
		Inventory: h.inventory,
		Auth:      h.auth,
		Avatar:    h.avatars,
		GridUser:  h.gridUsers,
		Notifier:  h.notifier,
	}
	for _, opt := range opts {
		opt(&svc)
	}

	w, err := New(h.coord, svc, policy, h.metrics)
	require.NoError(t, err)
	h.workflow = w
	return h
}

// template creates a template account with a two-item outfit and one
// non-item appearance value. It returns the template id and item ids.
func (h *harness) template(t *testing.T, first, last string) (string, []string) {
	t.Helper()
	ctx := context.Background()

	acct := &models.Account{ScopeID: models.ZeroID, FirstName: first, LastName: last}
	require.NoError(t, h.dir.CreateAccount(ctx, acct))
	require.NoError(t, h.inventory.CreateUserInventory(ctx, acct.PrincipalID))

	clothing, err := h.inventory.GetFolderForType(ctx, acct.PrincipalID, models.AssetTypeClothing)
	require.NoError(t, err)

	ids := []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
	}
	for _, id := range ids {
		require.NoError(t, h.inventory.AddItem(ctx, &models.InventoryItem{
			ID:           id,
			AssetID:      "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
			AssetType:    models.AssetTypeClothing,
			Folder:       clothing.ID,
			Owner:        acct.PrincipalID,
			Name:         "Outfit piece",
			CreationDate: time.Unix(1700000000, 0).UTC(),
		}))
	}

	require.NoError(t, h.avatars.SetAvatar(ctx, acct.PrincipalID, &models.AvatarData{
		AvatarType: 1,
		Data: map[string]string{
			"Wearable 0:0": ids[0],
			"Wearable 1:0": ids[1],
			"VisualParams": "33,61,85",
		},
	}))
	return acct.PrincipalID, ids
}

func validRegistration() Registration {
	return Registration{
		FirstName:     "Ann",
		LastName:      "Lee",
		Email:         "ann@example.com",
		Password:      "s3cret",
		Password2:     "s3cret",
		RealFirstName: "Ann",
		RealLastName:  "Leeson",
		Institution:   "Example University",
		ConnectID:     "ann@idp.example.com",
	}
}

// faultyInventory fails selected operations of the in-memory inventory.
type faultyInventory struct {
	*memory.Inventory

	failCreate, failAddFolder, failAddItem atomic.Bool
}

func (f *faultyInventory) CreateUserInventory(ctx context.Context, principalID string) error {
	if f.failCreate.Load() {
		return errInjected
	}
	return f.Inventory.CreateUserInventory(ctx, principalID)
}

func (f *faultyInventory) AddFolder(ctx context.Context, folder *models.InventoryFolder) error {
	if f.failAddFolder.Load() {
		return errInjected
	}
	return f.Inventory.AddFolder(ctx, folder)
}

func (f *faultyInventory) AddItem(ctx context.Context, item *models.InventoryItem) error {
	if f.failAddItem.Load() {
		return errInjected
	}
	return f.Inventory.AddItem(ctx, item)
}

// failingNotifier rejects every message.
type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, notify.Message) error { return errInjected }

// lookupFaultDirectory fails name lookups but keeps inserts working.
type lookupFaultDirectory struct {
	*accountsmem.Directory
}

func (d lookupFaultDirectory) GetAccountByName(context.Context, string, string, string) (*models.Account, error) {
	return nil, errInjected
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
	steps    map[string]int
}

func (m *recordingMetrics) RecordOutcome(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *recordingMetrics) RecordStepFailure(step string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps[step]++
}

func (m *recordingMetrics) outcome(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[name]
}

func (m *recordingMetrics) step(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps[name]
}

func fastAuth() *memory.Auth {
	return memory.NewAuthWithCost(bcrypt.MinCost)
}

func memoryDirectory() *accountsmem.Directory {
	return accountsmem.NewDirectory()
}

// failingCreateDirectory rejects every insert with a store error.
type failingCreateDirectory struct {
	*accountsmem.Directory
}

func (d failingCreateDirectory) CreateAccount(context.Context, *models.Account) error {
	return errInjected
}
