package provisioning

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/gridaccounts/pkg/identity"
	mappingmem "github.com/marmos91/gridaccounts/pkg/mapping/memory"
	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/marmos91/gridaccounts/pkg/models"
	"github.com/marmos91/gridaccounts/pkg/services/memory"
)

func TestNewRequiresCollaborators(t *testing.T) {
	h := newHarness(t, Policy{})

	_, err := New(nil, Services{}, Policy{}, nil)
	assert.Error(t, err)

	_, err = New(h.coord, Services{Inventory: h.inventory}, Policy{}, nil)
	assert.ErrorContains(t, err, "authentication service")

	w, err := New(h.coord, Services{
		Inventory: h.inventory,
		Auth:      h.auth,
		Avatar:    h.avatars,
		GridUser:  h.gridUsers,
	}, Policy{WebAddress: "https://grid.example.com/"}, nil)
	require.NoError(t, err)

	p := w.Policy()
	assert.Equal(t, DefaultPendingIdentifier, p.PendingIdentifier)
	assert.Equal(t, "en-US", p.AdminLanguage)
	assert.Equal(t, "My Grid", p.GridName)
	assert.Equal(t, "https://grid.example.com", p.WebAddress)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Registration)
		want   []string
	}{
		{
			name:   "empty form",
			modify: func(r *Registration) { *r = Registration{} },
			want: []string{
				MsgNoFirstName, MsgNoLastName, MsgInvalidEmail, MsgNoPassword,
				MsgNoRealFirstName, MsgNoRealLastName, MsgNoInstitution,
			},
		},
		{
			name:   "blank names",
			modify: func(r *Registration) { r.FirstName, r.LastName = "  ", "\t" },
			want:   []string{MsgInvalidFirstName, MsgInvalidLastName},
		},
		{
			name:   "bad email",
			modify: func(r *Registration) { r.Email = "not-an-email" },
			want:   []string{MsgInvalidEmail},
		},
		{
			name:   "password mismatch",
			modify: func(r *Registration) { r.Password2 = "other" },
			want:   []string{MsgPasswordMismatch},
		},
		{
			name:   "missing institution",
			modify: func(r *Registration) { r.Institution = " " },
			want:   []string{MsgNoInstitution},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, Policy{})
			reg := validRegistration()
			tt.modify(&reg)

			res, err := h.workflow.Register(context.Background(), reg)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.want, verr.Messages)

			assert.Equal(t, StateFormDisplayWithErrors, res.State)
			assert.Nil(t, res.Account)
			assert.Empty(t, res.Form.Password)
			assert.Empty(t, res.Form.Password2)
			assert.Equal(t, 0, h.dir.Len())
			assert.Equal(t, 1, h.metrics.outcome(metrics.OutcomeInvalid))
		})
	}
}

func TestRegisterProvisionsImmediately(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Policy{})

	reg := validRegistration()
	reg.FirstName = "  Ann "
	res, err := h.workflow.Register(ctx, reg)
	require.NoError(t, err)

	assert.Equal(t, StateProvisioned, res.State)
	assert.False(t, res.Pending)
	assert.Equal(t, NoticeCreated, res.Notice)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "Ann", res.Form.FirstName)
	require.NotNil(t, res.Account)

	id := res.Account.PrincipalID
	stored, err := h.dir.GetAccountByName(ctx, models.ZeroID, "Ann", "Lee")
	require.NoError(t, err)
	assert.Equal(t, id, stored.PrincipalID)
	assert.Equal(t, models.LocalUserTitle, stored.UserTitle)
	assert.Empty(t, stored.ServiceURLs)

	m, err := h.coord.GetMappingByPrincipalID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ann@idp.example.com", m.ConnectID)
	assert.Equal(t, "Example University", m.Institution)

	_, err = h.inventory.GetRootFolder(ctx, id)
	assert.NoError(t, err)
	assert.NoError(t, h.auth.Authenticate(ctx, id, "s3cret"))
	assert.Empty(t, h.notifier.Sent())
	assert.Equal(t, 1, h.metrics.outcome(metrics.OutcomeProvisioned))
}

func TestRegisterExistingName(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Policy{})

	_, err := h.workflow.Register(ctx, validRegistration())
	require.NoError(t, err)

	res, err := h.workflow.Register(ctx, validRegistration())
	assert.ErrorIs(t, err, ErrAccountExists)
	assert.ErrorIs(t, err, models.ErrDuplicateAccount)
	assert.Equal(t, StateAccountExists, res.State)
	assert.Equal(t, 1, h.dir.Len())
	assert.Equal(t, 1, h.metrics.outcome(metrics.OutcomeExists))
}

func TestRegisterPending(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, Policy{
		ConfirmationRequired: true,
		AdminEmail:           "admin@example.com",
		WebAddress:           "https://grid.example.com/",
		DefaultAvatars:       []DefaultAvatar{femaleAvatar},
	})
	h.template(t, "Female", "Template")

	reg := validRegistration()
	reg.AvatarType = "female"
	reg.Language = "de-DE"
	res, err := h.workflow.Register(ctx, reg)
	require.NoError(t, err)

	assert.Equal(t, StateProvisioned, res.State)
	assert.True(t, res.Pending)
	assert.Equal(t, NoticeAwaitsApproval, res.Notice)

	acct := res.Account
	assert.Equal(t, "*pending* Ann", acct.FirstName)
	assert.True(t, acct.IsPending(DefaultPendingIdentifier))
	assert.Equal(t, "s3cret", acct.ServiceURLs[models.ServiceURLPassword])
	assert.Equal(t, "female", acct.ServiceURLs[models.ServiceURLAvatar])
	assert.Equal(t, "de-DE", acct.ServiceURLs[models.ServiceURLLanguage])

	// nothing is provisioned until activation
	_, err = h.inventory.GetRootFolder(ctx, acct.PrincipalID)
	assert.ErrorIs(t, err, models.ErrFolderNotFound)
	assert.False(t, h.auth.HasPassword(acct.PrincipalID))
	_, err = h.avatars.GetAvatar(ctx, acct.PrincipalID)
	assert.ErrorIs(t, err, models.ErrAvatarNotFound, "appearance is set only on activation")

	sent := h.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "admin@example.com", sent[0].To)
	assert.Equal(t, subjectAwaitsApproval, sent[0].Subject)
	assert.Equal(t,
		"New account *pending* Ann Lee created in My Grid is awaiting your approval.\n\n"+
			"Real Name: Ann Leeson\n"+
			"Email: ann@example.com\n"+
			"Institution: Example University\n\n"+
			"https://grid.example.com/wifi",
		sent[0].Body)

	// the pending name still blocks a second registration
	_, err = h.workflow.Register(ctx, validRegistration())
	assert.ErrorIs(t, err, ErrAccountExists)
	assert.Equal(t, 1, h.metrics.outcome(metrics.OutcomePending))
}

func TestRegisterPendingWithoutAdmin(t *testing.T) {
	h := newHarness(t, Policy{ConfirmationRequired: true})

	res, err := h.workflow.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.True(t, res.Pending)
	assert.Equal(t, NoticeCreated, res.Notice)
	assert.Empty(t, h.notifier.Sent())
}

func TestRegisterAdminNotifyFailure(t *testing.T) {
	h := newHarness(t, Policy{ConfirmationRequired: true, AdminEmail: "admin@example.com"},
		func(s *Services) { s.Notifier = failingNotifier{} })

	res, err := h.workflow.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)

	var sf *models.StoreFault
	require.True(t, errors.As(res.Warnings[0], &sf))
	assert.Equal(t, "notify", sf.Store)
	assert.Equal(t, NoticeAwaitsApproval, res.Notice)
	assert.Equal(t, 1, h.metrics.step("notify"))
}

func TestRegisterCollaboratorFailures(t *testing.T) {
	h := newHarness(t, Policy{})
	h.inventory.failCreate.Store(true)

	res, err := h.workflow.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, StateProvisioned, res.State)
	require.Len(t, res.Warnings, 1)
	assert.True(t, models.IsStoreFault(res.Warnings[0]))
	assert.ErrorIs(t, res.Warnings[0], errInjected)
	assert.Equal(t, 1, h.metrics.step("inventory"))

	// the credential is still stored
	assert.True(t, h.auth.HasPassword(res.Account.PrincipalID))
}

func TestRegisterAccountStoreFailure(t *testing.T) {
	ctx := context.Background()
	dir := failingCreateDirectory{Directory: memoryDirectory()}
	coord := identity.New(dir, mappingmem.NewStore(), identity.Config{}, nil)

	w, err := New(coord, Services{
		Inventory: memory.NewInventory(),
		Auth:      fastAuth(),
		Avatar:    memory.NewAvatars(),
		GridUser:  memory.NewGridUsers(),
	}, Policy{}, nil)
	require.NoError(t, err)

	res, err := w.Register(ctx, validRegistration())
	require.Error(t, err)
	assert.True(t, models.IsStoreFault(err))
	assert.NotErrorIs(t, err, ErrAccountExists)
	assert.Equal(t, StateFormDisplay, res.State)
	assert.Nil(t, res.Account)
}

func TestRegisterConcurrentSameName(t *testing.T) {
	h := newHarness(t, Policy{})

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		exists  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.workflow.Register(context.Background(), validRegistration())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, ErrAccountExists):
				exists++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, exists)
	assert.Equal(t, 1, h.dir.Len())
}

func TestRegisterLookupFaultFallsThroughToInsert(t *testing.T) {
	ctx := context.Background()
	inner := memoryDirectory()
	coord := identity.New(lookupFaultDirectory{Directory: inner}, mappingmem.NewStore(), identity.Config{}, nil)

	w, err := New(coord, Services{
		Inventory: memory.NewInventory(),
		Auth:      fastAuth(),
		Avatar:    memory.NewAvatars(),
		GridUser:  memory.NewGridUsers(),
	}, Policy{}, nil)
	require.NoError(t, err)

	_, err = w.Register(ctx, validRegistration())
	require.NoError(t, err)

	res, err := w.Register(ctx, validRegistration())
	assert.ErrorIs(t, err, ErrAccountExists)
	assert.Equal(t, StateAccountExists, res.State)
	assert.Equal(t, 1, inner.Len())
}
