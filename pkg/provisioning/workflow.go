// Package provisioning implements self-service account registration.
//
// Register validates a submission, creates the paired account and mapping
// through the identity coordinator and then, unless administrator approval
// is required, provisions the inventory skeleton, the credential and a
// default avatar. There is no transaction across these stores: once the
// account exists, later failures are logged, counted and returned as
// warnings on the Result rather than undoing the registration.
package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/internal/telemetry"
	"github.com/marmos91/gridaccounts/pkg/identity"
	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/marmos91/gridaccounts/pkg/models"
	"github.com/marmos91/gridaccounts/pkg/notify"
)

// Notices returned to the registrant.
const (
	NoticeCreated         = "Your account has been created."
	NoticeAwaitsApproval  = "Your account awaits administrator approval."
	subjectAwaitsApproval = "Account awaiting approval"
	bodyAwaitsApproval    = "New account %s %s created in %s is awaiting your approval."
	subjectActivated      = "Account activated"
	bodyActivated         = "Your account %s in %s has been activated."
	labelDefaultAvatar    = "Default Avatar"
)

// Workflow runs registrations and activations. It is safe for concurrent use.
type Workflow struct {
	identity *identity.Coordinator
	svc      Services
	loc      Localizer
	policy   Policy
	metrics  metrics.ProvisioningMetrics
	validate *validator.Validate
}

// New creates a workflow. m may be nil.
func New(coord *identity.Coordinator, svc Services, policy Policy, m metrics.ProvisioningMetrics) (*Workflow, error) {
	if coord == nil {
		return nil, errors.New("provisioning: identity coordinator is required")
	}
	if err := svc.validate(); err != nil {
		return nil, err
	}
	policy.ApplyDefaults()

	loc := svc.Localizer
	if loc == nil {
		loc = sprintfLocalizer{}
	}

	return &Workflow{
		identity: coord,
		svc:      svc,
		loc:      loc,
		policy:   policy,
		metrics:  m,
		validate: validator.New(),
	}, nil
}

// Policy returns the effective policy.
func (w *Workflow) Policy() Policy {
	return w.policy
}

// Register processes a registration.
//
// The returned error is a *ValidationError for bad input, wraps
// ErrAccountExists when the name is taken and is a store error only when
// the account itself could not be created. A non-nil Result is always
// returned.
func (w *Workflow) Register(ctx context.Context, raw Registration) (*Result, error) {
	start := time.Now()
	ctx = logger.WithOperationContext(ctx, "register")
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanRegister)
	defer span.End()

	outcome := metrics.OutcomeFailed
	defer func() {
		telemetry.SetAttributes(ctx, telemetry.Outcome(outcome))
		metrics.RecordOutcome(w.metrics, outcome, time.Since(start))
	}()

	_, vspan := telemetry.StartSpan(ctx, telemetry.SpanValidate)
	reg, verr := validateRegistration(w.validate, raw)
	vspan.End()

	res := &Result{State: StateValidating, Form: reg.form()}
	if verr != nil {
		res.State = StateFormDisplayWithErrors
		outcome = metrics.OutcomeInvalid
		logger.DebugCtx(ctx, "Registration rejected", "problems", len(verr.Messages))
		return res, verr
	}

	if w.nameTaken(ctx, reg.FirstName, reg.LastName) {
		res.State = StateAccountExists
		outcome = metrics.OutcomeExists
		logger.DebugCtx(ctx, "Registration for existing account", logger.KeyFirstName, reg.FirstName, logger.KeyLastName, reg.LastName)
		return res, ErrAccountExists
	}

	account := &models.Account{
		ScopeID:     models.ZeroID,
		FirstName:   reg.FirstName,
		LastName:    reg.LastName,
		Email:       reg.Email,
		UserTitle:   models.LocalUserTitle,
		ServiceURLs: models.ServiceURLs{},
	}
	if w.policy.ConfirmationRequired {
		// credentials wait in ServiceURLs until Activate provisions them
		account.FirstName = w.policy.PendingIdentifier + reg.FirstName
		account.ServiceURLs[models.ServiceURLPassword] = reg.Password
		account.ServiceURLs[models.ServiceURLAvatar] = reg.AvatarType
		if reg.Language != "" {
			account.ServiceURLs[models.ServiceURLLanguage] = reg.Language
		}
	}

	warnings, err := w.identity.CreatePairedAccount(ctx, account, &models.MappingRecord{
		ConnectID:     reg.ConnectID,
		RealFirstName: reg.RealFirstName,
		RealLastName:  reg.RealLastName,
		Institution:   reg.Institution,
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateAccount) {
			res.State = StateAccountExists
			outcome = metrics.OutcomeExists
			return res, ErrAccountExists
		}
		res.State = StateFormDisplay
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "Account creation failed", logger.KeyError, err)
		return res, fmt.Errorf("register %s %s: %w", reg.FirstName, reg.LastName, err)
	}
	for range warnings {
		metrics.RecordStepFailure(w.metrics, "mapping")
	}

	ctx = logger.WithContext(ctx, logger.FromContext(ctx).WithPrincipal(account.PrincipalID))
	telemetry.SetAttributes(ctx, telemetry.PrincipalID(account.PrincipalID), telemetry.Pending(w.policy.ConfirmationRequired))

	res.State = StateProvisioned
	res.Account = account
	res.Warnings = warnings
	res.Notice = w.loc.Localize(reg.Language, NoticeCreated)

	if w.policy.ConfirmationRequired {
		res.Pending = true
		outcome = metrics.OutcomePending
		if w.policy.AdminEmail != "" {
			if err := w.notifyAdmin(ctx, account, reg); err != nil {
				res.Warnings = append(res.Warnings, err)
			}
			res.Notice = w.loc.Localize(reg.Language, NoticeAwaitsApproval)
		}
		logger.InfoCtx(ctx, "Pending account created", logger.KeyPrincipalID, account.PrincipalID)
		return res, nil
	}

	res.Warnings = append(res.Warnings, w.provision(ctx, account.PrincipalID, reg.Password, reg.AvatarType, reg.Language)...)
	outcome = metrics.OutcomeProvisioned
	logger.InfoCtx(ctx, "Account provisioned",
		logger.KeyPrincipalID, account.PrincipalID,
		logger.KeyAvatarType, reg.AvatarType,
		"warnings", len(res.Warnings))
	return res, nil
}

// nameTaken reports whether first last exists, active or pending. A lookup
// failure is logged and treated as free; the directory's unique index still
// rejects a real duplicate at insert time.
func (w *Workflow) nameTaken(ctx context.Context, first, last string) bool {
	dir := w.identity.Accounts()
	for _, name := range []string{first, w.policy.PendingIdentifier + first} {
		_, err := dir.GetAccountByName(ctx, models.ZeroID, name, last)
		switch {
		case err == nil:
			return true
		case errors.Is(err, models.ErrAccountNotFound):
		default:
			logger.WarnCtx(ctx, "Duplicate name check failed", logger.KeyFirstName, name, logger.KeyLastName, last, logger.KeyError, err)
		}
	}
	return false
}

// notifyAdmin emails the approval request for a pending account.
func (w *Workflow) notifyAdmin(ctx context.Context, account *models.Account, reg Registration) error {
	if w.svc.Notifier == nil {
		return nil
	}

	ctx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanNotifyAdmin, account.PrincipalID)
	defer span.End()

	lang := w.policy.AdminLanguage
	body := w.loc.Localize(lang, bodyAwaitsApproval, account.FirstName, account.LastName, w.policy.GridName)
	body += fmt.Sprintf("\n\nReal Name: %s %s", reg.RealFirstName, reg.RealLastName)
	body += fmt.Sprintf("\nEmail: %s", reg.Email)
	body += fmt.Sprintf("\nInstitution: %s", reg.Institution)
	body += "\n\n" + w.policy.WebAddress + "/wifi"

	err := w.svc.Notifier.Notify(ctx, notify.Message{
		To:      w.policy.AdminEmail,
		Subject: w.loc.Localize(lang, subjectAwaitsApproval),
		Body:    body,
	})
	return w.stepFailed(ctx, "notify", "admin", err)
}

// provision creates the inventory, stores the password and applies the
// default avatar. Every failure is returned as a warning.
func (w *Workflow) provision(ctx context.Context, principalID, password, avatarType, lang string) []error {
	var warnings []error

	ictx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanInventoryCreate, principalID)
	err := w.svc.Inventory.CreateUserInventory(ictx, principalID)
	span.End()
	if err := w.stepFailed(ctx, "inventory", "create_user_inventory", err); err != nil {
		warnings = append(warnings, err)
	}

	if err := w.stepFailed(ctx, "auth", "set_password", w.svc.Auth.SetPassword(ctx, principalID, password)); err != nil {
		warnings = append(warnings, err)
	}

	warnings = append(warnings, w.applyDefaultAvatar(ctx, principalID, avatarType, lang)...)
	return warnings
}

// stepFailed logs and counts a failed collaborator call and returns it as a
// StoreFault. A nil err yields nil.
func (w *Workflow) stepFailed(ctx context.Context, store, op string, err error) error {
	if err == nil {
		return nil
	}
	metrics.RecordStepFailure(w.metrics, store)
	telemetry.RecordError(ctx, err)
	logger.WarnCtx(ctx, "Provisioning step failed", logger.KeyStore, store, logger.KeyOperation, op, logger.KeyError, err)
	return models.NewStoreFault(store, op, err)
}

// form returns the registration without passwords.
func (r Registration) form() Registration {
	r.Password = ""
	r.Password2 = ""
	return r
}
