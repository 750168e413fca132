package provisioning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/marmos91/gridaccounts/internal/logger"
	"github.com/marmos91/gridaccounts/internal/telemetry"
	"github.com/marmos91/gridaccounts/pkg/metrics"
	"github.com/marmos91/gridaccounts/pkg/models"
	"github.com/marmos91/gridaccounts/pkg/notify"
)

// errNoStoredPassword is a warning for a pending account whose password was
// never stored.
var errNoStoredPassword = errors.New("pending account has no stored password")

// Activate approves a pending account: it strips the pending identifier,
// removes the staged credentials from ServiceURLs and provisions the
// account as Register would have. The user is told by email when the
// account has one.
func (w *Workflow) Activate(ctx context.Context, scopeID, principalID string) (*Result, error) {
	start := time.Now()
	ctx = logger.WithOperationContext(ctx, "activate")
	ctx, span := telemetry.StartAccountSpan(ctx, telemetry.SpanActivate, principalID)
	defer span.End()

	outcome := metrics.OutcomeFailed
	defer func() {
		metrics.RecordOutcome(w.metrics, outcome, time.Since(start))
	}()

	dir := w.identity.Accounts()
	account, err := dir.GetAccountByID(ctx, scopeID, principalID)
	if err != nil {
		if errors.Is(err, models.ErrAccountNotFound) {
			return nil, err
		}
		return nil, models.NewStoreFault("accounts", "get", err)
	}
	if !account.IsPending(w.policy.PendingIdentifier) {
		return nil, fmt.Errorf("activate %s: %w", account.Name(), ErrNotPending)
	}

	updated := account.Clone()
	updated.FirstName = strings.TrimPrefix(account.FirstName, w.policy.PendingIdentifier)
	password := updated.ServiceURLs[models.ServiceURLPassword]
	avatarType := updated.ServiceURLs[models.ServiceURLAvatar]
	lang := updated.ServiceURLs[models.ServiceURLLanguage]
	delete(updated.ServiceURLs, models.ServiceURLPassword)
	delete(updated.ServiceURLs, models.ServiceURLAvatar)
	delete(updated.ServiceURLs, models.ServiceURLLanguage)

	if err := dir.UpdateAccount(ctx, updated); err != nil {
		telemetry.RecordError(ctx, err)
		if errors.Is(err, models.ErrDuplicateAccount) {
			outcome = metrics.OutcomeExists
			return nil, ErrAccountExists
		}
		return nil, models.NewStoreFault("accounts", "update", err)
	}
	w.identity.InvalidateCounts()

	var warnings []error
	if password == "" {
		warnings = append(warnings, errNoStoredPassword)
		logger.WarnCtx(ctx, "Activated account has no stored password", logger.KeyPrincipalID, principalID)
	}
	warnings = append(warnings, w.provision(ctx, principalID, password, avatarType, lang)...)

	if updated.Email != "" && w.svc.Notifier != nil {
		err := w.svc.Notifier.Notify(ctx, notify.Message{
			To:      updated.Email,
			Subject: w.loc.Localize(lang, subjectActivated),
			Body:    w.loc.Localize(lang, bodyActivated, updated.Name(), w.policy.GridName),
		})
		if err := w.stepFailed(ctx, "notify", "user", err); err != nil {
			warnings = append(warnings, err)
		}
	}

	outcome = metrics.OutcomeActivated
	logger.InfoCtx(ctx, "Account activated", logger.KeyPrincipalID, principalID, "warnings", len(warnings))

	return &Result{
		State:    StateProvisioned,
		Account:  updated,
		Notice:   w.loc.Localize(lang, subjectActivated),
		Warnings: warnings,
	}, nil
}
