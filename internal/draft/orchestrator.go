// Package draft sequences one generation: guard the request, call the
// drafting service, then settle by debiting points and appending a usage
// entry, in that order.
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"promail/internal/domain"
)

// CostPerDraft is the fixed point cost of one generation.
const CostPerDraft = 30

// Drafter is the external email drafting service.
type Drafter interface {
	Draft(ctx context.Context, req domain.DraftRequest) (*domain.Draft, error)
}

// AccountService is the slice of the account manager the orchestrator needs.
type AccountService interface {
	Load(ctx context.Context, profileID string) (*domain.User, error)
	Debit(ctx context.Context, profileID string, amount int) (*domain.User, error)
}

// UsageLogger appends usage entries for settled generations.
type UsageLogger interface {
	RecordUsage(ctx context.Context, email string, language domain.Language, tone domain.Tone, category domain.Category, clientIP string) error
}

// Orchestrator coordinates accounts, the drafting service, and the usage log.
type Orchestrator struct {
	accounts AccountService
	usage    UsageLogger
	drafter  Drafter
	logger   zerolog.Logger
}

// NewOrchestrator wires the collaborators together.
func NewOrchestrator(accounts AccountService, usage UsageLogger, drafter Drafter, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{accounts: accounts, usage: usage, drafter: drafter, logger: logger}
}

// Generate runs one request end to end and returns the draft together with
// the settled user. Failure modes, in guard order:
//
//   - domain.ErrNotFound: no signed-in user for the profile
//   - domain.ErrEmptyDescription, domain.ErrInvalidSelection: bad input
//   - domain.ErrInsufficientPoints: balance below CostPerDraft, nothing spent
//   - domain.ErrDraftFailure: the service failed, nothing spent
//
// On success the debit is durably applied before returning; the usage append
// that follows is best-effort and a failure there does not refund the debit.
// Overlapping calls each settle against the then-current persisted balance.
func (o *Orchestrator) Generate(ctx context.Context, profileID string, req domain.DraftRequest, clientIP string) (*domain.Draft, *domain.User, error) {
	user, err := o.accounts.Load(ctx, profileID)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, user, domain.ErrEmptyDescription
	}
	if !req.Language.Valid() || !req.Tone.Valid() || !req.Category.Valid() {
		return nil, user, domain.ErrInvalidSelection
	}
	if user.Points < CostPerDraft {
		return nil, user, domain.ErrInsufficientPoints
	}

	result, err := o.drafter.Draft(ctx, req)
	if err != nil {
		o.logger.Error().Err(err).Str("profile", profileID).Msg("draft service failed")
		return nil, user, domain.ErrDraftFailure
	}

	settled, err := o.accounts.Debit(ctx, profileID, CostPerDraft)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientPoints) {
			// Another request spent the balance while this one was in
			// flight; the draft is discarded unbilled.
			return nil, settled, domain.ErrInsufficientPoints
		}
		return nil, nil, fmt.Errorf("draft: settle debit: %w", err)
	}

	if err := o.usage.RecordUsage(ctx, settled.Email, req.Language, req.Tone, req.Category, clientIP); err != nil {
		o.logger.Warn().Err(err).Str("profile", profileID).Msg("usage append failed after debit")
	}

	return result, settled, nil
}
