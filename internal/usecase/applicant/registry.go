package applicant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"loan-origination/internal/domain/apperr"
	domain "loan-origination/internal/domain/applicant"
	"loan-origination/internal/infrastructure/metrics"
	"loan-origination/pkg/credential"
	"loan-origination/pkg/id"
)

const (
	maxNameLen    = 100
	flightTimeout = 10 * time.Second
)

// Registry resolves applicants by email, creating them on first sight.
// Concurrent resolutions of one email inside a process share a single store
// round trip; a caller whose own input was not the one validated resolves
// again on its own. Across processes the unique email index decides and the
// loser re-reads the winner.
type Registry struct {
	repo    domain.Repository
	hasher  credential.Hasher
	metrics *metrics.Metrics
	log     *slog.Logger
	v       *validator.Validate
	group   singleflight.Group
	now     func() time.Time
}

func NewRegistry(repo domain.Repository, hasher credential.Hasher, m *metrics.Metrics, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		repo:    repo,
		hasher:  hasher,
		metrics: m,
		log:     log,
		v:       validator.New(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail trims and lower-cases an address and checks its format.
func (r *Registry) NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", apperr.Invalid("email", "is required")
	}
	if err := r.v.Var(email, "email,max=255"); err != nil {
		return "", apperr.Invalid("email", "must be a valid email address")
	}
	return email, nil
}

// Resolve returns the applicant owning in.Email. An existing record wins:
// name and credential on the request are then ignored.
func (r *Registry) Resolve(ctx context.Context, in ResolveInput) (*domain.Applicant, error) {
	email, err := r.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	ch := r.group.DoChan(email, func() (any, error) {
		// detached: one caller leaving must not fail the others
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		return r.resolve(fctx, email, in)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil && res.Shared && apperr.IsValidation(res.Err) {
		// the flight validated another caller's name and credential
		r.log.DebugContext(ctx, "shared applicant resolution rejected input, resolving alone")
		return r.resolve(ctx, email, in)
	}
	if res.Err != nil {
		return nil, res.Err
	}
	// callers sharing a flight must not share the pointer
	a := *res.Val.(*domain.Applicant)
	return &a, nil
}

func (r *Registry) resolve(ctx context.Context, email string, in ResolveInput) (*domain.Applicant, error) {
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := r.repo.GetByEmail(ctx, email)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}

		a, err := r.newApplicant(email, in)
		if err != nil {
			return nil, err
		}
		err = r.repo.Create(ctx, a)
		if err == nil {
			r.metrics.IncApplicantsCreated()
			r.log.InfoContext(ctx, "applicant created", "applicant_id", a.ApplicantID)
			return a, nil
		}
		if !errors.Is(err, apperr.ErrDuplicate) {
			return nil, err
		}
		// another writer registered the email first; read theirs
		r.log.DebugContext(ctx, "applicant email taken concurrently, re-reading")
	}
	return nil, fmt.Errorf("resolve applicant: %w", apperr.ErrConflict)
}

func (r *Registry) newApplicant(email string, in ResolveInput) (*domain.Applicant, error) {
	var errs apperr.ValidationErrors
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		errs.Add("name", "is required")
	case len([]rune(name)) > maxNameLen:
		errs.Add("name", "must be at most 100 characters")
	}

	var hash string
	if in.Credential != "" {
		h, err := r.hasher.Hash(in.Credential)
		switch {
		case errors.Is(err, credential.ErrTooLong):
			errs.Add("credential", "is too long")
		case err != nil:
			return nil, err
		default:
			hash = h
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return &domain.Applicant{
		ApplicantID:    id.NewID32(),
		Name:           name,
		Email:          email,
		CredentialHash: hash,
		CreatedAt:      r.now(),
	}, nil
}

// Get loads an applicant by public id.
func (r *Registry) Get(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	return r.repo.GetByApplicantID(ctx, applicantID)
}

// ToDTO strips the credential hash.
func ToDTO(a *domain.Applicant) *ApplicantDTO {
	if a == nil {
		return nil
	}
	return &ApplicantDTO{
		ApplicantID: a.ApplicantID,
		Name:        a.Name,
		Email:       a.Email,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
