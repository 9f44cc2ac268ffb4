package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainApplicant "loan-origination/internal/domain/applicant"
	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/auth"
	domain "loan-origination/internal/domain/loan"
	"loan-origination/internal/domain/transition"
	"loan-origination/internal/domain/uow"
	"loan-origination/internal/infrastructure/metrics"
	"loan-origination/internal/usecase/amortization"
	ucApplicant "loan-origination/internal/usecase/applicant"
	"loan-origination/pkg/id"
)

// ApplicantResolver finds or registers the applicant behind a submission.
type ApplicantResolver interface {
	Resolve(ctx context.Context, in ucApplicant.ResolveInput) (*domainApplicant.Applicant, error)
}

// Usecase is the lifecycle controller: submission, edits, status
// transitions and removal of loans.
type Usecase struct {
	repo       domain.Repository
	uow        uow.UnitOfWork
	applicants ApplicantResolver
	metrics    *metrics.Metrics
	log        *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, applicants ApplicantResolver, m *metrics.Metrics, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{
		repo:       r,
		uow:        tx,
		applicants: applicants,
		metrics:    m,
		log:        log,
		tracer:     otel.Tracer("loan-origination/usecase/loan"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the loan terms, resolves the applicant by email and
// stores a Pending loan. The applicant stays registered even if the loan
// insert fails afterwards.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (dto *LoanDTO, err error) {
	ctx, span := u.tracer.Start(ctx, "loan.Submit")
	defer func() { endSpan(span, err) }()
	defer u.metrics.ObserveOperation("submit", time.Now())

	d, err := resolveTerms(in.LoanType, in.Principal, in.TermMonths, in.AnnualRate)
	if err != nil {
		return nil, err
	}

	a, err := u.applicants.Resolve(ctx, ucApplicant.ResolveInput{
		Name:       in.Applicant.Name,
		Email:      in.Applicant.Email,
		Credential: in.Applicant.Credential,
	})
	if err != nil {
		return nil, err
	}

	l := &domain.Loan{
		LoanID:      id.NewID32(),
		ApplicantID: a.ApplicantID,
		LoanType:    d.loanType,
		Principal:   d.principal,
		TermMonths:  d.term,
		AnnualRate:  d.rate,
		Status:      domain.StatusPending,
		Version:     1,
		CreatedAt:   u.now(),
	}
	if err := u.repo.Create(ctx, l); err != nil {
		u.log.ErrorContext(ctx, "loan insert failed", "applicant_id", a.ApplicantID, "err", err)
		return nil, err
	}
	l.Applicant = a

	span.SetAttributes(attribute.String("loan.id", l.LoanID))
	u.metrics.IncLoanSubmissions()
	u.log.InfoContext(ctx, "loan submitted", "loan_id", l.LoanID, "applicant_id", a.ApplicantID, "loan_type", l.LoanType)
	return toDTO(l), nil
}

// Calculate quotes a loan without storing anything.
func (u *Usecase) Calculate(in CalculateInput) (*QuoteDTO, error) {
	d, err := resolveTerms(in.LoanType, in.Principal, in.TermMonths, in.AnnualRate)
	if err != nil {
		return nil, err
	}
	q, err := amortization.Compute(d.principal, d.term, d.rate)
	if err != nil {
		return nil, err
	}
	q = q.Rounded()
	return &QuoteDTO{
		MonthlyPayment: q.MonthlyPayment.InexactFloat64(),
		TotalAmount:    q.TotalAmount.InexactFloat64(),
		TotalInterest:  q.TotalInterest.InexactFloat64(),
		AnnualRate:     d.rate.InexactFloat64(),
	}, nil
}

func (u *Usecase) Products() []ProductDTO {
	ps := domain.Products()
	out := make([]ProductDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, ProductDTO{
			ID:         p.ID,
			Name:       p.Name,
			MinAmount:  p.MinAmount.InexactFloat64(),
			MaxAmount:  p.MaxAmount.InexactFloat64(),
			MinTerm:    p.MinTerm,
			MaxTerm:    p.MaxTerm,
			AnnualRate: p.AnnualRate.InexactFloat64(),
		})
	}
	return out
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

// ListAll is restricted to staff.
func (u *Usecase) ListAll(ctx context.Context, who auth.Identity) ([]LoanDTO, error) {
	if !who.IsStaff() {
		return nil, apperr.ErrForbidden
	}
	ls, err := u.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// ListByApplicant returns an empty list for unknown applicants.
func (u *Usecase) ListByApplicant(ctx context.Context, applicantID string) ([]LoanDTO, error) {
	ls, err := u.repo.ListByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ls), nil
}

// ChangeStatus moves a loan along the lifecycle. Staff only. With force the
// state machine is bypassed and the transition is recorded as forced.
func (u *Usecase) ChangeStatus(ctx context.Context, who auth.Identity, loanID, status string, force bool) (dto *LoanDTO, err error) {
	ctx, span := u.tracer.Start(ctx, "loan.ChangeStatus", trace.WithAttributes(attribute.String("loan.id", loanID)))
	defer func() { endSpan(span, err) }()
	defer u.metrics.ObserveOperation("change_status", time.Now())

	if !who.IsStaff() {
		return nil, apperr.ErrForbidden
	}
	target, ok := domain.ParseStatus(status)
	if !ok {
		return nil, apperr.Invalid("status", "must be one of Pending, Approved, Rejected, Paid")
	}

	var from domain.Status
	err = u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		from = l.Status
		if err := u.transition(ctx, r, l, target, who, force); err != nil {
			return err
		}
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		u.noteFailure(ctx, "change_status", loanID, err)
		return nil, err
	}

	u.metrics.IncStatusChange(string(from), string(target))
	u.log.InfoContext(ctx, "loan status changed", "loan_id", loanID, "from", from, "to", target, "actor", who.Subject, "forced", force)
	return dto, nil
}

// Update replaces the editable fields of a loan. in.Version must match the
// stored version. Once a loan has left Pending only staff may edit it. A
// differing status goes through the same checks as ChangeStatus.
func (u *Usecase) Update(ctx context.Context, who auth.Identity, in UpdateInput) (dto *LoanDTO, err error) {
	ctx, span := u.tracer.Start(ctx, "loan.Update", trace.WithAttributes(attribute.String("loan.id", in.LoanID)))
	defer func() { endSpan(span, err) }()
	defer u.metrics.ObserveOperation("update", time.Now())

	if in.Version == 0 {
		return nil, apperr.Invalid("version", "is required")
	}
	if in.Force && !who.IsStaff() {
		return nil, apperr.ErrForbidden
	}
	var target domain.Status
	if s := strings.TrimSpace(in.Status); s != "" {
		st, ok := domain.ParseStatus(s)
		if !ok {
			return nil, apperr.Invalid("status", "must be one of Pending, Approved, Rejected, Paid")
		}
		target = st
	}

	var from domain.Status
	err = u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		if in.ApplicantID != "" && in.ApplicantID != l.ApplicantID {
			return apperr.Invalid("applicant_id", "cannot be changed")
		}
		// terms are frozen for applicants once staff has decided
		if l.Status != domain.StatusPending && !who.IsStaff() {
			return apperr.ErrForbidden
		}
		d, err := resolveTerms(l.LoanType, in.Principal, in.TermMonths, &in.AnnualRate)
		if err != nil {
			return err
		}

		from = l.Status
		if target != "" && target != l.Status {
			if !who.IsStaff() {
				return apperr.ErrForbidden
			}
			if err := u.transition(ctx, r, l, target, who, in.Force); err != nil {
				return err
			}
		}

		l.Principal = d.principal
		l.TermMonths = d.term
		l.AnnualRate = d.rate
		// the store compares against the version the client read
		l.Version = in.Version
		if err := r.Loans.Update(ctx, l); err != nil {
			return err
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		u.noteFailure(ctx, "update", in.LoanID, err)
		return nil, err
	}

	if target != "" && target != from {
		u.metrics.IncStatusChange(string(from), string(target))
	}
	u.log.InfoContext(ctx, "loan updated", "loan_id", in.LoanID, "version", dto.Version, "actor", who.Subject)
	return dto, nil
}

// History returns the audited transitions of a loan, oldest first. It reads
// without locking the loan row.
func (u *Usecase) History(ctx context.Context, loanID string) ([]TransitionDTO, error) {
	var out []TransitionDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		l, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		ts, err := r.Transitions.ListByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		out = make([]TransitionDTO, 0, len(ts))
		for _, t := range ts {
			out = append(out, TransitionDTO{
				TransitionID: t.TransitionID,
				FromStatus:   t.FromStatus,
				ToStatus:     t.ToStatus,
				ActorID:      t.ActorID,
				Forced:       t.Forced,
				CreatedAt:    t.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete soft-deletes a loan. Staff only.
func (u *Usecase) Delete(ctx context.Context, who auth.Identity, loanID string) (err error) {
	ctx, span := u.tracer.Start(ctx, "loan.Delete", trace.WithAttributes(attribute.String("loan.id", loanID)))
	defer func() { endSpan(span, err) }()

	if !who.IsStaff() {
		return apperr.ErrForbidden
	}
	if err := u.repo.Delete(ctx, loanID, who.Subject); err != nil {
		return err
	}
	u.log.InfoContext(ctx, "loan deleted", "loan_id", loanID, "actor", who.Subject)
	return nil
}

// transition checks the move and records it. l.Status is set to target;
// persisting l is left to the caller.
func (u *Usecase) transition(ctx context.Context, r uow.Repos, l *domain.Loan, target domain.Status, who auth.Identity, force bool) error {
	from := l.Status
	switch {
	case from == target:
		return fmt.Errorf("%w: loan is already %s", apperr.ErrInvalidTransition, from)
	case force:
		if !who.IsStaff() {
			return apperr.ErrForbidden
		}
	case !from.CanTransitionTo(target):
		return fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, from, target)
	}

	t := &transition.Transition{
		TransitionID: id.NewID32(),
		LoanID:       l.ID,
		FromStatus:   string(from),
		ToStatus:     string(target),
		ActorID:      who.Subject,
		Forced:       force,
		CreatedAt:    u.now(),
	}
	if err := r.Transitions.Create(ctx, t); err != nil {
		return err
	}
	l.Status = target
	return nil
}

func (u *Usecase) noteFailure(ctx context.Context, op, loanID string, err error) {
	switch {
	case errors.Is(err, apperr.ErrConflict):
		u.metrics.IncUpdateConflicts()
		u.log.WarnContext(ctx, "stale loan write rejected", "op", op, "loan_id", loanID)
	case errors.Is(err, apperr.ErrUnavailable):
		u.log.ErrorContext(ctx, "loan write failed", "op", op, "loan_id", loanID, "err", err)
	}
}

type terms struct {
	loanType  string
	principal decimal.Decimal
	term      int
	rate      decimal.Decimal
}

// resolveTerms validates loan terms, applying the product's ranges and
// default rate when a loan type is named. rate == nil means "not given".
func resolveTerms(loanType string, principal float64, term int, rate *float64) (terms, error) {
	var errs apperr.ValidationErrors
	d := terms{loanType: strings.ToLower(strings.TrimSpace(loanType)), term: term}

	var product *domain.Product
	if d.loanType != "" {
		p, ok := domain.ProductByID(d.loanType)
		if !ok {
			errs.Add("loan_type", "is not a known loan type")
		} else {
			product = &p
		}
	}

	if finite(principal) {
		d.principal = decimal.NewFromFloat(principal)
	} else {
		errs.Add("principal", "must be a finite number")
	}
	switch {
	case rate != nil && !finite(*rate):
		errs.Add("annual_rate", "must be a finite number")
	case rate != nil:
		d.rate = decimal.NewFromFloat(*rate)
	case product != nil:
		d.rate = product.AnnualRate
	default:
		errs.Add("annual_rate", "is required")
	}

	if err := amortization.Validate(d.principal, d.term, d.rate); err != nil {
		for _, fe := range apperr.Fields(err) {
			if !hasField(errs, fe.Field) {
				errs = append(errs, fe)
			}
		}
	}

	if product != nil {
		if d.principal.IsPositive() && (d.principal.LessThan(product.MinAmount) || d.principal.GreaterThan(product.MaxAmount)) && !hasField(errs, "principal") {
			errs.Add("principal", fmt.Sprintf("must be between %s and %s for %s", product.MinAmount, product.MaxAmount, product.Name))
		}
		if d.term >= 1 && (d.term < product.MinTerm || d.term > product.MaxTerm) && !hasField(errs, "term_months") {
			errs.Add("term_months", fmt.Sprintf("must be between %d and %d for %s", product.MinTerm, product.MaxTerm, product.Name))
		}
	}

	if err := errs.Err(); err != nil {
		return terms{}, err
	}
	return d, nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func hasField(errs apperr.ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func toDTO(l *domain.Loan) *LoanDTO {
	dto := &LoanDTO{
		LoanID:      l.LoanID,
		ApplicantID: l.ApplicantID,
		Applicant:   ucApplicant.ToDTO(l.Applicant),
		LoanType:    l.LoanType,
		Principal:   l.Principal.InexactFloat64(),
		TermMonths:  l.TermMonths,
		AnnualRate:  l.AnnualRate.InexactFloat64(),
		Status:      string(l.Status),
		Version:     l.Version,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	// stored rows are validated on write; a failure here leaves the quote zero
	if q, err := amortization.Compute(l.Principal, l.TermMonths, l.AnnualRate); err == nil {
		q = q.Rounded()
		dto.MonthlyPayment = q.MonthlyPayment.InexactFloat64()
		dto.TotalAmount = q.TotalAmount.InexactFloat64()
		dto.TotalInterest = q.TotalInterest.InexactFloat64()
	}
	return dto
}

func toDTOs(ls []domain.Loan) []LoanDTO {
	out := make([]LoanDTO, 0, len(ls))
	for i := range ls {
		out = append(out, *toDTO(&ls[i]))
	}
	return out
}
