package registration

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"legalbooks/internal/audit"
	"legalbooks/internal/catalog"
	"legalbooks/internal/otp"
	"legalbooks/internal/platform/config"
	"legalbooks/internal/platform/metrics"
	"legalbooks/internal/upstream"
	dErrors "legalbooks/pkg/domain-errors"
	"legalbooks/pkg/email"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Backend,DraftStore,AuditPublisher,ResendLimiter

// Backend is the slice of the upstream client the workflow needs.
type Backend interface {
	GenerateOTP(ctx context.Context, entity, entityType, requestType string) error
	ValidateOTP(ctx context.Context, entity, entityType, requestType string, otp int) error
	Register(ctx context.Context, p *upstream.RegisterPayload) (*upstream.RegisterResult, error)
}

// DraftStore persists drafts for their short lifetime.
type DraftStore interface {
	Create(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id string) (*Draft, error)
	Save(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, id string) error
}

// AuditPublisher records workflow events, best effort.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// ResendLimiter caps OTP generate requests per entity.
type ResendLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// SubmitResult reports the outcome of a submission attempt.
type SubmitResult struct {
	Success     bool              `json:"success"`
	Msg         string            `json:"msg,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

// Service drives the registration workflow for all registrant variants.
type Service struct {
	backend  Backend
	drafts   DraftStore
	catalogs *catalog.Service
	auditor  AuditPublisher
	limiter  ResendLimiter
	logger   *slog.Logger
	metrics  *metrics.Metrics
	otpCfg   config.OTP
	clock    func() time.Time
}

// NewService wires the workflow dependencies.
func NewService(
	backend Backend,
	drafts DraftStore,
	catalogs *catalog.Service,
	auditor AuditPublisher,
	limiter ResendLimiter,
	logger *slog.Logger,
	m *metrics.Metrics,
	otpCfg config.OTP,
) *Service {
	return &Service{
		backend:  backend,
		drafts:   drafts,
		catalogs: catalogs,
		auditor:  auditor,
		limiter:  limiter,
		logger:   logger,
		metrics:  m,
		otpCfg:   otpCfg,
		clock:    time.Now,
	}
}

// WithClock injects the time source for tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// CreateDraft mounts a fresh draft for one registrant variant. Prefill
// carries values handed off from Google sign-in (email, name).
func (s *Service) CreateDraft(ctx context.Context, role string, prefill map[string]string) (*Draft, error) {
	if _, ok := RoleConfigs[role]; !ok {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unsupported role %q", role)
	}
	d := NewDraft(uuid.NewString(), role, s.otpCfg.Digits, s.clock())
	for name, value := range prefill {
		d.Fields[name] = value
	}
	// Google-seeded drafts arrive with only an email; guess the names.
	if d.Fields[FieldEmail] != "" && d.Fields[FieldFirstName] == "" && d.Fields[FieldLastName] == "" {
		d.Fields[FieldFirstName], d.Fields[FieldLastName] = email.DeriveNameFromEmail(d.Fields[FieldEmail])
	}
	if err := s.drafts.Create(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create draft")
	}
	s.metrics.DraftsCreated.Inc()
	s.emit(ctx, d, audit.ActionDraftCreated, "")
	return d, nil
}

// GetDraft loads one draft.
func (s *Service) GetDraft(ctx context.Context, id string) (*Draft, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "draft not found")
	}
	return d, nil
}

// SetField applies one input change: the field is updated, its prior
// validation error cleared, and the special cases run. pin_code is
// normalized to at most six digits; a state change resets the dependent
// city; a primary-area change pushes the chosen id to the front of the
// secondary set.
func (s *Service) SetField(ctx context.Context, draftID, name, value string) (*Draft, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	switch name {
	case FieldPinCode:
		d.Fields[FieldPinCode] = NormalizePinCode(value)
	case FieldState:
		d.Fields[FieldState] = value
		d.Fields[FieldCity] = ""
		delete(d.Errors, FieldCity)
	case FieldPrimaryArea:
		id, convErr := strconv.Atoi(value)
		if convErr != nil || id <= 0 {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "primary area must be a practice id")
		}
		d.PrimaryArea = id
		d.SecondaryAreas = pushFront(d.SecondaryAreas, id)
	case FieldEmail:
		if !d.EmailEditable {
			return nil, dErrors.New(dErrors.CodeConflict, "email is locked while OTP verification is pending")
		}
		d.Fields[FieldEmail] = value
	case FieldPassword:
		d.Fields[FieldPassword] = value
		if msg := ValidatePassword(value); msg != "" {
			d.Errors[FieldPassword] = msg
		}
	case FieldConfirmPassword:
		d.Fields[FieldConfirmPassword] = value
		if value != d.Fields[FieldPassword] {
			d.Errors[FieldConfirmPassword] = "Passwords do not match"
		}
	default:
		d.Fields[name] = value
	}

	if name != FieldPassword && name != FieldConfirmPassword {
		delete(d.Errors, name)
	}
	d.UpdatedAt = s.clock()

	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return d, nil
}

// SetPhoto attaches the profile photo part.
func (s *Service) SetPhoto(ctx context.Context, draftID, name string, data []byte) (*Draft, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	d.PhotoName = name
	d.Photo = data
	d.UpdatedAt = s.clock()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return d, nil
}

// OpenSelector starts a practice-area selection from the draft's current
// state, auto-including the primary area and its specializations.
func (s *Service) OpenSelector(ctx context.Context, draftID string) (*Draft, error) {
	d, cat, err := s.draftWithCatalog(ctx, draftID)
	if err != nil {
		return nil, err
	}
	sel := NewSelection(cat.Practices, d.SecondaryAreas, d.PrimaryArea)
	d.PendingAreas = sel.IDs()
	d.SelectorOpen = true
	d.UpdatedAt = s.clock()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return d, nil
}

// TogglePractice toggles a practice parent checkbox in the open selector.
func (s *Service) TogglePractice(ctx context.Context, draftID string, practiceID int) (*Draft, error) {
	return s.toggle(ctx, draftID, func(sel *Selection) error {
		return sel.TogglePractice(practiceID)
	})
}

// ToggleSpecialization toggles a specialization checkbox in the open
// selector.
func (s *Service) ToggleSpecialization(ctx context.Context, draftID string, specID int) (*Draft, error) {
	return s.toggle(ctx, draftID, func(sel *Selection) error {
		return sel.ToggleSpecialization(specID)
	})
}

// ClearSelection empties the open selector.
func (s *Service) ClearSelection(ctx context.Context, draftID string) (*Draft, error) {
	return s.toggle(ctx, draftID, func(sel *Selection) error {
		sel.Clear()
		return nil
	})
}

// CommitSelection closes the selector, writing the id list and summary back
// to the draft.
func (s *Service) CommitSelection(ctx context.Context, draftID string, maxDisplayed int) (*Draft, error) {
	d, cat, err := s.draftWithCatalog(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !d.SelectorOpen {
		return nil, dErrors.New(dErrors.CodeConflict, "practice selector is not open")
	}
	sel := NewSelection(cat.Practices, d.PendingAreas, 0)
	d.SecondaryAreas, d.AreaSummary = sel.Commit(maxDisplayed)
	d.PendingAreas = nil
	d.SelectorOpen = false
	d.UpdatedAt = s.clock()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return d, nil
}

// DiscardSelection closes the selector without applying pending changes.
func (s *Service) DiscardSelection(ctx context.Context, draftID string) (*Draft, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	d.PendingAreas = nil
	d.SelectorOpen = false
	d.UpdatedAt = s.clock()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return d, nil
}

// RequestOTP asks the backend to send a code on one channel. Success moves
// the channel to Sent; for email it also locks the email field. Mobile in
// legacy trust mode short-circuits straight to Verified.
func (s *Service) RequestOTP(ctx context.Context, draftID string, channel otp.ChannelType) (*Draft, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	entity, field, err := s.channelEntity(d, channel)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		ok, limErr := s.limiter.Allow(ctx, string(channel)+":"+entity)
		if limErr != nil {
			s.logger.WarnContext(ctx, "otp rate limiter unavailable", "error", limErr)
		} else if !ok {
			s.metrics.OTPRequests.WithLabelValues(string(channel), "throttled").Inc()
			return nil, dErrors.New(dErrors.CodeConflict, "too many OTP requests, please wait before retrying")
		}
	}

	if err := s.backend.GenerateOTP(ctx, entity, string(channel), "register"); err != nil {
		d.Errors[field] = dErrors.MessageOf(err)
		if saveErr := s.drafts.Save(ctx, d); saveErr != nil {
			s.logger.ErrorContext(ctx, "failed to record otp error", "error", saveErr)
		}
		s.metrics.OTPRequests.WithLabelValues(string(channel), "failure").Inc()
		return nil, err
	}

	ch := d.Channel(channel)
	if err := ch.MarkSent(entity); err != nil {
		return nil, err
	}
	if channel == otp.ChannelEmail {
		d.EmailEditable = false
	}
	if channel == otp.ChannelMobile && s.otpCfg.TrustMobile {
		// Legacy parity: the original client treated a sent mobile OTP as
		// verified without checking the digits.
		if err := ch.MarkVerified(); err != nil {
			return nil, err
		}
	}
	delete(d.Errors, field)
	d.UpdatedAt = s.clock()

	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	s.metrics.OTPRequests.WithLabelValues(string(channel), "success").Inc()
	s.emit(ctx, d, audit.ActionOTPSent, string(channel))
	return d, nil
}

// EnterOTPDigit records one digit-slot change and returns the slot that
// should receive focus next.
func (s *Service) EnterOTPDigit(ctx context.Context, draftID string, channel otp.ChannelType, index int, value string) (*Draft, int, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, 0, err
	}
	next, err := d.Channel(channel).EnterDigit(index, value)
	if err != nil {
		return nil, 0, err
	}
	d.UpdatedAt = s.clock()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return d, next, nil
}

// VerifyOTP checks the entered code against the backend. The channel only
// reaches Verified on an explicit success; a rejected code leaves it in Sent
// with the error recorded under the channel's field.
func (s *Service) VerifyOTP(ctx context.Context, draftID string, channel otp.ChannelType) (*Draft, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	ch := d.Channel(channel)
	entity, field, err := s.channelEntity(d, channel)
	if err != nil {
		return nil, err
	}

	if channel == otp.ChannelMobile && s.otpCfg.TrustMobile {
		if err := ch.MarkVerified(); err != nil {
			return nil, err
		}
	} else {
		code, codeErr := ch.Code()
		if codeErr != nil {
			return nil, codeErr
		}
		if err := s.backend.ValidateOTP(ctx, entity, string(channel), "register", code); err != nil {
			d.Errors[field+"_otp"] = "Failed to verify " + string(channel) + " OTP"
			if saveErr := s.drafts.Save(ctx, d); saveErr != nil {
				s.logger.ErrorContext(ctx, "failed to record otp error", "error", saveErr)
			}
			s.metrics.OTPVerified.WithLabelValues(string(channel), "failure").Inc()
			return nil, err
		}
		if err := ch.MarkVerified(); err != nil {
			return nil, err
		}
	}

	delete(d.Errors, field+"_otp")
	d.UpdatedAt = s.clock()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	s.metrics.OTPVerified.WithLabelValues(string(channel), "success").Inc()
	s.emit(ctx, d, audit.ActionOTPVerified, string(channel))
	return d, nil
}

// ChangeEmail resets the email channel to Idle, re-enables the email field,
// and stores the new address.
func (s *Service) ChangeEmail(ctx context.Context, draftID, newEmail string) (*Draft, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	d.Email.Reset()
	d.EmailEditable = true
	d.Fields[FieldEmail] = newEmail
	delete(d.Errors, FieldEmail)
	delete(d.Errors, FieldEmail+"_otp")
	d.UpdatedAt = s.clock()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return d, nil
}

// Submit runs the submission pipeline: validation gate, OTP gate, payload
// assembly, upstream POST. On upstream success the draft resets to its
// defaults; there is no automatic retry.
func (s *Service) Submit(ctx context.Context, draftID string) (*SubmitResult, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	rc := RoleConfigs[d.Role]

	if errs := Validate(d, rc); len(errs) > 0 {
		d.Errors = errs
		if saveErr := s.drafts.Save(ctx, d); saveErr != nil {
			s.logger.ErrorContext(ctx, "failed to record validation errors", "error", saveErr)
		}
		return &SubmitResult{FieldErrors: errs}, nil
	}

	if !d.Verified() {
		return &SubmitResult{Msg: "Please verify both email and mobile OTPs"}, nil
	}

	payload := s.assemblePayload(d, rc)
	result, err := s.backend.Register(ctx, payload)
	if err != nil {
		s.metrics.Registrations.WithLabelValues("failure").Inc()
		s.emit(ctx, d, audit.ActionRegistrationFailed, dErrors.MessageOf(err))
		return &SubmitResult{Msg: dErrors.MessageOf(err)}, nil
	}

	s.metrics.Registrations.WithLabelValues("success").Inc()
	s.emit(ctx, d, audit.ActionRegistrationSucceeded, "")

	d.Reset(s.otpCfg.Digits, s.clock())
	if err := s.drafts.Save(ctx, d); err != nil {
		s.logger.ErrorContext(ctx, "failed to reset submitted draft", "error", err)
	}
	return &SubmitResult{Success: true, Msg: result.Msg}, nil
}

func (s *Service) assemblePayload(d *Draft, rc RoleConfig) *upstream.RegisterPayload {
	years, _ := strconv.Atoi(d.Fields[FieldYearsOfPractice])
	months, _ := strconv.Atoi(d.Fields[FieldMonthsOfPractic])
	totalMonths := years*12 + months

	p := &upstream.RegisterPayload{
		Role:      d.Role,
		Email:     d.Fields[FieldEmail],
		Mobile:    d.Fields[FieldMobile],
		Address:   d.Fields[FieldAddress],
		State:     d.Fields[FieldState],
		City:      d.Fields[FieldCity],
		Pincode:   d.Fields[FieldPinCode],
		About:     d.Fields[FieldAbout],
		Password:  d.Fields[FieldPassword],
		PhotoName: d.PhotoName,
		Photo:     d.Photo,
	}
	if rc.PersonName {
		p.FirstName = d.Fields[FieldFirstName]
		p.LastName = d.Fields[FieldLastName]
	} else {
		p.FirmName = d.Fields[FieldFirmName]
	}
	if rc.Experience {
		p.ExperienceYears = totalMonths / 12
		p.ExperienceMonths = totalMonths % 12
	}
	if rc.Practice {
		p.PrimaryArea = d.PrimaryArea
		p.SecondaryAreas = d.SecondaryAreas
	}
	if rc.Courts {
		p.Courts = d.Fields[FieldCourt]
	}
	return p
}

func (s *Service) toggle(ctx context.Context, draftID string, apply func(*Selection) error) (*Draft, error) {
	d, cat, err := s.draftWithCatalog(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !d.SelectorOpen {
		return nil, dErrors.New(dErrors.CodeConflict, "practice selector is not open")
	}
	sel := NewSelection(cat.Practices, d.PendingAreas, 0)
	if err := apply(sel); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid selection")
	}
	d.PendingAreas = sel.IDs()
	d.UpdatedAt = s.clock()
	if err := s.drafts.Save(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return d, nil
}

func (s *Service) draftWithCatalog(ctx context.Context, draftID string) (*Draft, *catalog.Catalog, error) {
	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return nil, nil, err
	}
	cat := s.catalogs.Load(ctx, d.Role)
	if len(cat.Practices) == 0 {
		return nil, nil, dErrors.New(dErrors.CodeUnavailable, "practice catalog is unavailable")
	}
	return d, cat, nil
}

func (s *Service) channelEntity(d *Draft, channel otp.ChannelType) (entity, field string, err error) {
	switch channel {
	case otp.ChannelEmail:
		entity, field = d.Fields[FieldEmail], FieldEmail
		if entity == "" {
			return "", "", dErrors.New(dErrors.CodeInvalidInput, "Email is required to send OTP")
		}
	case otp.ChannelMobile:
		entity, field = d.Fields[FieldMobile], FieldMobile
		if entity == "" {
			return "", "", dErrors.New(dErrors.CodeInvalidInput, "Mobile number is required to send OTP")
		}
	default:
		return "", "", dErrors.Newf(dErrors.CodeBadRequest, "unknown channel %q", channel)
	}
	return entity, field, nil
}

func (s *Service) emit(ctx context.Context, d *Draft, action audit.Action, detail string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Timestamp: s.clock(),
		DraftID:   d.ID,
		Role:      d.Role,
		Action:    action,
		Detail:    detail,
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", string(action), "error", err)
	}
}

func pushFront(ids []int, id int) []int {
	out := []int{id}
	for _, got := range ids {
		if got != id {
			out = append(out, got)
		}
	}
	return out
}
