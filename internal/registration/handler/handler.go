// Package handler exposes the registration workflow over HTTP. It is a thin
// layer: every route resolves the draft through the service and returns the
// updated draft state so clients can re-render from the response alone.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"legalbooks/internal/otp"
	"legalbooks/internal/platform/metrics"
	"legalbooks/internal/platform/middleware"
	"legalbooks/internal/registration"
	"legalbooks/internal/transport/http/shared"
	dErrors "legalbooks/pkg/domain-errors"
)

// maxPhotoBytes caps profile photo uploads.
const maxPhotoBytes = 5 << 20

// Service defines the registration operations the handler depends on.
type Service interface {
	CreateDraft(ctx context.Context, role string, prefill map[string]string) (*registration.Draft, error)
	GetDraft(ctx context.Context, id string) (*registration.Draft, error)
	SetField(ctx context.Context, draftID, name, value string) (*registration.Draft, error)
	SetPhoto(ctx context.Context, draftID, name string, data []byte) (*registration.Draft, error)
	OpenSelector(ctx context.Context, draftID string) (*registration.Draft, error)
	TogglePractice(ctx context.Context, draftID string, practiceID int) (*registration.Draft, error)
	ToggleSpecialization(ctx context.Context, draftID string, specID int) (*registration.Draft, error)
	ClearSelection(ctx context.Context, draftID string) (*registration.Draft, error)
	CommitSelection(ctx context.Context, draftID string, maxDisplayed int) (*registration.Draft, error)
	DiscardSelection(ctx context.Context, draftID string) (*registration.Draft, error)
	RequestOTP(ctx context.Context, draftID string, channel otp.ChannelType) (*registration.Draft, error)
	EnterOTPDigit(ctx context.Context, draftID string, channel otp.ChannelType, index int, value string) (*registration.Draft, int, error)
	VerifyOTP(ctx context.Context, draftID string, channel otp.ChannelType) (*registration.Draft, error)
	ChangeEmail(ctx context.Context, draftID, newEmail string) (*registration.Draft, error)
	Submit(ctx context.Context, draftID string) (*registration.SubmitResult, error)
}

// Handler handles registration draft endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	maxDisplayed int
}

// New creates a registration Handler. maxDisplayed bounds the practice area
// summary shown after committing a selection.
func New(service Service, logger *slog.Logger, m *metrics.Metrics, maxDisplayed int) *Handler {
	if maxDisplayed <= 0 {
		maxDisplayed = registration.DefaultMaxDisplayed
	}
	return &Handler{
		logger:       logger,
		service:      service,
		metrics:      m,
		maxDisplayed: maxDisplayed,
	}
}

// Register registers the registration routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	draftRouter := chi.NewRouter()
	draftRouter.Use(middleware.Timeout(30 * time.Second))
	draftRouter.Use(middleware.Latency(h.metrics, "registration"))

	jsonOnly := draftRouter.With(middleware.ContentTypeJSON)
	jsonOnly.Post("/", h.handleCreateDraft)
	jsonOnly.Get("/{draftID}", h.handleGetDraft)
	jsonOnly.Put("/{draftID}/fields", h.handleSetField)
	jsonOnly.Post("/{draftID}/selector/open", h.handleOpenSelector)
	jsonOnly.Post("/{draftID}/selector/practices/{practiceID}/toggle", h.handleTogglePractice)
	jsonOnly.Post("/{draftID}/selector/specializations/{specID}/toggle", h.handleToggleSpecialization)
	jsonOnly.Post("/{draftID}/selector/clear", h.handleClearSelection)
	jsonOnly.Post("/{draftID}/selector/commit", h.handleCommitSelection)
	jsonOnly.Post("/{draftID}/selector/discard", h.handleDiscardSelection)
	jsonOnly.Post("/{draftID}/otp/{channel}/send", h.handleSendOTP)
	jsonOnly.Put("/{draftID}/otp/{channel}/digits/{index}", h.handleEnterDigit)
	jsonOnly.Post("/{draftID}/otp/{channel}/verify", h.handleVerifyOTP)
	jsonOnly.Post("/{draftID}/email", h.handleChangeEmail)
	jsonOnly.Post("/{draftID}/submit", h.handleSubmit)

	// Multipart upload, mounted without the JSON content type guard.
	draftRouter.Put("/{draftID}/photo", h.handleSetPhoto)

	r.Mount("/onboarding/drafts", draftRouter)
}

func (h *Handler) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Role    string            `json:"role"`
		Prefill map[string]string `json:"prefill"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	draft, err := h.service.CreateDraft(ctx, req.Role, req.Prefill)
	if err != nil {
		h.logError(ctx, "failed to create draft", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, draft)
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	draft, err := h.service.GetDraft(ctx, chi.URLParam(r, "draftID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleSetField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Name == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "field name is required"))
		return
	}

	draft, err := h.service.SetField(ctx, chi.URLParam(r, "draftID"), req.Name, req.Value)
	if err != nil {
		h.logError(ctx, "failed to set field", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleSetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body"))
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "photo file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read photo"))
		return
	}
	if len(data) > maxPhotoBytes {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "photo exceeds the size limit"))
		return
	}

	draft, err := h.service.SetPhoto(ctx, chi.URLParam(r, "draftID"), header.Filename, data)
	if err != nil {
		h.logError(ctx, "failed to set photo", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleOpenSelector(w http.ResponseWriter, r *http.Request) {
	h.draftOp(w, r, func(ctx context.Context, draftID string) (*registration.Draft, error) {
		return h.service.OpenSelector(ctx, draftID)
	})
}

func (h *Handler) handleTogglePractice(w http.ResponseWriter, r *http.Request) {
	practiceID, err := strconv.Atoi(chi.URLParam(r, "practiceID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "practice id must be numeric"))
		return
	}
	h.draftOp(w, r, func(ctx context.Context, draftID string) (*registration.Draft, error) {
		return h.service.TogglePractice(ctx, draftID, practiceID)
	})
}

func (h *Handler) handleToggleSpecialization(w http.ResponseWriter, r *http.Request) {
	specID, err := strconv.Atoi(chi.URLParam(r, "specID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "specialization id must be numeric"))
		return
	}
	h.draftOp(w, r, func(ctx context.Context, draftID string) (*registration.Draft, error) {
		return h.service.ToggleSpecialization(ctx, draftID, specID)
	})
}

func (h *Handler) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	h.draftOp(w, r, h.service.ClearSelection)
}

func (h *Handler) handleCommitSelection(w http.ResponseWriter, r *http.Request) {
	h.draftOp(w, r, func(ctx context.Context, draftID string) (*registration.Draft, error) {
		return h.service.CommitSelection(ctx, draftID, h.maxDisplayed)
	})
}

func (h *Handler) handleDiscardSelection(w http.ResponseWriter, r *http.Request) {
	h.draftOp(w, r, h.service.DiscardSelection)
}

func (h *Handler) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	channel, ok := channelParam(r)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown otp channel"))
		return
	}
	h.draftOp(w, r, func(ctx context.Context, draftID string) (*registration.Draft, error) {
		return h.service.RequestOTP(ctx, draftID, channel)
	})
}

func (h *Handler) handleEnterDigit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	channel, ok := channelParam(r)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown otp channel"))
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "digit index must be numeric"))
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	draft, focus, err := h.service.EnterOTPDigit(ctx, chi.URLParam(r, "draftID"), channel, index, req.Value)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, struct {
		Draft *registration.Draft `json:"draft"`
		Focus int                 `json:"focus"`
	}{Draft: draft, Focus: focus})
}

func (h *Handler) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	channel, ok := channelParam(r)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown otp channel"))
		return
	}
	h.draftOp(w, r, func(ctx context.Context, draftID string) (*registration.Draft, error) {
		return h.service.VerifyOTP(ctx, draftID, channel)
	})
}

func (h *Handler) handleChangeEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	draft, err := h.service.ChangeEmail(ctx, chi.URLParam(r, "draftID"), req.Email)
	if err != nil {
		h.logError(ctx, "failed to change email", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.service.Submit(ctx, chi.URLParam(r, "draftID"))
	if err != nil {
		h.logError(ctx, "failed to submit registration", err)
		shared.WriteError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	shared.WriteJSON(w, status, result)
}

// draftOp runs a draft mutation and writes the updated draft, sharing the
// error handling for routes whose only input is the draft ID.
func (h *Handler) draftOp(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*registration.Draft, error)) {
	ctx := r.Context()

	draft, err := op(ctx, chi.URLParam(r, "draftID"))
	if err != nil {
		h.logError(ctx, "draft operation failed", err)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) || dErrors.Is(err, dErrors.CodeBadGateway) {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"error", err.Error(),
	)
}

func channelParam(r *http.Request) (otp.ChannelType, bool) {
	switch chi.URLParam(r, "channel") {
	case "email":
		return otp.ChannelEmail, true
	case "mobile":
		return otp.ChannelMobile, true
	default:
		return "", false
	}
}
