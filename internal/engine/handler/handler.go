// Package handler exposes the evaluation engine over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"codee/internal/engine"
	"codee/internal/platform/middleware"
	"codee/internal/rules"
	dErrors "codee/pkg/domain-errors"
	"codee/pkg/platform/httputil"
	"codee/pkg/requestcontext"
)

// Service is the engine surface the handler needs.
type Service interface {
	Evaluate(ctx context.Context, req engine.EvaluateRequest) (engine.Decision, error)
	Tree() *rules.Tree
}

// Handler handles evaluation and rule administration endpoints.
type Handler struct {
	logger       *slog.Logger
	engine       Service
	jwtValidator middleware.JWTValidator
}

// New creates an engine Handler.
func New(engine Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		engine:       engine,
		jwtValidator: jwtValidator,
	}
}

// Register registers the engine routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/evaluate", h.handleEvaluate)

	r.Route("/rules", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(h.jwtValidator, h.logger))
		r.Get("/", h.handleGetRules)
		r.Get("/validate", h.handleValidateRules)
	})
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[engine.EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision, err := h.engine.Evaluate(ctx, req)
	if err != nil {
		if dErrors.AsError(err).Code == dErrors.CodeBadRequest {
			h.logger.WarnContext(ctx, "invalid evaluate request",
				"request_id", requestID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to evaluate turn",
			"request_id", requestID,
			"conversation_id", req.ConversationID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, decision)
}

func (h *Handler) handleGetRules(w http.ResponseWriter, r *http.Request) {
	data, err := h.engine.Tree().Dump()
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode rule tree",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to encode rules"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleValidateRules(w http.ResponseWriter, r *http.Request) {
	report := h.engine.Tree().Validate()
	status := http.StatusOK
	if !report.OK() {
		status = http.StatusUnprocessableEntity
	}
	httputil.WriteJSON(w, status, report)
}
