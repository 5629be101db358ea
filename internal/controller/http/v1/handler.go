package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
	"github.com/kurochkinivan/attachment_analyzer/internal/pipeline"
)

type WebhookProcessor interface {
	Process(ctx context.Context, req pipeline.Request) (*pipeline.Outcome, error)
}

type WebhookHandler struct {
	log       *slog.Logger
	processor WebhookProcessor
}

func NewWebhookHandler(log *slog.Logger, processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{
		log:       log,
		processor: processor,
	}
}

type WebhookResponse struct {
	Status string    `json:"status"`
	CardID domain.ID `json:"card_id,omitempty"`
	JobID  string    `json:"job_id,omitempty"`
	Reason string    `json:"reason,omitempty"`
	Error  string    `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	outcome, err := h.processor.Process(r.Context(), pipeline.Request{
		Authorization: r.Header.Get("Authorization"),
		Body:          r.Body,
	})
	if err != nil {
		kind := domain.KindOf(err)

		h.log.DebugContext(r.Context(), "webhook failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error_kind", string(kind)),
		)

		resp := WebhookResponse{Status: string(domain.StateFailed), Error: string(kind)}
		if outcome != nil {
			resp.CardID = outcome.CardID
			resp.JobID = outcome.JobID
		}

		writeJSON(w, r, h.log, statusCode(kind), resp)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, WebhookResponse{
		Status: string(outcome.State),
		CardID: outcome.CardID,
		JobID:  outcome.JobID,
		Reason: outcome.Reason,
	})
}

func (h *WebhookHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.log, http.StatusOK, HealthResponse{Status: "ok"})
}

func statusCode(kind domain.Kind) int {
	switch kind {
	case domain.KindAuth:
		return http.StatusUnauthorized
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindDownload, domain.KindAnalysis:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.ErrorContext(r.Context(), "failed to marshal response", slog.String("err", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}
