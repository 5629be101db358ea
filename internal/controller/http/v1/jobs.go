package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kurochkinivan/attachment_analyzer/internal/domain"
)

type JobHistory interface {
	JobsByCard(ctx context.Context, cardID domain.ID) ([]*domain.JobEntry, error)
}

type Authenticator interface {
	Admit(authorization string) error
}

type JobsHandler struct {
	log     *slog.Logger
	history JobHistory
}

func NewJobsHandler(log *slog.Logger, history JobHistory) *JobsHandler {
	return &JobsHandler{
		log:     log,
		history: history,
	}
}

type JobsResponse struct {
	CardID domain.ID          `json:"card_id"`
	Jobs   []*domain.JobEntry `json:"jobs"`
}

func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	cardID := domain.ID(chi.URLParam(r, "cardID"))

	jobs, err := h.history.JobsByCard(r.Context(), cardID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list jobs",
			slog.String("card_id", cardID.String()),
			slog.String("err", err.Error()),
		)
		writeJSON(w, r, h.log, http.StatusInternalServerError, WebhookResponse{
			Status: string(domain.StateFailed),
			Error:  string(domain.KindInternal),
		})
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, JobsResponse{CardID: cardID, Jobs: jobs})
}

// requireBearer rejects requests the guard does not admit.
func requireBearer(log *slog.Logger, guard Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := guard.Admit(r.Header.Get("Authorization")); err != nil {
				writeJSON(w, r, log, http.StatusUnauthorized, WebhookResponse{
					Status: string(domain.StateFailed),
					Error:  string(domain.KindAuth),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
