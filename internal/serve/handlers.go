package serve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/CZERTAINLY/log-lens/internal/model"
	"github.com/CZERTAINLY/log-lens/internal/report"

	"github.com/gorilla/mux"
	pd "github.com/kodeart/go-problem/v2"
)

const problemContentType = "application/problem+json"

type checkHealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) checkHealth(w http.ResponseWriter, r *http.Request) {
	toJson(r.Context(), w, checkHealthResponse{
		Status: "ok",
	})
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	typ := mux.Vars(r)["type"]

	t, err := report.ParseType(typ)
	if err != nil {
		slog.DebugContext(ctx, "unsupported report type", "type", typ)
		toProblem(ctx, w, statusOf(err), err.Error())
		return
	}

	out, err := s.an.Analyze(ctx, s.paths, string(t))
	if err != nil {
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			slog.ErrorContext(ctx, "analysis failed", "error", err)
		} else {
			slog.DebugContext(ctx, "analysis rejected", "error", err)
		}
		toProblem(ctx, w, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", t.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

func statusOf(err error) int {
	var invalid *model.InvalidReportTypeError
	var missing *model.MissingFilesError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &missing):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func toProblem(ctx context.Context, w http.ResponseWriter, status int, detail string) {
	b, err := json.Marshal(pd.Problem{
		Status: status,
		Detail: detail,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal problem detail", "error", err)
		http.Error(w, "Internal server error.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
