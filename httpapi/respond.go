package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/vaudoise/backoffice/logging"
	"github.com/vaudoise/backoffice/service"
)

type errorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Status    int       `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the code of a service error, or with a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.FromContext(r.Context())

	se, ok := service.AsError(err)
	if !ok {
		log.Error("unexpected error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Timestamp: s.now(),
			Error:     "INTERNAL_SERVER_ERROR",
			Message:   http.StatusText(http.StatusInternalServerError),
			Status:    http.StatusInternalServerError,
		})
		return
	}

	if se.Status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Object("service_error", se), zap.Error(err))
	} else {
		log.Info("request rejected", zap.Object("service_error", se))
	}
	writeJSON(w, se.Status, errorResponse{
		Timestamp: s.now(),
		Error:     strconv.Itoa(int(se.Code)),
		Message:   se.Error(),
		Status:    se.Status,
	})
}
