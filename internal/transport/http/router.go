package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"daily-quiz-service/internal/app"
	"github.com/gorilla/mux"
)

// NewRouter wires the REST API, the websocket endpoint and the health check.
func NewRouter(service *app.DailyQuizService, logger *slog.Logger) *mux.Router {
	api := &apiHandler{service: service, logger: logger}
	ws := NewWSHandler(service, logger)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS)

	r.HandleFunc("/api/question", api.currentQuestion).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{playerId}", api.state).Methods(http.MethodGet)
	r.HandleFunc("/api/players/{playerId}", api.leave).Methods(http.MethodDelete)
	r.HandleFunc("/api/players/{playerId}/join", api.join).Methods(http.MethodPost)
	r.HandleFunc("/api/players/{playerId}/select", api.selectOption).Methods(http.MethodPost)
	r.HandleFunc("/api/players/{playerId}/submit", api.submit).Methods(http.MethodPost)
	return r
}

type apiHandler struct {
	service *app.DailyQuizService
	logger  *slog.Logger
}

type selectRequest struct {
	Option *int `json:"option"`
}

func (h *apiHandler) currentQuestion(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.Current(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (h *apiHandler) join(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Join(r.Context(), mux.Vars(r)["playerId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *apiHandler) state(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.State(mux.Vars(r)["playerId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *apiHandler) selectOption(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Option == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Code: "bad_request", Message: "body must be {\"option\": <index>}"})
		return
	}
	view, err := h.service.Select(mux.Vars(r)["playerId"], *req.Option)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *apiHandler) submit(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Submit(mux.Vars(r)["playerId"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *apiHandler) leave(w http.ResponseWriter, r *http.Request) {
	h.service.Leave(mux.Vars(r)["playerId"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *apiHandler) writeError(w http.ResponseWriter, err error) {
	code, status := classify(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorPayload{Code: code, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
