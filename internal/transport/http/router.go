package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"literary-flow/internal/app"
	"literary-flow/internal/domain"
)

// RouterOptions tunes the public API.
type RouterOptions struct {
	DefaultBank      string
	LeaderboardLimit int
}

// NewRouter exposes health, leaderboard, bank and websocket endpoints.
func NewRouter(service *app.GameService, opts RouterOptions) *httprouter.Router {
	if opts.LeaderboardLimit <= 0 {
		opts.LeaderboardLimit = 20
	}
	ws := NewWSHandler(service, opts.DefaultBank)

	router := httprouter.New()
	router.GET("/healthz", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte("ok"))
	})
	router.GET("/api/leaderboard", serveLeaderboard(service, opts))
	router.GET("/api/banks/:id", serveBank(service))
	router.HandlerFunc(http.MethodGet, "/ws", ws.ServeWS)
	return router
}

func serveLeaderboard(service *app.GameService, opts RouterOptions) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		bankID := r.URL.Query().Get("bank")
		if bankID == "" {
			bankID = opts.DefaultBank
		}
		limit := opts.LeaderboardLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		entries, err := service.Leaderboard(r.Context(), bankID, limit)
		if err != nil {
			slog.Error("fetch leaderboard", "bank_id", bankID, "err", err)
			http.Error(w, "leaderboard unavailable", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// publicItem hides the correctness flag from players.
type publicItem struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
}

type publicBank struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Items []publicItem `json:"items"`
}

func serveBank(service *app.GameService) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		bank, err := service.Bank(r.Context(), ps.ByName("id"))
		if errors.Is(err, domain.ErrBankNotFound) {
			http.Error(w, "bank not found", http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("load bank", "bank_id", ps.ByName("id"), "err", err)
			http.Error(w, "bank unavailable", http.StatusInternalServerError)
			return
		}
		out := publicBank{ID: bank.ID, Title: bank.Title, Items: make([]publicItem, 0, len(bank.Items))}
		for _, item := range bank.Items {
			out.Items = append(out.Items, publicItem{
				ID:       item.ID,
				Text:     item.Text,
				Category: item.Category,
				Label:    item.Category.Label(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "err", err)
	}
}
