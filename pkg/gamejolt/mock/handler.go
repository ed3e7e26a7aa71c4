package mock

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gamejolt-community/gamejolt_sdk_go/internal/gjapi"
)

const apiPrefix = "/api/game/v1/"

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger attaches a logger to the handler; the default is a nop.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Handler serves the emulated Game Jolt API over HTTP. Requests are
// validated the way the upstream does: the game ID must match and the
// signature parameter must be the hex SHA-1 of the unsigned URL plus the
// private key. The emulation only speaks plain http, mirroring the
// upstream v1 endpoint.
type Handler struct {
	svc        *Service
	gameID     string
	privateKey string
	logger     *zap.Logger
}

// NewHandler creates a Handler for svc.
func NewHandler(svc *Service, gameID, privateKey string, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:        svc,
		gameID:     gameID,
		privateKey: privateKey,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	idx := strings.Index(r.URL.Path, apiPrefix)
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	endpoint := r.URL.Path[idx+len(apiPrefix):]
	q := r.URL.Query()

	h.logger.Debug("mock api request",
		zap.String("endpoint", endpoint),
		zap.String("game_id", q.Get("game_id")))

	if q.Get("game_id") != h.gameID {
		h.write(w, failure(msgBadGameID))
		return
	}
	if !h.verifySignature(r) {
		h.write(w, failure(msgBadSignature))
		return
	}

	username := q.Get("username")
	token := q.Get("user_token")

	var payload map[string]any
	switch endpoint {
	case "sessions/open/":
		payload = h.svc.SessionOpen(username, token)
	case "sessions/ping/":
		payload = h.svc.SessionPing(username, token, q.Get("status"))
	case "sessions/close/":
		payload = h.svc.SessionClose(username, token)
	case "trophies/":
		trophyID, _ := strconv.Atoi(q.Get("trophy_id"))
		payload = h.svc.TrophiesFetch(username, token, q.Get("achieved") == "true", trophyID)
	case "trophies/add-achieved/":
		trophyID, _ := strconv.Atoi(q.Get("trophy_id"))
		payload = h.svc.TrophiesAddAchieved(username, token, trophyID)
	case "scores/":
		tableID, _ := strconv.Atoi(q.Get("table_id"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		payload = h.svc.ScoresFetch(tableID, limit)
	case "scores/add/":
		tableID, _ := strconv.Atoi(q.Get("table_id"))
		sortValue, _ := strconv.Atoi(q.Get("sort"))
		payload = h.svc.ScoresAdd(username, token, q.Get("guest"), q.Get("score"), sortValue, tableID)
	case "scores/tables/":
		payload = h.svc.ScoresTables()
	case "data-store/":
		payload = h.svc.StoreFetch(username, token, q.Get("key"))
	case "data-store/set/":
		payload = h.svc.StoreSet(username, token, q.Get("key"), q.Get("data"))
	case "data-store/update/":
		payload = h.svc.StoreUpdate(username, token, q.Get("key"), q.Get("operation"), q.Get("value"))
	case "data-store/remove/":
		payload = h.svc.StoreRemove(username, token, q.Get("key"))
	case "data-store/get-keys/":
		payload = h.svc.StoreGetKeys(username, token)
	default:
		http.NotFound(w, r)
		return
	}
	h.write(w, payload)
}

// verifySignature recomputes the signature over the request URL with the
// signature parameter stripped. The client appends the signature last, so
// the unsigned URL is everything before it.
func (h *Handler) verifySignature(r *http.Request) bool {
	provided := r.URL.Query().Get("signature")
	if provided == "" {
		return false
	}

	raw := r.URL.RawQuery
	cut := strings.LastIndex(raw, "signature=")
	if cut < 0 {
		return false
	}
	unsignedQuery := strings.TrimSuffix(raw[:cut], "&")

	host := r.Host
	if host == "" && r.URL.Host != "" {
		host = r.URL.Host
	}
	unsigned := "http://" + host + r.URL.Path
	if unsignedQuery != "" {
		unsigned += "?" + unsignedQuery
	}

	digest := sha1.Sum([]byte(unsigned + h.privateKey))
	return hex.EncodeToString(digest[:]) == provided
}

func (h *Handler) write(w http.ResponseWriter, payload map[string]any) {
	body, err := gjapi.Envelope(payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
