// Package mock implements an in-memory Game Jolt game API replacement. It
// backs the client's mock runtime mode and the sandbox server, emulating
// sessions, trophies, score tables and the data store with wire-compatible
// payloads, including the upstream convention of string-encoded booleans.
package mock

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gamejolt-community/gamejolt_sdk_go/internal/devseed"
)

// Upstream failure messages reproduced by the emulation.
const (
	msgNoSuchUser       = "No such user with the credentials passed in could be found."
	msgNoSession        = "Could not ping the session as no session exists with the user."
	msgBadTrophy        = "Incorrect trophy ID."
	msgTrophyOwned      = "The user already has this trophy."
	msgBadTable         = "The score table ID you passed in does not exist."
	msgNoSuchKey        = "No item with that key could be found."
	msgNonNumeric       = "Mathematical operations require numeric data."
	msgDivisionByZero   = "Division by zero."
	msgBadSignature     = "The signature you entered for the request is invalid."
	msgBadGameID        = "The game ID you passed in does not exist."
	msgGuestNameMissing = "Guests must provide a display name."
)

type session struct {
	status   string
	openedAt time.Time
	lastPing time.Time
}

type scoreRow struct {
	user   string
	guest  string
	score  string
	sort   int
	stored time.Time
}

type scoreTable struct {
	meta   devseed.ScoreTable
	scores []scoreRow
}

// Service holds the emulated game state. All methods are safe for
// concurrent use and return payloads ready for envelope encoding.
type Service struct {
	mu       sync.Mutex
	users    map[string]string
	sessions map[string]*session
	trophies []devseed.Trophy
	achieved map[string]map[int]bool
	order    []int
	tables   map[int]*scoreTable
	stores   map[string]map[string]string
	now      func() time.Time
}

// Option configures the service.
type Option func(*Service)

// WithClock overrides the clock used for session and score timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService creates an empty service with a single primary score table.
func NewService(opts ...Option) *Service {
	s := &Service{
		users:    make(map[string]string),
		sessions: make(map[string]*session),
		achieved: make(map[string]map[int]bool),
		tables:   make(map[int]*scoreTable),
		stores:   make(map[string]map[string]string),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.addTable(devseed.ScoreTable{ID: 1, Name: "Main", Description: "Primary score table.", Primary: true})
	return s
}

// Seed loads initial state from a seed document.
func (s *Service) Seed(seed *devseed.Seed) error {
	if seed == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range seed.Users {
		s.users[u.Username] = u.Token
	}
	for _, tr := range seed.Trophies {
		s.trophies = append(s.trophies, tr)
	}
	for _, tbl := range seed.ScoreTables {
		s.addTable(tbl)
	}
	for _, sc := range seed.Scores {
		tbl, ok := s.resolveTable(sc.TableID)
		if !ok {
			return fmt.Errorf("mock: score references unknown table %d", sc.TableID)
		}
		if sc.Username != "" {
			if _, ok := s.users[sc.Username]; !ok {
				return fmt.Errorf("mock: score references unknown user %q", sc.Username)
			}
		}
		score := sc.Score
		if score == "" {
			score = strconv.Itoa(sc.Sort)
		}
		tbl.insert(scoreRow{
			user:   sc.Username,
			guest:  sc.Guest,
			score:  score,
			sort:   sc.Sort,
			stored: s.now(),
		})
	}
	for _, e := range seed.DataStore {
		if e.Username != "" {
			if _, ok := s.users[e.Username]; !ok {
				return fmt.Errorf("mock: data-store entry references unknown user %q", e.Username)
			}
		}
		s.storeFor(e.Username)[e.Key] = e.Data
	}
	return nil
}

// AddUser registers a player account.
func (s *Service) AddUser(username, token string) {
	s.mu.Lock()
	s.users[username] = token
	s.mu.Unlock()
}

// AddTrophy registers a trophy definition.
func (s *Service) AddTrophy(tr devseed.Trophy) {
	s.mu.Lock()
	s.trophies = append(s.trophies, tr)
	s.mu.Unlock()
}

func (s *Service) addTable(meta devseed.ScoreTable) {
	if _, exists := s.tables[meta.ID]; !exists {
		s.order = append(s.order, meta.ID)
	}
	s.tables[meta.ID] = &scoreTable{meta: meta}
}

func (s *Service) authenticated(username, token string) bool {
	want, ok := s.users[username]
	return ok && want == token && token != ""
}

func (s *Service) resolveTable(id int) (*scoreTable, bool) {
	if id == 0 {
		for _, tid := range s.order {
			if s.tables[tid].meta.Primary {
				return s.tables[tid], true
			}
		}
		return nil, false
	}
	tbl, ok := s.tables[id]
	return tbl, ok
}

func (s *Service) storeFor(owner string) map[string]string {
	store, ok := s.stores[owner]
	if !ok {
		store = make(map[string]string)
		s.stores[owner] = store
	}
	return store
}

func (t *scoreTable) insert(row scoreRow) {
	idx := sort.Search(len(t.scores), func(i int) bool {
		return t.scores[i].sort < row.sort
	})
	t.scores = append(t.scores, scoreRow{})
	copy(t.scores[idx+1:], t.scores[idx:])
	t.scores[idx] = row
}

func success(extra map[string]any) map[string]any {
	payload := map[string]any{"success": "true"}
	for k, v := range extra {
		payload[k] = v
	}
	return payload
}

func failure(message string) map[string]any {
	return map[string]any{"success": "false", "message": message}
}

// SessionOpen opens a session for the user, replacing any existing one.
func (s *Service) SessionOpen(username, token string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated(username, token) {
		return failure(msgNoSuchUser)
	}
	now := s.now()
	s.sessions[username] = &session{status: "active", openedAt: now, lastPing: now}
	return success(nil)
}

// SessionPing refreshes the user's session and updates its status.
func (s *Service) SessionPing(username, token, status string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated(username, token) {
		return failure(msgNoSuchUser)
	}
	sess, ok := s.sessions[username]
	if !ok {
		return failure(msgNoSession)
	}
	if status != "" {
		sess.status = status
	}
	sess.lastPing = s.now()
	return success(nil)
}

// SessionClose ends the user's session.
func (s *Service) SessionClose(username, token string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated(username, token) {
		return failure(msgNoSuchUser)
	}
	if _, ok := s.sessions[username]; !ok {
		return failure(msgNoSession)
	}
	delete(s.sessions, username)
	return success(nil)
}

// SessionStatus reports the current session status for a user, if any.
// Test helper; not part of the wire surface.
func (s *Service) SessionStatus(username string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[username]
	if !ok {
		return "", false
	}
	return sess.status, true
}

// TrophiesFetch lists trophies for the user. A non-zero trophyID narrows
// the fetch and wins over achievedOnly.
func (s *Service) TrophiesFetch(username, token string, achievedOnly bool, trophyID int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated(username, token) {
		return failure(msgNoSuchUser)
	}

	owned := s.achieved[username]
	var out []any
	for _, tr := range s.trophies {
		if trophyID > 0 && tr.ID != trophyID {
			continue
		}
		if trophyID == 0 && achievedOnly && !owned[tr.ID] {
			continue
		}
		achieved := "false"
		if owned[tr.ID] {
			achieved = "true"
		}
		out = append(out, map[string]any{
			"id":          strconv.Itoa(tr.ID),
			"title":       tr.Title,
			"description": tr.Description,
			"difficulty":  tr.Difficulty,
			"image_url":   tr.ImageURL,
			"achieved":    achieved,
		})
	}
	if trophyID > 0 && len(out) == 0 {
		return failure(msgBadTrophy)
	}
	return success(map[string]any{"trophies": out})
}

// TrophiesAddAchieved marks a trophy as achieved for the user.
func (s *Service) TrophiesAddAchieved(username, token string, trophyID int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated(username, token) {
		return failure(msgNoSuchUser)
	}
	found := false
	for _, tr := range s.trophies {
		if tr.ID == trophyID {
			found = true
			break
		}
	}
	if !found {
		return failure(msgBadTrophy)
	}
	owned := s.achieved[username]
	if owned == nil {
		owned = make(map[int]bool)
		s.achieved[username] = owned
	}
	if owned[trophyID] {
		return failure(msgTrophyOwned)
	}
	owned[trophyID] = true
	return success(nil)
}

// ScoresFetch returns up to limit scores from a table, best first.
func (s *Service) ScoresFetch(tableID, limit int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	tbl, ok := s.resolveTable(tableID)
	if !ok {
		return failure(msgBadTable)
	}
	if limit <= 0 {
		limit = 10
	}
	var out []any
	for i, row := range tbl.scores {
		if i >= limit {
			break
		}
		out = append(out, map[string]any{
			"score":  row.score,
			"sort":   strconv.Itoa(row.sort),
			"user":   row.user,
			"guest":  row.guest,
			"stored": row.stored.Format(time.RFC3339),
		})
	}
	return success(map[string]any{"scores": out})
}

// ScoresAdd records a score for a user or a guest.
func (s *Service) ScoresAdd(username, token, guest, score string, sortValue, tableID int) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username != "" {
		if !s.authenticated(username, token) {
			return failure(msgNoSuchUser)
		}
	} else if strings.TrimSpace(guest) == "" {
		return failure(msgGuestNameMissing)
	}
	tbl, ok := s.resolveTable(tableID)
	if !ok {
		return failure(msgBadTable)
	}
	if score == "" {
		score = strconv.Itoa(sortValue)
	}
	tbl.insert(scoreRow{
		user:   username,
		guest:  guest,
		score:  score,
		sort:   sortValue,
		stored: s.now(),
	})
	return success(nil)
}

// ScoresTables lists the configured score tables.
func (s *Service) ScoresTables() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []any
	for _, id := range s.order {
		tbl := s.tables[id]
		primary := "false"
		if tbl.meta.Primary {
			primary = "true"
		}
		out = append(out, map[string]any{
			"id":          strconv.Itoa(tbl.meta.ID),
			"name":        tbl.meta.Name,
			"description": tbl.meta.Description,
			"primary":     primary,
		})
	}
	return success(map[string]any{"tables": out})
}

// resolveOwner maps identity parameters to a store owner. An empty username
// targets the public store; a bad token is an authentication failure.
func (s *Service) resolveOwner(username, token string) (string, map[string]any) {
	if username == "" {
		return "", nil
	}
	if !s.authenticated(username, token) {
		return "", failure(msgNoSuchUser)
	}
	return username, nil
}

// StoreFetch returns the data stored under key.
func (s *Service) StoreFetch(username, token, key string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, fail := s.resolveOwner(username, token)
	if fail != nil {
		return fail
	}
	data, ok := s.storeFor(owner)[key]
	if !ok {
		return failure(msgNoSuchKey)
	}
	return success(map[string]any{"data": data})
}

// StoreSet writes data under key.
func (s *Service) StoreSet(username, token, key, data string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, fail := s.resolveOwner(username, token)
	if fail != nil {
		return fail
	}
	s.storeFor(owner)[key] = data
	return success(nil)
}

// StoreUpdate applies an operation to existing data and returns the result.
func (s *Service) StoreUpdate(username, token, key, operation, value string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, fail := s.resolveOwner(username, token)
	if fail != nil {
		return fail
	}
	store := s.storeFor(owner)
	current, ok := store[key]
	if !ok {
		return failure(msgNoSuchKey)
	}

	updated, fail := applyOperation(current, operation, value)
	if fail != nil {
		return fail
	}
	store[key] = updated
	return success(map[string]any{"data": updated})
}

// StoreRemove deletes key and its data.
func (s *Service) StoreRemove(username, token, key string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, fail := s.resolveOwner(username, token)
	if fail != nil {
		return fail
	}
	store := s.storeFor(owner)
	if _, ok := store[key]; !ok {
		return failure(msgNoSuchKey)
	}
	delete(store, key)
	return success(nil)
}

// StoreGetKeys lists the keys in the targeted store.
func (s *Service) StoreGetKeys(username, token string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, fail := s.resolveOwner(username, token)
	if fail != nil {
		return fail
	}
	store := s.storeFor(owner)
	keys := make([]string, 0, len(store))
	for k := range store {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, map[string]any{"key": k})
	}
	return success(map[string]any{"keys": out})
}

func applyOperation(current, operation, value string) (string, map[string]any) {
	switch operation {
	case "append":
		return current + value, nil
	case "prepend":
		return value + current, nil
	}

	base, err1 := strconv.ParseFloat(current, 64)
	operand, err2 := strconv.ParseFloat(value, 64)
	if err1 != nil || err2 != nil {
		return "", failure(msgNonNumeric)
	}

	var result float64
	switch operation {
	case "add":
		result = base + operand
	case "subtract":
		result = base - operand
	case "multiply":
		result = base * operand
	case "divide":
		if operand == 0 {
			return "", failure(msgDivisionByZero)
		}
		result = base / operand
	default:
		return "", failure(fmt.Sprintf("Invalid operation %q.", operation))
	}
	return strconv.FormatFloat(result, 'f', -1, 64), nil
}
