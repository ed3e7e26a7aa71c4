package gamejolt

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/gamejolt-community/gamejolt_sdk_go/internal/gjapi"
	"github.com/gamejolt-community/gamejolt_sdk_go/internal/httpx"
)

// DefaultBaseURL is the public Game Jolt game API v1 endpoint.
const DefaultBaseURL = "http://api.gamejolt.com/api/game/v1/"

// Backend executes a single signed request and returns the raw body.
// The HTTP backend is the default; mocks substitute an in-memory service.
type Backend interface {
	Fetch(ctx context.Context, signedURL string) ([]byte, error)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithCredentials sets the initial player identity.
func WithCredentials(username, userToken string) Option {
	return func(c *Client) {
		c.username = username
		c.userToken = userToken
	}
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithBackend substitutes the transport entirely (e.g. the mock service).
func WithBackend(b Backend) Option {
	return func(c *Client) {
		c.backend = b
	}
}

// WithLogger attaches a logger; the default is a nop.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSignatureCacheSize bounds the signed-URL memoization cache.
func WithSignatureCacheSize(size int) Option {
	return func(c *Client) {
		c.cacheSize = size
	}
}

// Client talks to the Game Jolt game API on behalf of one game. All calls
// are dispatched through a single background worker in strict submission
// order; callers needing parallel requests run multiple clients.
type Client struct {
	baseURL    string
	gameID     string
	signer     *signer
	backend    Backend
	httpClient *http.Client
	logger     *zap.Logger
	cacheSize  int
	disp       *dispatcher

	// mu guards the switchable player identity. SetUser/ClearUser are
	// expected to be called from a single goroutine; the lock makes
	// submission-time reads consistent, not concurrent writers safe.
	mu        sync.RWMutex
	username  string
	userToken string
}

// New creates a Client for the given game ID and private key.
func New(gameID, privateKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(gameID) == "" {
		return nil, errors.New("gamejolt: game ID is required")
	}
	if strings.TrimSpace(privateKey) == "" {
		return nil, errors.New("gamejolt: private key is required")
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		gameID:  gameID,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, errors.New("gamejolt: invalid base URL")
	}
	if !strings.HasSuffix(c.baseURL, "/") {
		c.baseURL += "/"
	}

	s, err := newSigner(privateKey, c.cacheSize)
	if err != nil {
		return nil, err
	}
	c.signer = s

	if c.backend == nil {
		var hopts []httpx.Option
		if c.httpClient != nil {
			hopts = append(hopts, httpx.WithHTTPClient(c.httpClient))
		}
		c.backend = &httpBackend{client: httpx.NewClient(hopts...)}
	}

	c.disp = newDispatcher(c.execute, c.logger)
	return c, nil
}

// SetUser switches the player identity used by subsequent calls. Mutating
// the identity concurrently with submissions from other goroutines is
// undefined; keep a single writer.
func (c *Client) SetUser(username, userToken string) {
	c.mu.Lock()
	c.username = username
	c.userToken = userToken
	c.mu.Unlock()
}

// ClearUser removes the player identity; identity-optional endpoints fall
// back to guest or public mode.
func (c *Client) ClearUser() {
	c.SetUser("", "")
}

// Close stops accepting new calls, waits for queued calls to finish and
// releases the background worker.
func (c *Client) Close() {
	c.disp.close()
}

// user returns the current identity; ok only when both parts are set.
func (c *Client) user() (username, token string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username, c.userToken, c.username != "" && c.userToken != ""
}

// baseValues starts a parameter set with the fields present on every call.
func (c *Client) baseValues() url.Values {
	return url.Values{
		"format":  {"json"},
		"game_id": {c.gameID},
	}
}

// submit builds the unsigned URL for endpoint, signs it and enqueues the
// call. url.Values encoding sorts keys, which keeps parameter order stable
// across identical calls so the signature cache can hit.
func (c *Client) submit(endpoint string, values url.Values) (*PendingCall, error) {
	unsigned := c.baseURL + endpoint + "?" + values.Encode()
	signed, err := c.signer.sign(unsigned)
	if err != nil {
		return nil, err
	}
	return c.disp.submit(endpoint, signed)
}

// execute runs inside the dispatcher worker. Every failure past this point
// is folded into the APIResult: no error crosses the PendingCall boundary.
func (c *Client) execute(ctx context.Context, signedURL string) APIResult {
	body, err := c.backend.Fetch(ctx, signedURL)
	if err != nil {
		return APIResult{Success: false, ErrorMessage: err.Error()}
	}
	payload, err := gjapi.ExtractResponse(body)
	if err != nil {
		return APIResult{Success: false, ErrorMessage: err.Error()}
	}
	return APIResult{Success: true, Payload: payload}
}

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) Fetch(ctx context.Context, signedURL string) ([]byte, error) {
	return b.client.Get(ctx, signedURL)
}
