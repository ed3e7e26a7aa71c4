package gamejolt

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/gamejolt-community/gamejolt_sdk_go/internal/devseed"
	"github.com/gamejolt-community/gamejolt_sdk_go/pkg/gamejolt/mock"
)

const (
	modeAuto = "auto"
	modeHTTP = "http"
	modeMock = "mock"

	mockGameID     = "1"
	mockPrivateKey = "mock-private-key"
)

type envConfig struct {
	Mode       string `env:"GAMEJOLT_RUNTIME_MODE" envDefault:"auto"`
	BaseURL    string `env:"GAMEJOLT_API_URL"`
	GameID     string `env:"GAMEJOLT_GAME_ID"`
	PrivateKey string `env:"GAMEJOLT_PRIVATE_KEY"`
	Username   string `env:"GAMEJOLT_USERNAME"`
	UserToken  string `env:"GAMEJOLT_USER_TOKEN"`
	MockSeed   string `env:"GAMEJOLT_MOCK_SEED"`
}

// NewFromEnv initialises a Client from GAMEJOLT_* environment variables and
// returns the resolved mode ("http" or "mock"). In auto mode the HTTP path
// is taken when GAMEJOLT_API_URL is set, otherwise an in-memory mock service
// backs the client. Extra options are applied after the env-derived ones.
func NewFromEnv(opts ...Option) (client *Client, mode string, err error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, "", fmt.Errorf("gamejolt: parse environment: %w", err)
	}

	mode = strings.ToLower(strings.TrimSpace(cfg.Mode))
	switch mode {
	case "", modeAuto:
		if strings.TrimSpace(cfg.BaseURL) != "" {
			return newHTTPFromEnv(cfg, opts)
		}
		return newMockFromEnv(cfg, opts)
	case modeHTTP:
		return newHTTPFromEnv(cfg, opts)
	case modeMock:
		return newMockFromEnv(cfg, opts)
	default:
		return nil, "", fmt.Errorf("gamejolt: unsupported GAMEJOLT_RUNTIME_MODE value %q", cfg.Mode)
	}
}

func newHTTPFromEnv(cfg envConfig, opts []Option) (*Client, string, error) {
	if strings.TrimSpace(cfg.GameID) == "" || strings.TrimSpace(cfg.PrivateKey) == "" {
		return nil, "", fmt.Errorf("gamejolt: HTTP mode requires GAMEJOLT_GAME_ID and GAMEJOLT_PRIVATE_KEY")
	}

	combined := []Option{}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		combined = append(combined, WithBaseURL(cfg.BaseURL))
	}
	if cfg.Username != "" && cfg.UserToken != "" {
		combined = append(combined, WithCredentials(cfg.Username, cfg.UserToken))
	}
	combined = append(combined, opts...)

	client, err := New(cfg.GameID, cfg.PrivateKey, combined...)
	if err != nil {
		return nil, "", err
	}
	return client, modeHTTP, nil
}

func newMockFromEnv(cfg envConfig, opts []Option) (*Client, string, error) {
	gameID := strings.TrimSpace(cfg.GameID)
	if gameID == "" {
		gameID = mockGameID
	}
	privateKey := strings.TrimSpace(cfg.PrivateKey)
	if privateKey == "" {
		privateKey = mockPrivateKey
	}

	svc := mock.NewService()
	if path := strings.TrimSpace(cfg.MockSeed); path != "" {
		seed, err := devseed.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("gamejolt: load mock seed: %w", err)
		}
		if err := svc.Seed(seed); err != nil {
			return nil, "", fmt.Errorf("gamejolt: apply mock seed: %w", err)
		}
	}

	combined := []Option{WithBackend(mock.NewBackend(svc, gameID, privateKey))}
	if cfg.Username != "" && cfg.UserToken != "" {
		// Make sure the env-configured player exists in the mock.
		svc.AddUser(cfg.Username, cfg.UserToken)
		combined = append(combined, WithCredentials(cfg.Username, cfg.UserToken))
	}
	combined = append(combined, opts...)

	client, err := New(gameID, privateKey, combined...)
	if err != nil {
		return nil, "", err
	}
	return client, modeMock, nil
}
