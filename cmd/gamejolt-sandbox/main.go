// Command gamejolt-sandbox runs a local emulation of the Game Jolt game API
// for development: it serves the mock service under /api/game/v1/, verifies
// request signatures with the configured private key and can inject latency
// and failures.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gamejolt-community/gamejolt_sdk_go/internal/devseed"
	"github.com/gamejolt-community/gamejolt_sdk_go/pkg/gamejolt/mock"
)

type failConfig struct {
	rate float64
	code int
}

func main() {
	addr := flag.String("addr", ":8787", "listen address")
	gameID := flag.String("game-id", "1", "game ID the sandbox accepts")
	privateKey := flag.String("private-key", "sandbox", "private key used to verify signatures")
	seedPath := flag.String("seed", "", "path to YAML seed for the mock service")
	latency := flag.Duration("latency", 0, "artificial latency to inject per request")
	fail := flag.String("fail", "", "failure injection (rate=<float>,code=<httpStatus>)")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	svc := mock.NewService()
	if *seedPath != "" {
		seed, err := devseed.Load(*seedPath)
		if err != nil {
			logger.Fatal("load seed", zap.Error(err))
		}
		if err := svc.Seed(seed); err != nil {
			logger.Fatal("apply seed", zap.Error(err))
		}
	}

	failCfg, err := parseFailConfig(*fail)
	if err != nil {
		logger.Fatal("parse fail flag", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	handler := mock.NewHandler(svc, *gameID, *privateKey, mock.WithLogger(logger))

	server := &http.Server{
		Addr:    *addr,
		Handler: withMiddleware(*latency, failCfg, rng, handler),
	}

	host := *addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	logger.Info("gamejolt-sandbox listening",
		zap.String("addr", *addr),
		zap.String("base_url", fmt.Sprintf("http://%s/api/game/v1/", host)))
	fmt.Println()
	fmt.Println("export GAMEJOLT_RUNTIME_MODE=http")
	fmt.Printf("export GAMEJOLT_API_URL=http://%s/api/game/v1/\n", host)
	fmt.Printf("export GAMEJOLT_GAME_ID=%s\n", *gameID)
	fmt.Printf("export GAMEJOLT_PRIVATE_KEY=%s\n", *privateKey)
	fmt.Println()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func withMiddleware(delay time.Duration, failCfg failConfig, rng *rand.Rand, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		if failCfg.rate > 0 && rng.Float64() < failCfg.rate {
			status := failCfg.code
			if status == 0 {
				status = http.StatusInternalServerError
			}
			http.Error(w, "failure injected", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseFailConfig(raw string) (failConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return failConfig{}, nil
	}
	cfg := failConfig{code: http.StatusInternalServerError}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keyVal := strings.SplitN(part, "=", 2)
		if len(keyVal) != 2 {
			return failConfig{}, fmt.Errorf("invalid fail segment %q", part)
		}
		switch strings.TrimSpace(keyVal[0]) {
		case "rate":
			val, err := strconv.ParseFloat(strings.TrimSpace(keyVal[1]), 64)
			if err != nil {
				return failConfig{}, err
			}
			cfg.rate = val
		case "code":
			val, err := strconv.Atoi(strings.TrimSpace(keyVal[1]))
			if err != nil {
				return failConfig{}, err
			}
			cfg.code = val
		default:
			return failConfig{}, fmt.Errorf("unknown fail key %q", keyVal[0])
		}
	}
	return cfg, nil
}
