package gamejolt

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignKnownVector(t *testing.T) {
	s, err := newSigner("secret", 0)
	require.NoError(t, err)

	unsigned := "http://api.example.com/api/game/v1/scores/?format=json&game_id=123&limit=3&table_id=5"
	signed, err := s.sign(unsigned)
	require.NoError(t, err)

	// sha1("http://...&table_id=5" + "secret")
	require.Equal(t, unsigned+"&signature=b6dcee3498a4bf056e3e27bddf64fb77d9a270c6", signed)
}

func TestSignDeterministic(t *testing.T) {
	s, err := newSigner("secret", 0)
	require.NoError(t, err)

	first, err := s.sign("http://api.example.com/api/game/v1/trophies/?format=json&game_id=123")
	require.NoError(t, err)
	second, err := s.sign("http://api.example.com/api/game/v1/trophies/?format=json&game_id=123")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSignMatchesFreshDigest(t *testing.T) {
	s, err := newSigner("key-1", 0)
	require.NoError(t, err)

	unsigned := "http://api.example.com/api/game/v1/scores/?format=json&game_id=9"
	signed, err := s.sign(unsigned)
	require.NoError(t, err)

	digest := sha1.Sum([]byte(unsigned + "key-1"))
	require.True(t, strings.HasSuffix(signed, "&signature="+hex.EncodeToString(digest[:])))

	sig := signed[strings.LastIndex(signed, "=")+1:]
	require.Len(t, sig, 40)
	require.Equal(t, strings.ToLower(sig), sig)
}

func TestSignAvalanche(t *testing.T) {
	s, err := newSigner("secret", 0)
	require.NoError(t, err)

	a, err := s.sign("http://api.example.com/api/game/v1/scores/?format=json&game_id=123")
	require.NoError(t, err)
	b, err := s.sign("http://api.example.com/api/game/v1/scores/?format=json&game_id=124")
	require.NoError(t, err)

	sigA := a[strings.LastIndex(a, "=")+1:]
	sigB := b[strings.LastIndex(b, "=")+1:]
	require.NotEqual(t, sigA, sigB)
}

func TestSignSeparator(t *testing.T) {
	s, err := newSigner("secret", 0)
	require.NoError(t, err)

	withQuery, err := s.sign("http://api.example.com/api/game/v1/scores/?format=json")
	require.NoError(t, err)
	require.Contains(t, withQuery, "format=json&signature=")

	withoutQuery, err := s.sign("http://api.example.com/api/game/v1/scores/")
	require.NoError(t, err)
	require.Contains(t, withoutQuery, "scores/?signature=")
}

func TestSignNonASCII(t *testing.T) {
	s, err := newSigner("secret", 0)
	require.NoError(t, err)

	_, err = s.sign("http://api.example.com/api/game/v1/scores/?guest=héctor")
	require.ErrorIs(t, err, ErrNonASCII)

	s, err = newSigner("clé-privée", 0)
	require.NoError(t, err)
	_, err = s.sign("http://api.example.com/api/game/v1/scores/")
	require.ErrorIs(t, err, ErrNonASCII)
}

func TestSignMemoizesByExactURL(t *testing.T) {
	s, err := newSigner("secret", 4)
	require.NoError(t, err)

	unsigned := "http://api.example.com/api/game/v1/scores/?format=json&game_id=1"
	first, err := s.sign(unsigned)
	require.NoError(t, err)
	require.Equal(t, 1, s.cache.Len())

	second, err := s.sign(unsigned)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, s.cache.Len())

	// Distinct parameter orderings are distinct cache keys.
	_, err = s.sign("http://api.example.com/api/game/v1/scores/?game_id=1&format=json")
	require.NoError(t, err)
	require.Equal(t, 2, s.cache.Len())
}

func TestSignCacheBounded(t *testing.T) {
	s, err := newSigner("secret", 2)
	require.NoError(t, err)

	urls := []string{
		"http://api.example.com/api/game/v1/scores/?limit=1",
		"http://api.example.com/api/game/v1/scores/?limit=2",
		"http://api.example.com/api/game/v1/scores/?limit=3",
	}
	for _, u := range urls {
		_, err := s.sign(u)
		require.NoError(t, err)
	}
	require.Equal(t, 2, s.cache.Len())

	// Evicted entries are re-signed to the same value.
	signed, err := s.sign(urls[0])
	require.NoError(t, err)
	digest := sha1.Sum([]byte(urls[0] + "secret"))
	require.Equal(t, urls[0]+"&signature="+hex.EncodeToString(digest[:]), signed)
}
