package gamejolt

import (
	"crypto/sha1"
	"encoding/hex"
	"net/url"
	"strings"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultSignatureCacheSize bounds the signed-URL memoization cache. Signing
// is cheap, so the cache only needs to cover the request shapes a game
// issues repeatedly (session pings, score polls).
const defaultSignatureCacheSize = 512

// signer produces signed request URLs from a shared private key. Signing is
// deterministic: the signature is the lowercase hex SHA-1 digest of the
// unsigned URL concatenated with the private key. Results are memoized by
// the exact unsigned URL string, so callers must build query strings in a
// stable order to hit the cache. The cache is safe for concurrent use.
type signer struct {
	privateKey string
	cache      *lru.Cache[string, string]
}

func newSigner(privateKey string, cacheSize int) (*signer, error) {
	if cacheSize <= 0 {
		cacheSize = defaultSignatureCacheSize
	}
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &signer{privateKey: privateKey, cache: cache}, nil
}

// sign appends a signature parameter to unsignedURL. The input, including
// the private key, must be ASCII; anything else fails with ErrNonASCII.
func (s *signer) sign(unsignedURL string) (string, error) {
	if cached, ok := s.cache.Get(unsignedURL); ok {
		return cached, nil
	}

	input := unsignedURL + s.privateKey
	if !isASCII(input) {
		return "", ErrNonASCII
	}

	digest := sha1.Sum([]byte(input))
	parameter := url.Values{"signature": {hex.EncodeToString(digest[:])}}.Encode()

	separator := "?"
	if strings.Contains(unsignedURL, "?") {
		separator = "&"
	}
	signed := unsignedURL + separator + parameter
	s.cache.Add(unsignedURL, signed)
	return signed, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
