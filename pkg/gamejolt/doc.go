// Package gamejolt provides a client for the Game Jolt game API v1:
// sessions, trophies, scoreboards and the per-game data store. Every request
// is signed with the game's private key (hex SHA-1 over the full URL plus
// the key) and dispatched through a single background worker, so calls
// complete in strict submission order. Callers receive a PendingCall handle
// that resolves to exactly one APIResult; transport and protocol failures
// are folded into the result and never surface as errors or panics past
// submission time.
//
// The upstream protocol encodes booleans as strings ("true"/"false") inside
// response payloads. The client passes those through untouched.
package gamejolt
