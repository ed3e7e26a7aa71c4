package gamejolt

import "errors"

// SessionStatus describes an open session for sessions/ping.
type SessionStatus string

const (
	StatusActive SessionStatus = "active"
	StatusIdle   SessionStatus = "idle"
)

// StoreOperation is a data-store/update operation. Add, subtract, multiply
// and divide apply to numeric data; append and prepend to string data.
type StoreOperation string

const (
	OpAdd      StoreOperation = "add"
	OpSubtract StoreOperation = "subtract"
	OpMultiply StoreOperation = "multiply"
	OpDivide   StoreOperation = "divide"
	OpAppend   StoreOperation = "append"
	OpPrepend  StoreOperation = "prepend"
)

func validStoreOperation(op StoreOperation) bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpAppend, OpPrepend:
		return true
	}
	return false
}

// APIResult is the uniform outcome of an API call. Success reports whether
// the call completed at the transport and protocol level; the upstream
// service encodes its own success flag as the string "true"/"false" inside
// Payload and the client passes it through without reinterpretation.
type APIResult struct {
	Success      bool
	Payload      map[string]any
	ErrorMessage string
}

// TrophyFilter narrows TrophiesFetch. A non-zero TrophyID overrides
// AchievedOnly.
type TrophyFilter struct {
	AchievedOnly bool
	TrophyID     int
}

// ScoresFetchOptions controls ScoresFetch. A zero Limit fetches the default
// of 10 scores; a zero TableID targets the primary table.
type ScoresFetchOptions struct {
	TableID int
	Limit   int
}

// ScoreAddOptions controls ScoresAdd. An empty Score defaults to the string
// form of the sort value; a zero TableID targets the primary table.
type ScoreAddOptions struct {
	Score   string
	TableID int
}

var (
	// ErrNonASCII is returned when the signature input contains bytes
	// outside the ASCII range. The signing scheme is defined over ASCII
	// input only; this is a constraint of the upstream protocol.
	ErrNonASCII = errors.New("gamejolt: signature input contains non-ASCII characters")
	// ErrInvalidOperation is returned for a data-store operation outside
	// the supported set.
	ErrInvalidOperation = errors.New("gamejolt: invalid data-store operation")
	// ErrInvalidStatus is returned for a session status outside
	// active/idle.
	ErrInvalidStatus = errors.New("gamejolt: invalid session status")
	// ErrInvalidTrophyID is returned for a non-positive trophy ID.
	ErrInvalidTrophyID = errors.New("gamejolt: trophy ID must be positive")
	// ErrMissingKey is returned for an empty data-store key.
	ErrMissingKey = errors.New("gamejolt: data-store key is required")
	// ErrNoCredentials is returned when an endpoint requires an
	// authenticated user and the client has none.
	ErrNoCredentials = errors.New("gamejolt: username and user token required")
	// ErrClosed is returned when submitting on a closed client.
	ErrClosed = errors.New("gamejolt: client closed")
)
