package gamejolt_test

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gamejolt-community/gamejolt_sdk_go/pkg/gamejolt"
)

// captureBackend records every signed URL and replies with a canned
// success envelope, letting tests assert on parameter assembly.
type captureBackend struct {
	urls []string
}

func (b *captureBackend) Fetch(ctx context.Context, signedURL string) ([]byte, error) {
	b.urls = append(b.urls, signedURL)
	return []byte(`{"response":{"success":"true"}}`), nil
}

// lastQuery returns the query parameters of the most recent call with the
// signature stripped.
func (b *captureBackend) lastQuery(t *testing.T) url.Values {
	t.Helper()
	require.NotEmpty(t, b.urls)
	u, err := url.Parse(b.urls[len(b.urls)-1])
	require.NoError(t, err)
	q := u.Query()
	require.NotEmpty(t, q.Get("signature"))
	q.Del("signature")
	return q
}

func (b *captureBackend) lastPath(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, b.urls)
	u, err := url.Parse(b.urls[len(b.urls)-1])
	require.NoError(t, err)
	return u.Path
}

func newCaptureClient(t *testing.T, opts ...gamejolt.Option) (*gamejolt.Client, *captureBackend) {
	t.Helper()
	backend := &captureBackend{}
	opts = append([]gamejolt.Option{gamejolt.WithBackend(backend)}, opts...)
	client, err := gamejolt.New("123", "secret", opts...)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client, backend
}

func TestSessionBuildersIncludeIdentity(t *testing.T) {
	client, backend := newCaptureClient(t, gamejolt.WithCredentials("maria", "s3cret"))

	await(t)(client.SessionOpen())
	require.Equal(t, "/api/game/v1/sessions/open/", backend.lastPath(t))
	q := backend.lastQuery(t)
	require.Equal(t, "json", q.Get("format"))
	require.Equal(t, "123", q.Get("game_id"))
	require.Equal(t, "maria", q.Get("username"))
	require.Equal(t, "s3cret", q.Get("user_token"))

	await(t)(client.SessionPing(gamejolt.StatusIdle))
	require.Equal(t, "idle", backend.lastQuery(t).Get("status"))

	await(t)(client.SessionPing(""))
	require.Equal(t, "active", backend.lastQuery(t).Get("status"))

	await(t)(client.SessionClose())
	require.Equal(t, "/api/game/v1/sessions/close/", backend.lastPath(t))
}

func TestSessionBuildersRequireIdentity(t *testing.T) {
	client, backend := newCaptureClient(t)

	_, err := client.SessionOpen()
	require.ErrorIs(t, err, gamejolt.ErrNoCredentials)
	_, err = client.SessionPing(gamejolt.StatusActive)
	require.ErrorIs(t, err, gamejolt.ErrNoCredentials)
	_, err = client.SessionClose()
	require.ErrorIs(t, err, gamejolt.ErrNoCredentials)
	require.Empty(t, backend.urls)
}

func TestSessionPingRejectsUnknownStatus(t *testing.T) {
	client, backend := newCaptureClient(t, gamejolt.WithCredentials("maria", "s3cret"))

	_, err := client.SessionPing("asleep")
	require.ErrorIs(t, err, gamejolt.ErrInvalidStatus)
	require.Empty(t, backend.urls)
}

func TestTrophiesFetchFilter(t *testing.T) {
	client, backend := newCaptureClient(t, gamejolt.WithCredentials("maria", "s3cret"))

	await(t)(client.TrophiesFetch(nil))
	q := backend.lastQuery(t)
	require.Empty(t, q.Get("achieved"))
	require.Empty(t, q.Get("trophy_id"))

	await(t)(client.TrophiesFetch(&gamejolt.TrophyFilter{AchievedOnly: true}))
	require.Equal(t, "true", backend.lastQuery(t).Get("achieved"))

	// A specific trophy ID overrides the achieved filter.
	await(t)(client.TrophiesFetch(&gamejolt.TrophyFilter{AchievedOnly: true, TrophyID: 187}))
	q = backend.lastQuery(t)
	require.Equal(t, "187", q.Get("trophy_id"))
	require.Empty(t, q.Get("achieved"))
}

func TestTrophiesAddAchieved(t *testing.T) {
	client, backend := newCaptureClient(t, gamejolt.WithCredentials("maria", "s3cret"))

	await(t)(client.TrophiesAddAchieved(187))
	require.Equal(t, "/api/game/v1/trophies/add-achieved/", backend.lastPath(t))
	require.Equal(t, "187", backend.lastQuery(t).Get("trophy_id"))

	_, err := client.TrophiesAddAchieved(0)
	require.ErrorIs(t, err, gamejolt.ErrInvalidTrophyID)
}

func TestScoresFetchDefaults(t *testing.T) {
	client, backend := newCaptureClient(t, gamejolt.WithCredentials("maria", "s3cret"))

	await(t)(client.ScoresFetch(nil))
	q := backend.lastQuery(t)
	require.Equal(t, "10", q.Get("limit"))
	require.Empty(t, q.Get("table_id"))
	// Scores are fetched without identity parameters.
	require.Empty(t, q.Get("username"))
	require.Empty(t, q.Get("user_token"))

	await(t)(client.ScoresFetch(&gamejolt.ScoresFetchOptions{TableID: 5, Limit: 3}))
	q = backend.lastQuery(t)
	require.Equal(t, "3", q.Get("limit"))
	require.Equal(t, "5", q.Get("table_id"))
}

func TestScoresAddGuestVersusIdentity(t *testing.T) {
	client, backend := newCaptureClient(t)

	await(t)(client.ScoresAdd(1200, nil))
	q := backend.lastQuery(t)
	require.Equal(t, "Guest", q.Get("guest"))
	require.Empty(t, q.Get("username"))
	require.Empty(t, q.Get("user_token"))
	require.Equal(t, "1200", q.Get("sort"))
	require.Equal(t, "1200", q.Get("score"), "score defaults to the sort value")

	client.SetUser("maria", "s3cret")
	await(t)(client.ScoresAdd(1500, &gamejolt.ScoreAddOptions{Score: "1500 coins", TableID: 5}))
	q = backend.lastQuery(t)
	require.Empty(t, q.Get("guest"))
	require.Equal(t, "maria", q.Get("username"))
	require.Equal(t, "s3cret", q.Get("user_token"))
	require.Equal(t, "1500 coins", q.Get("score"))
	require.Equal(t, "5", q.Get("table_id"))
}

func TestDataStorePublicOverridesIdentity(t *testing.T) {
	client, backend := newCaptureClient(t, gamejolt.WithCredentials("maria", "s3cret"))

	await(t)(client.DataStoreFetch("saves", false))
	q := backend.lastQuery(t)
	require.Equal(t, "maria", q.Get("username"))
	require.Equal(t, "saves", q.Get("key"))

	// public=true always omits identity, even when credentials are set.
	await(t)(client.DataStoreFetch("motd", true))
	q = backend.lastQuery(t)
	require.Empty(t, q.Get("username"))
	require.Empty(t, q.Get("user_token"))

	await(t)(client.DataStoreSet("motd", "hello", true))
	q = backend.lastQuery(t)
	require.Equal(t, "hello", q.Get("data"))
	require.Empty(t, q.Get("username"))

	await(t)(client.DataStoreGetKeys(true))
	require.Empty(t, backend.lastQuery(t).Get("username"))

	await(t)(client.DataStoreRemove("motd", true))
	require.Empty(t, backend.lastQuery(t).Get("username"))
}

func TestDataStoreUpdateValidatesOperation(t *testing.T) {
	client, backend := newCaptureClient(t, gamejolt.WithCredentials("maria", "s3cret"))

	_, err := client.DataStoreUpdate("plays", "invalid", "1", false)
	require.ErrorIs(t, err, gamejolt.ErrInvalidOperation)
	require.Empty(t, backend.urls, "invalid operations must never reach the dispatcher")

	for _, op := range []gamejolt.StoreOperation{
		gamejolt.OpAdd, gamejolt.OpSubtract, gamejolt.OpMultiply,
		gamejolt.OpDivide, gamejolt.OpAppend, gamejolt.OpPrepend,
	} {
		await(t)(client.DataStoreUpdate("plays", op, "2", false))
		q := backend.lastQuery(t)
		require.Equal(t, string(op), q.Get("operation"))
		require.Equal(t, "2", q.Get("value"))
	}
}

func TestDataStoreRequiresKey(t *testing.T) {
	client, backend := newCaptureClient(t)

	_, err := client.DataStoreFetch("", false)
	require.ErrorIs(t, err, gamejolt.ErrMissingKey)
	_, err = client.DataStoreSet(" ", "data", false)
	require.ErrorIs(t, err, gamejolt.ErrMissingKey)
	_, err = client.DataStoreUpdate("", gamejolt.OpAdd, "1", false)
	require.ErrorIs(t, err, gamejolt.ErrMissingKey)
	_, err = client.DataStoreRemove("", false)
	require.ErrorIs(t, err, gamejolt.ErrMissingKey)
	require.Empty(t, backend.urls)
}

func TestStableParameterOrderHitsSignatureCache(t *testing.T) {
	client, backend := newCaptureClient(t, gamejolt.WithCredentials("maria", "s3cret"))

	await(t)(client.SessionPing(gamejolt.StatusActive))
	await(t)(client.SessionPing(gamejolt.StatusActive))

	require.Len(t, backend.urls, 2)
	require.Equal(t, backend.urls[0], backend.urls[1],
		"identical calls must produce byte-identical signed URLs")

	// Parameters are query-encoded in sorted key order.
	u, err := url.Parse(backend.urls[0])
	require.NoError(t, err)
	raw := u.RawQuery
	cut := strings.LastIndex(raw, "&signature=")
	require.Greater(t, cut, 0)
	require.Equal(t,
		"format=json&game_id=123&status=active&user_token=s3cret&username=maria",
		raw[:cut])
}
