package relay

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petekp/sessiontrack/internal/domain"
)

func testKey(t *testing.T) (*[32]byte, string) {
	t.Helper()
	var raw [32]byte
	_, err := rand.Read(raw[:])
	require.NoError(t, err)
	encoded := base64.StdEncoding.EncodeToString(raw[:])
	key, err := ParseKey(encoded)
	require.NoError(t, err)
	return key, encoded
}

func TestParseKey_RejectsBadInput(t *testing.T) {
	_, err := ParseKey("not base64!!!")
	assert.Error(t, err)

	_, err = ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestSealOpen_Roundtrip(t *testing.T) {
	key, _ := testKey(t)

	env, err := Seal([]byte(`{"hello":"world"}`), key)
	require.NoError(t, err)
	assert.NotEmpty(t, env.Nonce)
	assert.NotEmpty(t, env.Ciphertext)

	opened, err := Open(env, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"world"}`, string(opened))
}

func TestOpen_WrongKeyFails(t *testing.T) {
	key, _ := testKey(t)
	other, _ := testKey(t)

	env, err := Seal([]byte("payload"), key)
	require.NoError(t, err)

	_, err = Open(env, other)
	assert.Error(t, err)
}

func TestPublish_EncryptedBody(t *testing.T) {
	key, _ := testKey(t)

	var gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "dev-1", key, time.Second)
	view := map[string]domain.ProjectSummary{
		"/home/u/proj": {State: domain.StateWorking, WorkingOn: "refactor"},
	}
	require.NoError(t, c.Publish(context.Background(), view))

	assert.Equal(t, "/api/v1/state/dev-1", gotPath)

	var env Envelope
	require.NoError(t, json.Unmarshal(gotBody, &env))
	payload, err := Open(env, key)
	require.NoError(t, err)

	var decoded map[string]domain.ProjectSummary
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, domain.StateWorking, decoded["/home/u/proj"].State)
}

func TestPublish_PlaintextWithoutKey(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "dev-1", nil, time.Second)
	view := map[string]domain.ProjectSummary{"/p": {State: domain.StateReady}}
	require.NoError(t, c.Publish(context.Background(), view))

	var decoded map[string]domain.ProjectSummary
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, domain.StateReady, decoded["/p"].State)
}

func TestPublish_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "dev-1", nil, time.Second)
	err := c.Publish(context.Background(), map[string]domain.ProjectSummary{})
	assert.Error(t, err)
}

func TestPublish_TimeoutEnforced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "dev-1", nil, 50*time.Millisecond)
	start := time.Now()
	err := c.Publish(context.Background(), map[string]domain.ProjectSummary{})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}
