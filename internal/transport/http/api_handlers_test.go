package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/chatline-server/internal/core"
	"github.com/vovakirdan/chatline-server/internal/proto"
	"github.com/vovakirdan/chatline-server/internal/store"
)

func postJSON(t *testing.T, ts *testServer, path string, body any) (*http.Response, []byte) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := ts.Client().Post(ts.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func TestAPIRegisterAndLogin(t *testing.T) {
	ts := startTestServer(t)

	tests := []struct {
		name       string
		body       RegisterRequest
		wantStatus int
		wantError  string
	}{
		{
			name:       "created",
			body:       RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret", ConfirmPassword: "secret"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate",
			body:       RegisterRequest{Name: "Alice", Email: "Alice@Example.com", Password: "secret", ConfirmPassword: "secret"},
			wantStatus: http.StatusConflict,
			wantError:  core.MsgDuplicateEmail,
		},
		{
			name:       "mismatch",
			body:       RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "secret", ConfirmPassword: "other"},
			wantStatus: http.StatusBadRequest,
			wantError:  core.MsgPasswordMismatch,
		},
		{
			name:       "bad email",
			body:       RegisterRequest{Name: "Bob", Email: "bob", Password: "secret", ConfirmPassword: "secret"},
			wantStatus: http.StatusBadRequest,
			wantError:  core.MsgInvalidRegistration,
		},
		{
			name:       "overlong password",
			body:       RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: strings.Repeat("p", 73), ConfirmPassword: strings.Repeat("p", 73)},
			wantStatus: http.StatusBadRequest,
			wantError:  core.MsgPasswordTooLong,
		},
		{
			name:       "missing fields",
			body:       RegisterRequest{Email: "bob@example.com"},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, ts, "/api/register", tt.body)
			require.Equal(t, tt.wantStatus, resp.StatusCode, string(body))
			if tt.wantError != "" {
				var errResp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &errResp))
				require.Equal(t, tt.wantError, errResp.Error)
			}
		})
	}

	resp, body := postJSON(t, ts, "/api/login", LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = postJSON(t, ts, "/api/login", LoginRequest{Email: "alice@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var auth AuthResponse
	require.NoError(t, json.Unmarshal(body, &auth))
	require.NotEmpty(t, auth.Token)
}

func TestAPIListUsersAndChats(t *testing.T) {
	ts := startTestServer(t)
	ctx := context.Background()

	resp, body := postJSON(t, ts, "/api/register", RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret", ConfirmPassword: "secret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	require.NoError(t, ts.store.AppendChat(ctx, &store.ChatRecord{
		Name: "Alice", Email: "alice@example.com", Message: "first", Timestamp: "1:05 PM",
	}))
	require.NoError(t, ts.store.AppendChat(ctx, &store.ChatRecord{
		Name: "Alice", Email: "alice@example.com", Message: "second", Timestamp: "1:06 PM",
	}))

	usersResp, err := ts.Client().Get(ts.URL + "/api/users")
	require.NoError(t, err)
	defer usersResp.Body.Close()
	var users []map[string]any
	require.NoError(t, json.NewDecoder(usersResp.Body).Decode(&users))
	require.Len(t, users, 1)
	require.Equal(t, "Alice", users[0]["name"])
	require.NotContains(t, users[0], "password")

	chatsResp, err := ts.Client().Get(ts.URL + "/api/chats")
	require.NoError(t, err)
	defer chatsResp.Body.Close()
	var chats []proto.Chat
	require.NoError(t, json.NewDecoder(chatsResp.Body).Decode(&chats))
	require.Len(t, chats, 2)
	require.Equal(t, "first", chats[0].Message)
	require.Equal(t, "second", chats[1].Message)
}
