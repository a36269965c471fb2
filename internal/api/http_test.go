package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) CurrentToken() string { return string(s) }

func TestHTTPClient_Login(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":"u1","username":"alice"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", nil)
	resp, err := c.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "/users/login", gotPath)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "alice", gotBody["username"])
	assert.NotContains(t, gotBody, "email")
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
}

func TestHTTPClient_Me_SendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u1","username":"alice"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, staticTokens("tok-1"))
	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	anon := NewHTTPClient(srv.URL, staticTokens(""))
	_, err = anon.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestHTTPClient_ErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"username taken","field":"username"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	_, err := c.Register(context.Background(), RegisterRequest{Username: "bob", Email: "b@x.io", Password: "pw"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "username taken", apiErr.Message)
	assert.Equal(t, "username", apiErr.Body["field"])
	assert.False(t, IsUnauthorized(err))
}

func TestHTTPClient_ErrorWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	_, err := c.Me(context.Background())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestHTTPClient_RegisterPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"pendingVerification":true}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, nil)
	resp, err := c.Register(context.Background(), RegisterRequest{Username: "bob", Email: "b@x.io", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, resp.PendingVerification)
	assert.Nil(t, resp.User)
}
