/*
Copyright 2025 The CDM Spark Manager authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthenticateValidToken(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/V2/me", r.URL.Path)
		assert.Equal(t, "good-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"user": "alice", "customroles": ["SOME_ROLE"]}`)
	})

	a := NewKBaseAuth(srv.URL, []string{"KBASE_ADMIN"})
	id, err := a.Authenticate(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)
	assert.False(t, id.Admin)
}

func TestAuthenticateAdminRole(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"user": "alice", "customroles": ["OTHER", "CDM_JUPYTERHUB_ADMIN"]}`)
	})

	a := NewKBaseAuth(srv.URL, []string{"KBASE_ADMIN", "CDM_JUPYTERHUB_ADMIN"})
	id, err := a.Authenticate(context.Background(), "good-token")
	require.NoError(t, err)
	assert.True(t, id.Admin)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	a := NewKBaseAuth(srv.URL, nil)
	_, err := a.Authenticate(context.Background(), "bad-token")
	var invalidErr *InvalidTokenError
	require.ErrorAs(t, err, &invalidErr)
}

func TestAuthenticateServiceError(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	a := NewKBaseAuth(srv.URL, nil)
	_, err := a.Authenticate(context.Background(), "token")
	var authErr *Error
	require.ErrorAs(t, err, &authErr)
	assert.Contains(t, authErr.Message, "500")
}

func TestAuthenticateEmptyUser(t *testing.T) {
	srv := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"user": "", "customroles": []}`)
	})

	a := NewKBaseAuth(srv.URL, nil)
	_, err := a.Authenticate(context.Background(), "token")
	var invalidErr *InvalidTokenError
	require.ErrorAs(t, err, &invalidErr)
}

func TestAuthenticateUnreachableService(t *testing.T) {
	a := NewKBaseAuth("http://127.0.0.1:1", nil)
	_, err := a.Authenticate(context.Background(), "token")
	var authErr *Error
	require.ErrorAs(t, err, &authErr)
}
