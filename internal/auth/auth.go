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

// Package auth resolves bearer credentials to verified identities against a
// KBase-style auth service. The cluster manager only ever sees the resolved
// identity, never the credential.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbase/cdm-spark-manager/internal/cluster"
)

// Authenticator resolves a bearer credential to a verified identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (cluster.Identity, error)
}

// KBaseAuth validates tokens against the KBase auth service and resolves the
// admin flag from the service's custom roles.
type KBaseAuth struct {
	url        string
	adminRoles map[string]bool
	httpClient *http.Client
}

// NewKBaseAuth creates a KBaseAuth client. url is the base URL of the auth
// service; adminRoles are the custom roles granting admin permission.
func NewKBaseAuth(url string, adminRoles []string) *KBaseAuth {
	roles := make(map[string]bool, len(adminRoles))
	for _, role := range adminRoles {
		roles[role] = true
	}
	return &KBaseAuth{
		url:        strings.TrimSuffix(url, "/"),
		adminRoles: roles,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type meResponse struct {
	User        string   `json:"user"`
	CustomRoles []string `json:"customroles"`
}

// Authenticate validates the token with the auth service's me endpoint.
func (a *KBaseAuth) Authenticate(ctx context.Context, token string) (cluster.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url+"/api/V2/me", nil)
	if err != nil {
		return cluster.Identity{}, &Error{Message: "failed to build auth request", Err: err}
	}
	req.Header.Set("Authorization", token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return cluster.Identity{}, &Error{Message: "auth service unreachable", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return cluster.Identity{}, &InvalidTokenError{Message: "invalid authentication token"}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return cluster.Identity{}, &Error{
			Message: fmt.Sprintf("auth service returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var me meResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return cluster.Identity{}, &Error{Message: "failed to decode auth response", Err: err}
	}
	if me.User == "" {
		return cluster.Identity{}, &InvalidTokenError{Message: "auth service returned no user"}
	}

	id := cluster.Identity{Username: me.User}
	for _, role := range me.CustomRoles {
		if a.adminRoles[role] {
			id.Admin = true
			break
		}
	}
	return id, nil
}
