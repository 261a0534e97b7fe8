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

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kbase/cdm-spark-manager/internal/cluster"
)

// handleCreate provisions a cluster for the authenticated user. Non-admin
// requests are checked against the default ceiling before any platform call
// is made; a violation fails the whole request with no partial provisioning.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request, id cluster.Identity) {
	var req ClusterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &validationError{message: "request body is not valid JSON: " + err.Error()})
		return
	}

	cfg, err := req.toClusterConfig()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if !id.Admin {
		if err := cluster.CheckLimits(cfg); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	result, err := s.manager.Create(r.Context(), id, cfg)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, CreateResponse{
		ClusterID:   result.ClusterID,
		MasterURL:   result.MasterURL,
		MasterUIURL: result.MasterUIURL,
	})
}

// handleStatus reports the live state of the user's cluster. The call
// succeeds even when no cluster exists; callers must inspect the embedded
// existence and readiness fields.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, id cluster.Identity) {
	status, err := s.manager.Status(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse(status))
}

// handleDelete removes the user's cluster. Deleting a cluster that does not
// exist is a successful, empty outcome. When some deletions fail the
// response still reports what was removed.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, id cluster.Identity) {
	result, err := s.manager.Delete(r.Context(), id)
	if err != nil {
		var deletion *cluster.DeletionError
		if errors.As(err, &deletion) {
			s.logger.Error(err, "Cluster deletion failed", "user", id.Username)
			code := errTypeDeletionFailed.code
			label := errTypeDeletionFailed.label
			s.writeJSON(w, http.StatusInternalServerError, DeleteFailedResponse{
				Error:     &code,
				ErrorType: &label,
				Message:   deletion.Error(),
				Deleted:   deletion.Deleted,
				Errors:    deletion.Errors,
			})
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, DeleteResponse{Deleted: result.Deleted})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
