// Package testhelpers provides a mock GitHub deployments API for tests.
package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-github/v62/github"
)

// StatusResponse scripts one response of the deployment-statuses endpoint.
// Fail makes the endpoint return a 500 instead of the statuses.
type StatusResponse struct {
	Fail     bool
	Statuses []*github.DeploymentStatus
}

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	// PriorDeployments are returned by the deployment list endpoint,
	// most recent first
	PriorDeployments []*github.Deployment
	// ListDeploymentsError makes the list endpoint fail
	ListDeploymentsError bool
	// CreateDeploymentError makes the create endpoint fail
	CreateDeploymentError bool
	// DeploymentID is assigned to the created deployment
	DeploymentID int64
	// StatusScript is consumed one entry per status-list call; once
	// exhausted the last entry repeats
	StatusScript []StatusResponse
	// CreatedDeployments records creation request bodies (for testing)
	CreatedDeployments []*github.DeploymentRequest
	// StatusCalls counts status-list requests (for testing)
	StatusCalls int
	// Owner and Repo for the mock server
	Owner string
	Repo  string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		DeploymentID: 42,
		Owner:        "owner",
		Repo:         "repo",
	}
}

// NewMockGitHubServer creates an httptest server that mocks the GitHub
// deployments API endpoints
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	mux := http.NewServeMux()

	basePath := "/repos/" + config.Owner + "/" + config.Repo + "/deployments"
	basePathWithSlash := basePath + "/"

	handler := func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Handle GET /repos/{owner}/{repo}/deployments/{id}/statuses
		if strings.HasPrefix(path, basePathWithSlash) && strings.HasSuffix(path, "/statuses") {
			if r.Method != "GET" {
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
				return
			}

			idx := config.StatusCalls
			config.StatusCalls++

			if len(config.StatusScript) == 0 {
				writeJSON(w, http.StatusOK, []*github.DeploymentStatus{})
				return
			}
			if idx >= len(config.StatusScript) {
				idx = len(config.StatusScript) - 1
			}

			response := config.StatusScript[idx]
			if response.Fail {
				http.Error(w, "status backend unavailable", http.StatusInternalServerError)
				return
			}

			statuses := response.Statuses
			if statuses == nil {
				statuses = []*github.DeploymentStatus{}
			}
			writeJSON(w, http.StatusOK, statuses)
			return
		}

		if path == basePath {
			// Handle POST /repos/{owner}/{repo}/deployments (create)
			if r.Method == "POST" {
				if config.CreateDeploymentError {
					http.Error(w, "deployment rejected", http.StatusConflict)
					return
				}

				var req github.DeploymentRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				config.CreatedDeployments = append(config.CreatedDeployments, &req)

				deployment := &github.Deployment{
					ID:          github.Int64(config.DeploymentID),
					Ref:         req.Ref,
					Environment: req.Environment,
				}
				writeJSON(w, http.StatusCreated, deployment)
				return
			}

			// Handle GET /repos/{owner}/{repo}/deployments (list)
			if r.Method == "GET" {
				if config.ListDeploymentsError {
					http.Error(w, "list backend unavailable", http.StatusInternalServerError)
					return
				}

				deployments := config.PriorDeployments
				if deployments == nil {
					deployments = []*github.Deployment{}
				}
				writeJSON(w, http.StatusOK, deployments)
				return
			}
		}

		http.Error(w, fmt.Sprintf("Unhandled path: %s (method: %s)", path, r.Method), http.StatusNotFound)
	}

	mux.HandleFunc(basePathWithSlash, handler)
	mux.HandleFunc(basePath, handler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() { server.Close() })
	return server
}

// NewMockGitHubClient creates a go-github client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL

	return client, config.Owner, config.Repo
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
