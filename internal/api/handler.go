// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"

	"scm-collector/internal/database"
	"scm-collector/internal/model"
	"scm-collector/internal/repourl"
)

const defaultBranch = "master"

// Handler is the container for API dependencies.
type Handler struct {
	db     database.Store
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(db database.Store, logger *slog.Logger) http.Handler {
	h := &Handler{
		db:     db,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/collectors/{collectorID}/repos", h.listRepositories)
		r.Post("/collectors/{collectorID}/repos", h.registerRepository)
		r.Post("/components", h.createComponent)
		r.Get("/repos/{repoID}/commits", h.getCommits)
		r.Get("/repos/{repoID}/pulls", h.getPullRequests)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type registerRepositoryRequest struct {
	URL    string `json:"url"`
	Branch string `json:"branch"`
}

// listRepositories returns every repository tracked by a collector.
// GET /v1/collectors/{collectorID}/repos
func (h *Handler) listRepositories(w http.ResponseWriter, r *http.Request) {
	collectorID, ok := idParam(w, r, "collectorID")
	if !ok {
		return
	}

	repos, err := h.db.ListRepositoriesByCollectorIDs(r.Context(), []int64{collectorID})
	if err != nil {
		h.logger.Error("Failed to list repositories", "error", err, "collector_id", collectorID)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if repos == nil {
		repos = []database.Repository{}
	}

	respondWithJSON(w, http.StatusOK, repos)
}

// registerRepository starts tracking a repository branch, or returns the existing entry.
// POST /v1/collectors/{collectorID}/repos
func (h *Handler) registerRepository(w http.ResponseWriter, r *http.Request) {
	collectorID, ok := idParam(w, r, "collectorID")
	if !ok {
		return
	}

	var req registerRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if _, _, err := repourl.OwnerRepo(req.URL); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Branch == "" {
		req.Branch = defaultBranch
	}

	if _, err := h.db.GetCollector(r.Context(), collectorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Collector not found")
			return
		}
		h.logger.Error("Failed to get collector", "error", err, "collector_id", collectorID)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	repo, err := h.db.UpsertRepository(r.Context(), database.UpsertRepositoryParams{
		CollectorID: collectorID,
		RepoUrl:     req.URL,
		Branch:      req.Branch,
	})
	if err != nil {
		h.logger.Error("Failed to register repository", "error", err, "url", req.URL)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusCreated, repo)
}

type createComponentRequest struct {
	Name          string  `json:"name"`
	RepositoryIDs []int64 `json:"repository_ids"`
}

type componentResponse struct {
	database.Component
	RepositoryIDs []int64 `json:"repository_ids"`
}

// createComponent registers a component and its SCM references in one transaction.
// POST /v1/components
func (h *Handler) createComponent(w http.ResponseWriter, r *http.Request) {
	var req createComponentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "'name' is required")
		return
	}

	var component database.Component
	err := h.db.ExecTx(r.Context(), func(q database.Querier) error {
		var err error
		component, err = q.CreateComponent(r.Context(), req.Name)
		if err != nil {
			return fmt.Errorf("failed to create component: %w", err)
		}
		for _, repoID := range req.RepositoryIDs {
			err := q.AddComponentCollectorItem(r.Context(), database.AddComponentCollectorItemParams{
				ComponentID:     component.ID,
				Category:        model.CollectorTypeSCM,
				CollectorItemID: repoID,
			})
			if err != nil {
				return fmt.Errorf("failed to add reference to repository %d: %w", repoID, err)
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Failed to create component", "error", err, "name", req.Name)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if req.RepositoryIDs == nil {
		req.RepositoryIDs = []int64{}
	}

	respondWithJSON(w, http.StatusCreated, componentResponse{Component: component, RepositoryIDs: req.RepositoryIDs})
}

// getCommits handles the request to retrieve commits for a repository.
// GET /v1/repos/{repoID}/commits
func (h *Handler) getCommits(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.repository(w, r)
	if !ok {
		return
	}

	commits, err := h.db.GetCommitsByRepoID(r.Context(), repo.ID)
	if err != nil {
		h.logger.Error("Failed to get commits", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if commits == nil {
		commits = []database.Commit{}
	}

	respondWithJSON(w, http.StatusOK, commits)
}

// getPullRequests handles the request to retrieve pull requests for a repository.
// GET /v1/repos/{repoID}/pulls
func (h *Handler) getPullRequests(w http.ResponseWriter, r *http.Request) {
	repo, ok := h.repository(w, r)
	if !ok {
		return
	}

	pulls, err := h.db.GetPullRequestsByRepoID(r.Context(), repo.ID)
	if err != nil {
		h.logger.Error("Failed to get pull requests", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if pulls == nil {
		pulls = []database.PullRequest{}
	}

	respondWithJSON(w, http.StatusOK, pulls)
}

// repository loads the repository named by the repoID path parameter,
// writing the error response itself when it cannot.
func (h *Handler) repository(w http.ResponseWriter, r *http.Request) (database.Repository, bool) {
	repoID, ok := idParam(w, r, "repoID")
	if !ok {
		return database.Repository{}, false
	}

	repo, err := h.db.GetRepository(r.Context(), repoID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Repository not found")
			return database.Repository{}, false
		}
		h.logger.Error("Failed to get repository", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return database.Repository{}, false
	}
	return repo, true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid '"+name+"' parameter. Must be a positive integer.")
		return 0, false
	}
	return id, true
}
