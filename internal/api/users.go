package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kindredlabs/kindred/internal/embeddings"
	"github.com/kindredlabs/kindred/internal/events"
	"github.com/kindredlabs/kindred/internal/semantic"
	"github.com/kindredlabs/kindred/internal/store"
)

// UserHandler provides the user storage and similarity endpoints.
type UserHandler struct {
	users     *store.UserStore
	embedder  embeddings.Provider
	publisher *events.Publisher
	logger    *slog.Logger
}

// NewUserHandler creates a new UserHandler. publisher may be nil when the
// event bus is not configured.
func NewUserHandler(users *store.UserStore, embedder embeddings.Provider, publisher *events.Publisher, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:     users,
		embedder:  embedder,
		publisher: publisher,
		logger:    logger,
	}
}

// decodeUser decodes and validates a User payload. It writes the error
// response itself and returns false when the payload is unusable.
func (h *UserHandler) decodeUser(w http.ResponseWriter, r *http.Request) (store.User, bool) {
	var u store.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return u, false
	}
	switch {
	case u.Name == "":
		writeError(w, http.StatusUnprocessableEntity, "name is required")
	case u.Bio == "":
		writeError(w, http.StatusUnprocessableEntity, "bio is required")
	case u.Interests == nil:
		writeError(w, http.StatusUnprocessableEntity, "interests is required")
	case u.Location == "":
		writeError(w, http.StatusUnprocessableEntity, "location is required")
	default:
		return u, true
	}
	return u, false
}

// embed serializes the user and generates its embedding, mapping an
// exhausted candidate list to a 500.
func (h *UserHandler) embed(w http.ResponseWriter, r *http.Request, u *store.User) ([]float32, bool) {
	vector, err := h.embedder.Embed(r.Context(), semantic.UserText(u))
	if err != nil {
		if !errors.Is(err, embeddings.ErrUnavailable) {
			h.logger.Error("embedding failed", "error", err)
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate embedding with any available model")
		return nil, false
	}
	return vector, true
}

// Create handles POST /users/.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.decodeUser(w, r)
	if !ok {
		return
	}

	vector, ok := h.embed(w, r, &user)
	if !ok {
		return
	}

	id := uuid.NewString()
	if err := h.users.Create(r.Context(), id, vector, user); err != nil {
		h.logger.Error("failed to store user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store user")
		return
	}

	stored := store.StoredUser{ID: id, User: user}
	if h.publisher != nil {
		_ = h.publisher.UserCreated(r.Context(), &stored)
	}

	writeJSON(w, http.StatusOK, stored)
}

// FindSimilar handles POST /users/find-similar/.
func (h *UserHandler) FindSimilar(w http.ResponseWriter, r *http.Request) {
	user, ok := h.decodeUser(w, r)
	if !ok {
		return
	}

	vector, ok := h.embed(w, r, &user)
	if !ok {
		return
	}

	result, err := h.users.FindNearest(r.Context(), vector)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No similar users found")
			return
		}
		h.logger.Error("similarity search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Similarity search failed")
		return
	}

	if h.publisher != nil {
		_ = h.publisher.UserSearched(r.Context(), result.ID, result.Score)
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /users/{user_id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "user_id")

	stored, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to retrieve user", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}

	writeJSON(w, http.StatusOK, stored)
}

// List handles GET /users/.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}
