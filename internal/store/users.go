package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kindredlabs/kindred/internal/embeddings"
)

// collectionName is the Qdrant collection holding user points.
const collectionName = "users1"

// listLimit caps how many users List returns in one call.
const listLimit = 100

// User is a profile record. It has no identity of its own; ids are assigned
// when the record is stored.
type User struct {
	Name      string   `json:"name"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
	Location  string   `json:"location"`
	Age       *int     `json:"age"`
}

// StoredUser is a User together with its assigned id. The record itself
// lives in Qdrant; the service never caches it.
type StoredUser struct {
	ID   string `json:"id"`
	User User   `json:"user"`
}

// SearchResult is a StoredUser with a cosine similarity score
// (higher = more similar).
type SearchResult struct {
	StoredUser
	Score float64 `json:"similarity_score"`
}

// UserStore provides user point operations against Qdrant.
type UserStore struct {
	client *Client
}

// NewUserStore creates a new UserStore.
func NewUserStore(client *Client) *UserStore {
	return &UserStore{client: client}
}

// Init ensures the users collection exists. Must run before the service
// accepts traffic; failure aborts startup.
func (s *UserStore) Init(ctx context.Context) error {
	return s.client.EnsureCollection(ctx, collectionName, embeddings.Dimensions)
}

type upsertRequest struct {
	Points []point `json:"points"`
}

type point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector,omitempty"`
	Payload User      `json:"payload"`
}

// Create upserts a user point. Insert-or-replace keyed by id; last write
// wins.
func (s *UserStore) Create(ctx context.Context, id string, vector []float32, user User) error {
	body := upsertRequest{Points: []point{{ID: id, Vector: vector, Payload: user}}}
	status, err := s.client.do(ctx, http.MethodPut, "/collections/"+collectionName+"/points", body, nil)
	if err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("upserting user: qdrant returned %d", status)
	}
	return nil
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		ID      string  `json:"id"`
		Score   float64 `json:"score"`
		Payload User    `json:"payload"`
	} `json:"result"`
}

// FindNearest returns the single closest user to the query vector, ranked by
// cosine similarity. An empty collection yields ErrNotFound.
func (s *UserStore) FindNearest(ctx context.Context, vector []float32) (*SearchResult, error) {
	body := searchRequest{Vector: vector, Limit: 1, WithPayload: true}
	var resp searchResponse
	status, err := s.client.do(ctx, http.MethodPost, "/collections/"+collectionName+"/points/search", body, &resp)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("searching users: qdrant returned %d", status)
	}
	if len(resp.Result) == 0 {
		return nil, ErrNotFound
	}

	top := resp.Result[0]
	return &SearchResult{
		StoredUser: StoredUser{ID: top.ID, User: top.Payload},
		Score:      top.Score,
	}, nil
}

type retrieveResponse struct {
	Result struct {
		ID      string `json:"id"`
		Payload User   `json:"payload"`
	} `json:"result"`
}

// Get retrieves a user point by id, or ErrNotFound if absent.
func (s *UserStore) Get(ctx context.Context, id string) (*StoredUser, error) {
	var resp retrieveResponse
	status, err := s.client.do(ctx, http.MethodGet, "/collections/"+collectionName+"/points/"+id, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("retrieving user: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("retrieving user: qdrant returned %d", status)
	}

	return &StoredUser{ID: resp.Result.ID, User: resp.Result.Payload}, nil
}

type scrollRequest struct {
	Limit       int  `json:"limit"`
	WithPayload bool `json:"with_payload"`
}

type scrollResponse struct {
	Result struct {
		Points []struct {
			ID      string `json:"id"`
			Payload User   `json:"payload"`
		} `json:"points"`
	} `json:"result"`
}

// List returns up to 100 stored users in no particular order.
func (s *UserStore) List(ctx context.Context) ([]StoredUser, error) {
	body := scrollRequest{Limit: listLimit, WithPayload: true}
	var resp scrollResponse
	status, err := s.client.do(ctx, http.MethodPost, "/collections/"+collectionName+"/points/scroll", body, &resp)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("listing users: qdrant returned %d", status)
	}

	users := make([]StoredUser, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		users = append(users, StoredUser{ID: p.ID, User: p.Payload})
	}
	return users, nil
}

// Count returns the number of stored users.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	return s.client.CollectionCount(ctx, collectionName)
}
