package service

import (
	"context"
	"encoding/json"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/models"
)

// TweetService wraps the tweet endpoints.
type TweetService struct {
	client *api.Client
}

// NewTweetService constructs a TweetService over the given API client.
func NewTweetService(client *api.Client) *TweetService {
	return &TweetService{client: client}
}

// List fetches a page of tweets. The raw payload is returned for the
// normalizer: the endpoint's envelope shape varies.
func (s *TweetService) List(ctx context.Context, q api.Query) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/tweets", q.Values())
	if err != nil {
		return nil, err
	}
	return unwrap(raw)
}

// ListMine fetches the authenticated user's tweets.
func (s *TweetService) ListMine(ctx context.Context, q api.Query) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, "/tweets/my", q.Values())
	if err != nil {
		return nil, err
	}
	return unwrap(raw)
}

// Get fetches a single tweet by ID.
func (s *TweetService) Get(ctx context.Context, id string) (models.Tweet, error) {
	raw, err := s.client.Get(ctx, "/tweets/"+id, nil)
	if err != nil {
		return models.Tweet{}, err
	}
	return decode[models.Tweet](raw)
}

// Create publishes a new tweet and returns the created object.
func (s *TweetService) Create(ctx context.Context, data models.CreateTweetRequest) (models.Tweet, error) {
	raw, err := s.client.Post(ctx, "/tweets", data)
	if err != nil {
		return models.Tweet{}, err
	}
	return decode[models.Tweet](raw)
}

// Update edits an existing tweet and returns the server-confirmed object.
func (s *TweetService) Update(ctx context.Context, id string, data models.UpdateTweetRequest) (models.Tweet, error) {
	raw, err := s.client.Put(ctx, "/tweets/"+id, data)
	if err != nil {
		return models.Tweet{}, err
	}
	return decode[models.Tweet](raw)
}

// Delete removes a tweet by ID.
func (s *TweetService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Delete(ctx, "/tweets/"+id)
	return err
}
