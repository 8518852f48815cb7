package store

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/coskuntekin/diginex/internal/api"
	"github.com/coskuntekin/diginex/internal/models"
	"github.com/coskuntekin/diginex/internal/paginate"
)

// tweetEntityKey is the plural payload field tweets arrive under.
const tweetEntityKey = "tweets"

// TweetAPI is the slice of the tweet service the store depends on.
type TweetAPI interface {
	List(ctx context.Context, q api.Query) (json.RawMessage, error)
	ListMine(ctx context.Context, q api.Query) (json.RawMessage, error)
	Get(ctx context.Context, id string) (models.Tweet, error)
	Create(ctx context.Context, data models.CreateTweetRequest) (models.Tweet, error)
	Update(ctx context.Context, id string, data models.UpdateTweetRequest) (models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// TweetStore caches the paginated tweet collection and reconciles local
// state with the backend on every mutation.
type TweetStore struct {
	collection[models.Tweet]
	svc TweetAPI
}

// NewTweetStore constructs an empty TweetStore over the given service.
// Pass nil for log to disable logging.
func NewTweetStore(svc TweetAPI, log *zap.Logger) *TweetStore {
	s := &TweetStore{svc: svc}
	initCollection(&s.collection, log)
	return s
}

// Fetch loads a page of tweets. A resolved page of 1 replaces the
// collection; later pages append in order (infinite scroll). The pagination
// state is replaced wholesale from the normalized response.
func (s *TweetStore) Fetch(ctx context.Context, q api.Query) ([]models.Tweet, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	// Page- and cursor-based paging are mutually exclusive per request.
	if q.Token == "" && q.Page <= 0 {
		q.Page = paginate.DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = paginate.DefaultLimit
	}

	raw, err := s.svc.List(ctx, q)
	if err != nil {
		s.fail(err, "Failed to fetch tweets")
		return nil, err
	}

	page, err := paginate.Normalize[models.Tweet](raw, tweetEntityKey, paginate.Params{Page: q.Page, Limit: q.Limit})
	if err != nil {
		s.fail(err, "Failed to fetch tweets")
		return nil, err
	}

	items, _ := s.applyPage(page, epoch)
	return items, nil
}

// FetchMine loads the authenticated user's tweets, replacing the collection
// without touching the pagination state.
func (s *TweetStore) FetchMine(ctx context.Context, q api.Query) ([]models.Tweet, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	raw, err := s.svc.ListMine(ctx, q)
	if err != nil {
		s.fail(err, "Failed to fetch my tweets")
		return nil, err
	}

	page, err := paginate.Normalize[models.Tweet](raw, tweetEntityKey, paginate.Params{Page: q.Page, Limit: q.Limit})
	if err != nil {
		s.fail(err, "Failed to fetch my tweets")
		return nil, err
	}

	items, _ := s.replaceAll(page.Items, epoch)
	return items, nil
}

// FetchByID loads one tweet into the selection singleton; the collection
// is not altered.
func (s *TweetStore) FetchByID(ctx context.Context, id string) (models.Tweet, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	tweet, err := s.svc.Get(ctx, id)
	if err != nil {
		s.fail(err, "Failed to fetch tweet")
		return models.Tweet{}, err
	}

	s.SetSelected(tweet)
	return tweet, nil
}

// Create publishes a tweet; the created item is prepended to the collection
// (most-recent-first) and the total grows by one.
func (s *TweetStore) Create(ctx context.Context, data models.CreateTweetRequest) (models.Tweet, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	tweet, err := s.svc.Create(ctx, data)
	if err != nil {
		s.fail(err, "Failed to create tweet")
		return models.Tweet{}, err
	}

	s.insertFront(tweet)
	return tweet, nil
}

// Update edits a tweet; the server-confirmed object replaces the matching
// element in place and the selection follows. The server object is returned
// even when the id is not cached locally.
func (s *TweetStore) Update(ctx context.Context, id string, data models.UpdateTweetRequest) (models.Tweet, error) {
	epoch := s.begin()
	defer s.finish(epoch)

	tweet, err := s.svc.Update(ctx, id, data)
	if err != nil {
		s.fail(err, "Failed to update tweet")
		return models.Tweet{}, err
	}

	s.replaceByID(id, tweet)
	return tweet, nil
}

// Delete removes a tweet by id from the backend and the local collection,
// flooring the total at zero and clearing a matching selection.
func (s *TweetStore) Delete(ctx context.Context, id string) error {
	epoch := s.begin()
	defer s.finish(epoch)

	if err := s.svc.Delete(ctx, id); err != nil {
		s.fail(err, "Failed to delete tweet")
		return err
	}

	s.removeByID(id)
	return nil
}

// FetchNextPage re-issues Fetch with the stored next cursor merged into q,
// preserving the current limit. Without a cursor it is a no-op returning a
// nil result and no error.
func (s *TweetStore) FetchNextPage(ctx context.Context, q api.Query) ([]models.Tweet, error) {
	token, limit := s.cursor(true)
	if token == "" {
		return nil, nil
	}
	q.Token = token
	q.Limit = limit
	q.Page = 0
	return s.Fetch(ctx, q)
}

// FetchPrevPage is FetchNextPage for the previous cursor.
func (s *TweetStore) FetchPrevPage(ctx context.Context, q api.Query) ([]models.Tweet, error) {
	token, limit := s.cursor(false)
	if token == "" {
		return nil, nil
	}
	q.Token = token
	q.Limit = limit
	q.Page = 0
	return s.Fetch(ctx, q)
}
