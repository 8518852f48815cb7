package stub

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/coskuntekin/diginex/internal/models"
)

// tweetPage is the cursor-capable list envelope served by GET /tweets.
// The cursor fields are omitted in page-based responses.
type tweetPage struct {
	Tweets []models.Tweet `json:"tweets"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Next   string         `json:"next,omitempty"`
	Prev   string         `json:"prev,omitempty"`
}

// encodeCursor and decodeCursor translate between list offsets and the
// opaque continuation tokens on the wire.
func encodeCursor(offset int) string {
	return base64.URLEncoding.EncodeToString([]byte(fmt.Sprintf("o:%d", offset)))
}

func decodeCursor(token string) (int, bool) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return 0, false
	}
	var offset int
	if _, err := fmt.Sscanf(string(raw), "o:%d", &offset); err != nil {
		return 0, false
	}
	return offset, offset >= 0
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// handleListTweets serves the tweet collection. With a "token" query
// parameter it pages by cursor, otherwise by page number; both modes share
// the keyed envelope.
func (s *Server) handleListTweets(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)

	s.mu.Lock()
	all := append([]models.Tweet(nil), s.tweets...)
	s.mu.Unlock()

	total := len(all)

	if token := r.URL.Query().Get("token"); token != "" {
		offset, ok := decodeCursor(token)
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid continuation token")
			return
		}
		end := offset + limit
		if offset > total {
			offset = total
		}
		if end > total {
			end = total
		}
		page := tweetPage{
			Tweets: all[offset:end],
			Total:  total,
			Page:   offset/limit + 1,
			Limit:  limit,
		}
		if end < total {
			page.Next = encodeCursor(end)
		}
		if offset > 0 {
			prev := offset - limit
			if prev < 0 {
				prev = 0
			}
			page.Prev = encodeCursor(prev)
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	pageNum := queryInt(r, "page", 1)
	start := (pageNum - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	writeJSON(w, http.StatusOK, tweetPage{
		Tweets: all[start:end],
		Total:  total,
		Page:   pageNum,
		Limit:  limit,
	})
}

// handleMyTweets serves the caller's own tweets as a bare array, the way
// the production endpoint does.
func (s *Server) handleMyTweets(w http.ResponseWriter, r *http.Request) {
	subject := subjectFrom(r.Context())

	s.mu.Lock()
	mine := []models.Tweet{}
	for _, t := range s.tweets {
		if t.Owner == subject {
			mine = append(mine, t)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, mine)
}

func (s *Server) handleGetTweet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tweets {
		if t.ID == id {
			writeData(w, http.StatusOK, t)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Tweet not found")
}

func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	ts := s.now().UnixMilli()
	tweet := models.Tweet{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Content:     req.Content,
		Owner:       subjectFrom(r.Context()),
		CreatedAt:   ts,
		UpdatedAt:   ts,
		PublishedAt: ts,
	}

	s.mu.Lock()
	// Newest first, matching the client's most-recent-first ordering.
	s.tweets = append([]models.Tweet{tweet}, s.tweets...)
	s.mu.Unlock()

	writeData(w, http.StatusCreated, tweet)
}

func (s *Server) handleUpdateTweet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	subject := subjectFrom(r.Context())
	caller, _ := s.userByID(subject)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tweets {
		if s.tweets[i].ID != id {
			continue
		}
		if s.tweets[i].Owner != subject && caller.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "You can only edit your own tweets")
			return
		}
		if req.Title != "" {
			s.tweets[i].Title = req.Title
		}
		if req.Content != "" {
			s.tweets[i].Content = req.Content
		}
		s.tweets[i].UpdatedAt = s.now().UnixMilli()
		writeData(w, http.StatusOK, s.tweets[i])
		return
	}
	writeError(w, http.StatusNotFound, "Tweet not found")
}

func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	subject := subjectFrom(r.Context())
	caller, _ := s.userByID(subject)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tweets {
		if s.tweets[i].ID != id {
			continue
		}
		if s.tweets[i].Owner != subject && caller.Role != models.RoleAdmin {
			writeError(w, http.StatusForbidden, "You can only delete your own tweets")
			return
		}
		s.tweets = append(s.tweets[:i], s.tweets[i+1:]...)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
		return
	}
	writeError(w, http.StatusNotFound, "Tweet not found")
}
