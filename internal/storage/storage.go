package storage

import (
	"sync"
	"time"

	"github.com/modeldocs/portal/internal/models"
)

// DraftSession holds an upload draft between the analysis step and
// submission, together with the tags suggested from the extracted
// keywords.
type DraftSession struct {
	ID            string             `json:"id"`
	Draft         models.UploadDraft `json:"draft"`
	SuggestedTags []models.Tag       `json:"suggested_tags,omitempty"`
	Parsed        bool               `json:"parsed"`
	Provider      string             `json:"provider,omitempty"`
	Model         string             `json:"model,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// DraftStore is an in-memory session store for upload drafts.
type DraftStore struct {
	drafts map[string]*DraftSession
	mu     sync.RWMutex
}

func New() *DraftStore {
	return &DraftStore{
		drafts: make(map[string]*DraftSession),
	}
}

func (s *DraftStore) Get(id string) (*DraftSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.drafts[id]
	return session, exists
}

func (s *DraftStore) Set(id string, session *DraftSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[id] = session
}

func (s *DraftStore) GetAll() map[string]*DraftSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]*DraftSession, len(s.drafts))
	for k, v := range s.drafts {
		result[k] = v
	}
	return result
}

func (s *DraftStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
}
