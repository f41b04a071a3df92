package identity

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Provider resolves the persisted employee identifier (MTRC) that
// authorizes uploads. It is injected into the upload workflow so tests can
// substitute a double.
type Provider interface {
	EmployeeID() (string, bool)
}

// Profile is the serialized user profile written by the login flow. This
// core only reads it.
type Profile struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

var (
	bucketIdentity = []byte("identity")
	keyEmployeeID  = []byte("employee_id")
	keyProfile     = []byte("profile")
)

// Store reads identity state from a local bolt database. The login flow
// owns writes; everything here is a read.
type Store struct {
	db *bolt.DB
}

// Open opens the identity database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open identity store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// EmployeeID returns the persisted employee identifier, and false when
// none has been stored.
func (s *Store) EmployeeID() (string, bool) {
	var id string
	_ = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketIdentity)
		if b == nil {
			return nil
		}
		if v := b.Get(keyEmployeeID); v != nil {
			id = string(v)
		}
		return nil
	})
	return id, id != ""
}

// Profile returns the persisted user profile, or nil when absent.
func (s *Store) Profile() (*Profile, error) {
	var p *Profile
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketIdentity)
		if b == nil {
			return nil
		}
		v := b.Get(keyProfile)
		if v == nil {
			return nil
		}
		p = &Profile{}
		return json.Unmarshal(v, p)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return p, nil
}

// Static is a fixed-identity provider for tests and single-user setups.
type Static struct {
	ID string
}

// EmployeeID returns the configured identifier.
func (s Static) EmployeeID() (string, bool) {
	return s.ID, s.ID != ""
}
