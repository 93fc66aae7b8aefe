package sessionstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fieldsync/mobilecore/internal/client/models"
	"github.com/fieldsync/mobilecore/internal/dbx"
)

// Storage keys. The session store is the only writer of these keys.
const (
	keyCredential = "auth.credential"
	keyIdentity   = "auth.identity"
	keyAnonymous  = "auth.anonymous"
)

// schemaVersion is embedded into every persisted record so future field
// changes can be migrated explicitly instead of silently failing to parse.
const schemaVersion = 1

// credentialRecord is the on-disk form of models.Credential.
type credentialRecord struct {
	V           int       `json:"v"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// identityRecord is the on-disk form of models.Identity.
type identityRecord struct {
	V           int       `json:"v"`
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// anonymousRecord is the on-disk form of the independent anonymity flag.
type anonymousRecord struct {
	V         int  `json:"v"`
	Anonymous bool `json:"anonymous"`
}

// Store is the typed persistence layer for the session triple
// (credential, identity, anonymity flag). Multi-key writes run in a
// single transaction: a reader observes either the full new state or
// the full previous one, never a mix.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveSession persists identity, credential, and the anonymity flag
// atomically.
func (s *Store) SaveSession(ctx context.Context, identity models.Identity, credential models.Credential, anonymous bool) error {
	credBytes, err := json.Marshal(credentialRecord{
		V:           schemaVersion,
		AccessToken: credential.AccessToken,
		ExpiresAt:   credential.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	identBytes, err := json.Marshal(identityRecord{
		V:           schemaVersion,
		ID:          identity.ID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		IsAnonymous: identity.IsAnonymous,
		CreatedAt:   identity.CreatedAt,
		UpdatedAt:   identity.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}

	anonBytes, err := json.Marshal(anonymousRecord{V: schemaVersion, Anonymous: anonymous})
	if err != nil {
		return fmt.Errorf("marshal anonymity flag: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		kv := NewSQLiteKV(tx)
		if err := kv.Set(ctx, keyCredential, credBytes); err != nil {
			return err
		}
		if err := kv.Set(ctx, keyIdentity, identBytes); err != nil {
			return err
		}
		return kv.Set(ctx, keyAnonymous, anonBytes)
	})
}

// SaveCredential replaces only the persisted credential (used by token
// refresh, where the identity is unchanged).
func (s *Store) SaveCredential(ctx context.Context, credential models.Credential) error {
	b, err := json.Marshal(credentialRecord{
		V:           schemaVersion,
		AccessToken: credential.AccessToken,
		ExpiresAt:   credential.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}
	return NewSQLiteKV(s.db).Set(ctx, keyCredential, b)
}

// Credential returns the persisted credential, or (nil, nil) when none
// is saved.
func (s *Store) Credential(ctx context.Context) (*models.Credential, error) {
	b, err := NewSQLiteKV(s.db).Get(ctx, keyCredential)
	if err != nil || b == nil {
		return nil, err
	}
	var rec credentialRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode credential record: %w", err)
	}
	if rec.V != schemaVersion {
		return nil, fmt.Errorf("credential record version %d is not supported", rec.V)
	}
	return &models.Credential{AccessToken: rec.AccessToken, ExpiresAt: rec.ExpiresAt}, nil
}

// Identity returns the persisted identity, or (nil, nil) when none is
// saved.
func (s *Store) Identity(ctx context.Context) (*models.Identity, error) {
	b, err := NewSQLiteKV(s.db).Get(ctx, keyIdentity)
	if err != nil || b == nil {
		return nil, err
	}
	var rec identityRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("decode identity record: %w", err)
	}
	if rec.V != schemaVersion {
		return nil, fmt.Errorf("identity record version %d is not supported", rec.V)
	}
	return &models.Identity{
		ID:          rec.ID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		IsAnonymous: rec.IsAnonymous,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}

// IsAnonymous returns the persisted anonymity flag. A missing flag reads
// as false.
func (s *Store) IsAnonymous(ctx context.Context) (bool, error) {
	b, err := NewSQLiteKV(s.db).Get(ctx, keyAnonymous)
	if err != nil || b == nil {
		return false, err
	}
	var rec anonymousRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return false, fmt.Errorf("decode anonymity record: %w", err)
	}
	return rec.Anonymous, nil
}

// Clear removes the whole session triple in one statement.
func (s *Store) Clear(ctx context.Context) error {
	return NewSQLiteKV(s.db).MultiRemove(ctx, keyCredential, keyIdentity, keyAnonymous)
}
