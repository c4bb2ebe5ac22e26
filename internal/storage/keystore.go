package storage

import (
	"bytes"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/rsafile/internal/codec"
	"github.com/user/rsafile/internal/keypair"
)

type StoredKey struct {
	ID        string          `json:"id"`
	Keypair   keypair.Keypair `json:"keypair"`
	Length    int             `json:"length"`
	CreatedAt time.Time       `json:"created_at"`
}

// KeyFile renders the key in key-file format.
func (k *StoredKey) KeyFile() ([]byte, error) {
	var buf bytes.Buffer
	if err := codec.WriteKeyFile(&buf, &k.Keypair, k.Length); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type KeyStore struct {
	mu   sync.RWMutex
	keys map[string]*StoredKey
}

func NewKeyStore() *KeyStore {
	return &KeyStore{
		keys: make(map[string]*StoredKey),
	}
}

// Store records kp together with the number of units it encrypted.
func (ks *KeyStore) Store(kp *keypair.Keypair, length int) *StoredKey {
	storedKey := &StoredKey{
		ID:        uuid.New().String(),
		Keypair:   *kp,
		Length:    length,
		CreatedAt: time.Now(),
	}

	ks.mu.Lock()
	ks.keys[storedKey.ID] = storedKey
	ks.mu.Unlock()

	return storedKey
}

func (ks *KeyStore) GetKey(id string) (*StoredKey, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	key, exists := ks.keys[id]
	return key, exists
}

func (ks *KeyStore) DeleteKey(id string) bool {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	_, exists := ks.keys[id]
	delete(ks.keys, id)
	return exists
}

// GetAllKeys returns every key, oldest first.
func (ks *KeyStore) GetAllKeys() []*StoredKey {
	ks.mu.RLock()
	keys := make([]*StoredKey, 0, len(ks.keys))
	for _, key := range ks.keys {
		keys = append(keys, key)
	}
	ks.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.Before(keys[j].CreatedAt)
	})
	return keys
}
