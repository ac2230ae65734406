package keystore

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/squadlabs/zkconnect/core"
	"github.com/squadlabs/zkconnect/ports"
)

const keystoreFile = "ephemeral.keys"

// entry is the persisted form of one ephemeral key.
type entry struct {
	ID          string    `json:"id"`
	Scheme      string    `json:"scheme"`
	PrivateSeed string    `json:"privateSeed"`
	PublicKey   string    `json:"publicKey"`
	MaxEpoch    uint64    `json:"maxEpoch"`
	Randomness  string    `json:"randomness"`
	CreatedAt   time.Time `json:"createdAt"`
}

type fileFormat struct {
	Version int     `json:"version"`
	Keys    []entry `json:"keys"`
}

// FileKeystore is a path-addressed store for ephemeral key material. The
// underlying directory is a shared resource; a FileKeystore is a scoped
// handle and must be closed on every exit path.
type FileKeystore struct {
	path string

	mu      sync.Mutex
	entries []entry
	closed  bool
}

// Opener opens file keystores. It implements ports.KeystoreOpener.
type Opener struct{}

func (Opener) Open(path string) (ports.Keystore, error) {
	return Open(path)
}

// Open acquires a handle on the keystore directory at path, creating it if
// it does not exist yet.
func Open(path string) (*FileKeystore, error) {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, core.WrapError(core.KindService, err, "failed to create keystore directory %s", path)
	}

	ks := &FileKeystore{path: path}

	raw, err := os.ReadFile(ks.file())
	if os.IsNotExist(err) {
		return ks, nil
	}
	if err != nil {
		return nil, core.WrapError(core.KindService, err, "failed to read keystore file")
	}

	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, core.WrapError(core.KindService, err, "keystore file is corrupt")
	}
	ks.entries = f.Keys

	return ks, nil
}

// StoreEphemeralKey persists a key and returns its store id.
func (ks *FileKeystore) StoreEphemeralKey(key *core.EphemeralKeyData) (string, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.closed {
		return "", core.NewError(core.KindService, "keystore handle is closed")
	}

	e := entry{
		ID:          uuid.New().String(),
		Scheme:      "ed25519",
		PrivateSeed: hexutil.Encode(key.PrivateKey.Seed()),
		PublicKey:   key.PublicKeyBase64(),
		MaxEpoch:    key.MaxEpoch,
		Randomness:  key.Randomness,
		CreatedAt:   time.Now().UTC(),
	}
	ks.entries = append(ks.entries, e)

	if err := ks.flush(); err != nil {
		ks.entries = ks.entries[:len(ks.entries)-1]
		return "", err
	}
	return e.ID, nil
}

// LoadEphemeralKey returns the key with the given id, or the most recently
// stored key when id is empty.
func (ks *FileKeystore) LoadEphemeralKey(id string) (*core.EphemeralKeyData, error) {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	if ks.closed {
		return nil, core.NewError(core.KindService, "keystore handle is closed")
	}
	if len(ks.entries) == 0 {
		return nil, core.NewError(core.KindService, "keystore at %s holds no ephemeral keys", ks.path)
	}

	var found *entry
	if id == "" {
		found = &ks.entries[len(ks.entries)-1]
	} else {
		for i := range ks.entries {
			if ks.entries[i].ID == id {
				found = &ks.entries[i]
				break
			}
		}
	}
	if found == nil {
		return nil, core.NewError(core.KindService, "no ephemeral key with id %s", id)
	}

	seed, err := hexutil.Decode(found.PrivateSeed)
	if err != nil {
		return nil, core.WrapError(core.KindService, err, "stored private seed for key %s is corrupt", found.ID)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, core.NewError(core.KindService, "stored private seed for key %s has length %d", found.ID, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)

	if base64.StdEncoding.EncodeToString(pub) != found.PublicKey {
		return nil, core.NewError(core.KindService, "stored public key for key %s does not match its seed", found.ID)
	}

	return &core.EphemeralKeyData{
		PublicKey:  pub,
		PrivateKey: priv,
		MaxEpoch:   found.MaxEpoch,
		Randomness: found.Randomness,
	}, nil
}

// Close releases the handle. Further operations fail with a Service error.
func (ks *FileKeystore) Close() error {
	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.entries = nil
	ks.closed = true
	return nil
}

func (ks *FileKeystore) file() string {
	return filepath.Join(ks.path, keystoreFile)
}

// flush writes the store atomically: a rename never leaves a half-written
// keystore behind.
func (ks *FileKeystore) flush() error {
	raw, err := json.MarshalIndent(fileFormat{Version: 1, Keys: ks.entries}, "", "  ")
	if err != nil {
		return core.WrapError(core.KindService, err, "failed to encode keystore")
	}

	tmp := ks.file() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return core.WrapError(core.KindService, err, "failed to write keystore file")
	}
	if err := os.Rename(tmp, ks.file()); err != nil {
		return core.WrapError(core.KindService, err, "failed to replace keystore file")
	}
	return nil
}
