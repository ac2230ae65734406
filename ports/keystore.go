package ports

import "github.com/squadlabs/zkconnect/core"

// Keystore is scoped access to persisted ephemeral key material. The store
// is a shared external resource; a handle must be closed on every exit path.
type Keystore interface {
	StoreEphemeralKey(key *core.EphemeralKeyData) (id string, err error)
	LoadEphemeralKey(id string) (*core.EphemeralKeyData, error)
	Close() error
}

// KeystoreOpener acquires a Keystore handle for a path-addressed store.
type KeystoreOpener interface {
	Open(path string) (Keystore, error)
}
