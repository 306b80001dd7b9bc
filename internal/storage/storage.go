package storage

import "errors"

// ErrNotFound is returned by Load when nothing has been saved under the key.
var ErrNotFound = errors.New("storage: key not found")

// Store is the persistence collaborator for whole-blob settings data. Every
// value is read and written in full under its key.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
}
