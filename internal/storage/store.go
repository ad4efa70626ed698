package storage

import (
	"errors"
	"fmt"
)

var (
	// DefaultDir is the root of the on-disk artifact store.
	// TODO : leaving this as a var to be able to adjust for the tests
	DefaultDir = "file-storage"
)

var (
	NotFoundErr = errors.New("not found")
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

// Key identifies one persisted analysis artifact: the run it belongs to,
// the grouping hypothesis it was computed under and a label for the
// artifact itself (elbow curve, silhouette sweep, size distribution ...).
type Key struct {
	Run        string `json:"run"`
	Hypothesis string `json:"hypothesis"`
	Label      string `json:"label"`
}

func (k Key) Path() string {
	return fmt.Sprintf("%s_%s_%s", k.Run, k.Hypothesis, k.Label)
}

// Persistence stores and recovers analysis artifacts.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}

// VoidStorage ignores all writes and finds nothing.
type VoidStorage struct {
}

func NewVoidStorage() *VoidStorage {
	return &VoidStorage{}
}

func (d VoidStorage) Store(k Key, value interface{}) error {
	return nil
}

func (d VoidStorage) Load(k Key, value interface{}) error {
	return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
}
