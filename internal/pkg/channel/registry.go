package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.etcd.io/bbolt"
)

var ErrBucketNotFound = errors.New("channel bucket doesn't exist")

type Repository[R Record] interface {
	Get(id common.Hash) (R, error)
	Insert(id common.Hash, rec R) error
	Mutate(id common.Hash, fn func(rec R) error) error
}

type BoltRepository[R Record] struct {
	db     *bbolt.DB
	bucket []byte
	blank  func() R
}

func NewBoltRepository[R Record](db *bbolt.DB, bucket string, blank func() R) *BoltRepository[R] {
	return &BoltRepository[R]{
		db:     db,
		bucket: []byte(bucket),
		blank:  blank,
	}
}

func (r *BoltRepository[R]) Get(id common.Hash) (R, error) {
	rec := r.blank()

	err := r.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(r.bucket)
		if bucket == nil {
			return ErrBucketNotFound
		}

		raw := bucket.Get(id.Bytes())
		if raw == nil {
			return ErrNotFound
		}

		err := json.Unmarshal(raw, rec)
		if err != nil {
			return fmt.Errorf("failed to unmarshal channel: %w", err)
		}

		return nil
	})
	if err != nil {
		var zero R

		return zero, fmt.Errorf("failed to get channel: %w", err)
	}

	return rec, nil
}

func (r *BoltRepository[R]) Insert(id common.Hash, rec R) error {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(r.bucket)
		if bucket == nil {
			return ErrBucketNotFound
		}

		if bucket.Get(id.Bytes()) != nil {
			return ErrAlreadyExists
		}

		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal channel: %w", err)
		}

		err = bucket.Put(id.Bytes(), raw)
		if err != nil {
			return fmt.Errorf("failed to put channel: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to insert channel: %w", err)
	}

	return nil
}

func (r *BoltRepository[R]) Mutate(id common.Hash, fn func(rec R) error) error {
	err := r.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(r.bucket)
		if bucket == nil {
			return ErrBucketNotFound
		}

		raw := bucket.Get(id.Bytes())
		if raw == nil {
			return ErrNotFound
		}

		rec := r.blank()

		err := json.Unmarshal(raw, rec)
		if err != nil {
			return fmt.Errorf("failed to unmarshal channel: %w", err)
		}

		err = fn(rec)
		if err != nil {
			return err
		}

		next, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal channel: %w", err)
		}

		err = bucket.Put(id.Bytes(), next)
		if err != nil {
			return fmt.Errorf("failed to put channel: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mutate channel: %w", err)
	}

	return nil
}

type MemoryRepository[R Record] struct {
	mu    sync.RWMutex
	blank func() R
	items map[common.Hash][]byte
}

func NewMemoryRepository[R Record](blank func() R) *MemoryRepository[R] {
	return &MemoryRepository[R]{
		mu:    sync.RWMutex{},
		blank: blank,
		items: make(map[common.Hash][]byte),
	}
}

func (r *MemoryRepository[R]) Get(id common.Hash) (R, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero R

	raw, ok := r.items[id]
	if !ok {
		return zero, ErrNotFound
	}

	rec := r.blank()

	err := json.Unmarshal(raw, rec)
	if err != nil {
		return zero, fmt.Errorf("failed to unmarshal channel: %w", err)
	}

	return rec, nil
}

func (r *MemoryRepository[R]) Insert(id common.Hash, rec R) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]
	if ok {
		return ErrAlreadyExists
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal channel: %w", err)
	}

	r.items[id] = raw

	return nil
}

func (r *MemoryRepository[R]) Mutate(id common.Hash, fn func(rec R) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}

	rec := r.blank()

	err := json.Unmarshal(raw, rec)
	if err != nil {
		return fmt.Errorf("failed to unmarshal channel: %w", err)
	}

	err = fn(rec)
	if err != nil {
		return err
	}

	next, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal channel: %w", err)
	}

	r.items[id] = next

	return nil
}
