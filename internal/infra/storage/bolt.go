package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	repo "storefront/internal/repository"

	bolt "go.etcd.io/bbolt"
)

var cartBucket = []byte("cart")

// BoltStore はローカルファイルにカートを保存する。
// Update はfsyncしてから返るので、戻った時点で永続化済み。
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt はファイルを開く（無ければディレクトリごと作る）。
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cart dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cart db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create cart bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(cartBucket).Get([]byte(key))
		if v != nil {
			//トランザクション外では使えないのでコピー
			data = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, data != nil, nil
}

func (s *BoltStore) Save(_ context.Context, key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Put([]byte(key), data)
	})
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Delete([]byte(key))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ repo.CartSnapshotStore = (*BoltStore)(nil)
