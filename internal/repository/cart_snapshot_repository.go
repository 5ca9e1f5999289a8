package repository

import "context"

// カートのスナップショット（シリアライズ済み）を1キーで保存する約束。
// Loadはキーが無ければ found=false を返す。
type CartSnapshotStore interface {
	Load(ctx context.Context, key string) (data []byte, found bool, err error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
