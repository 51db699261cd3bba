package store

import (
	"context"
	"errors"
)

// 持久层按两个固定键寻址（身份快照 + 简历集合），
// 因此底层只需要一个最小的 KV 抽象。

// ErrKeyNotFound 表示键从未写入或已被删除。
var ErrKeyNotFound = errors.New("key not found")

// KV 是进程重启后仍然存活的键值介质。
// 写入总是整值替换，不存在部分合并。
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, key string) error
}
