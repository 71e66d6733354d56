package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "pdf:abc"); err != nil || hit {
		t.Fatalf("空缓存应未命中: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "pdf:abc", []byte("%PDF-1.7"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "pdf:abc")
	if err != nil || !hit || string(data) != "%PDF-1.7" {
		t.Fatalf("应命中已写入条目: data=%q hit=%v err=%v", data, hit, err)
	}
	if err := c.Delete(ctx, "pdf:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "pdf:abc"); hit {
		t.Fatalf("删除后不应命中")
	}
	if err := c.Delete(ctx, "pdf:abc"); err != nil {
		t.Fatalf("删除不存在的键不应报错: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Fatalf("过期条目不应命中")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("写入损坏条目失败: %v", err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("损坏条目应视为未命中: hit=%v err=%v", hit, err)
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NullCache{}
	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); data != nil || hit || err != nil {
		t.Fatalf("NullCache 不应保存数据")
	}
}

func TestRedisKeyPrefix(t *testing.T) {
	c := newRedisCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "")
	defer c.Close()
	if got := c.key("pdf:1"); got != "newsletter:pdf:1" {
		t.Fatalf("默认前缀错误: %q", got)
	}
}

func TestHash(t *testing.T) {
	if Hash([]byte("a")) == Hash([]byte("b")) || len(Hash([]byte("a"))) != 64 {
		t.Fatalf("Hash 应为 64 位十六进制 SHA-256")
	}
}
