package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"
)

// openTestRedis connects to the server named by QIANNE_TEST_REDIS, or
// skips.
func openTestRedis(t *testing.T, namespace string) *Redis {
	t.Helper()
	addr := os.Getenv("QIANNE_TEST_REDIS")
	if addr == "" {
		t.Skip("QIANNE_TEST_REDIS not set")
	}
	r, err := OpenRedis(context.Background(), RedisConfig{Addr: addr, Namespace: namespace})
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedisGetSetDelete(t *testing.T) {
	ctx := context.Background()
	ns := fmt.Sprintf("test-%d", time.Now().UnixNano())
	r := openTestRedis(t, ns)
	t.Cleanup(func() { _ = r.Delete(ctx, "token") })

	if _, found, err := r.Get(ctx, "token"); err != nil || found {
		t.Fatalf("Get on missing key: found=%v err=%v", found, err)
	}
	if err := r.Set(ctx, "token", "one"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, found, err := r.Get(ctx, "token"); err != nil || !found || v != "one" {
		t.Fatalf("Get = %q, %v, %v", v, found, err)
	}

	raw, err := r.client.Get(ctx, "qianne:"+ns+":token").Result()
	if err != nil || raw != "one" {
		t.Fatalf("namespaced key = %q, %v", raw, err)
	}

	if err := r.Delete(ctx, "token"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, err := r.Get(ctx, "token"); err != nil || found {
		t.Fatalf("Get after Delete: found=%v err=%v", found, err)
	}
}

func TestRedisNamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	base := fmt.Sprintf("test-%d", time.Now().UnixNano())
	alice := openTestRedis(t, base+"-alice")
	bob := openTestRedis(t, base+"-bob")
	t.Cleanup(func() { _ = alice.Delete(ctx, "token") })

	if err := alice.Set(ctx, "token", "a"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found, err := bob.Get(ctx, "token"); err != nil || found {
		t.Fatalf("other namespace sees the token: found=%v err=%v", found, err)
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := OpenRedis(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatal("OpenRedis succeeded against a closed port")
	}
}
