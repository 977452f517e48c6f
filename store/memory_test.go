package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/playrec/core"
)

func TestMemoryStoreBasic(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	if _, err := ms.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Errorf("缺失 key 期望 NOT_FOUND，实际 %v", err)
	}

	if err := ms.Set(ctx, "k1", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	got, err := ms.Get(ctx, "k1")
	if err != nil || string(got) != "v1" {
		t.Errorf("Get = %q/%v", got, err)
	}

	if err := ms.Delete(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if _, err := ms.Get(ctx, "k1"); !core.IsStoreNotFound(err) {
		t.Error("删除后应为 NOT_FOUND")
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	kvs := map[string][]byte{"a": []byte("1"), "b": []byte("2")}
	if err := ms.BatchSet(ctx, kvs); err != nil {
		t.Fatal(err)
	}

	got, err := ms.BatchGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Errorf("BatchGet = %v", got)
	}
}

func TestMemoryStoreZSet(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	ms.ZAdd(ctx, "top", 10, "g2")
	ms.ZAdd(ctx, "top", 30, "g1")
	ms.ZAdd(ctx, "top", 20, "g3")
	ms.ZAdd(ctx, "top", 20, "g0") // 与 g3 同分，按 member 升序

	got, err := ms.ZRange(ctx, "top", 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"g1", "g0", "g3"}) {
		t.Errorf("ZRange = %v, 期望 [g1 g0 g3]", got)
	}

	score, err := ms.ZScore(ctx, "top", "g1")
	if err != nil || score != 30 {
		t.Errorf("ZScore = %v/%v", score, err)
	}
	if _, err := ms.ZScore(ctx, "top", "missing"); !core.IsStoreNotFound(err) {
		t.Error("缺失成员应为 NOT_FOUND")
	}
}

func TestMemoryStoreHash(t *testing.T) {
	ctx := context.Background()
	ms := NewMemoryStore()
	defer ms.Close()

	ms.HSet(ctx, "item:g1", "title", []byte("Star Drift"))
	ms.HSet(ctx, "item:g1", "tags", []byte("Sci-fi"))

	got, err := ms.HGet(ctx, "item:g1", "title")
	if err != nil || string(got) != "Star Drift" {
		t.Errorf("HGet = %q/%v", got, err)
	}

	all, err := ms.HGetAll(ctx, "item:g1")
	if err != nil || len(all) != 2 {
		t.Errorf("HGetAll = %v/%v", all, err)
	}
}
