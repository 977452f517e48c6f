package dataset

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/store"
)

func TestStoreSnapshotAdapterRoundtrip(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	snap, errs := BuildSnapshot(ctx,
		[]ItemRecord{
			{ItemID: "g1", Title: "One", Tags: "Action, FPS"},
			{ItemID: "g2", Title: "Two", Tags: "RPG"},
		},
		[]InteractionRecord{
			{UserID: "u1", ItemID: "g1", Signal: 5},
			{UserID: "u2", ItemID: "g2", Signal: 2},
		},
		BuildOptions{})
	if len(errs) != 0 {
		t.Fatal(errs)
	}

	adapter := NewStoreSnapshotAdapter(ms, "test")
	if err := adapter.Save(ctx, snap); err != nil {
		t.Fatalf("保存快照失败: %v", err)
	}

	loaded, err := adapter.Load(ctx)
	if err != nil {
		t.Fatalf("装载快照失败: %v", err)
	}

	if !reflect.DeepEqual(loaded.Matrix.Rows(), snap.Matrix.Rows()) {
		t.Error("矩阵行往返后不一致")
	}
	if loaded.Catalog.Title("g1") != "One" {
		t.Error("目录往返后不一致")
	}
	if !reflect.DeepEqual(loaded.Tags.Tags(), snap.Tags.Tags()) {
		t.Error("标签列表往返后不一致")
	}
}

func TestStoreSnapshotAdapterDegradedRoundtrip(t *testing.T) {
	ctx := context.Background()
	ms := store.NewMemoryStore()
	defer ms.Close()

	adapter := NewStoreSnapshotAdapter(ms, "test")

	// 空存储：DATA_UNAVAILABLE
	if _, err := adapter.Load(ctx); !core.IsDataUnavailable(err) {
		t.Fatalf("空存储期望 DATA_UNAVAILABLE，实际 %v", err)
	}

	// 只有目录的降级快照：往返后矩阵/标签保持 nil
	catalog, err := BuildCatalog([]ItemRecord{{ItemID: "g1"}})
	if err != nil {
		t.Fatal(err)
	}
	if err := adapter.Save(ctx, &Snapshot{Catalog: catalog}); err != nil {
		t.Fatal(err)
	}
	loaded, err := adapter.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Catalog == nil {
		t.Error("目录应装载成功")
	}
	if loaded.Matrix != nil || loaded.Tags != nil {
		t.Error("降级快照的缺失字段应保持 nil")
	}
}
