package recall

import (
	"context"
	"math"
	"testing"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/dataset"
)

func contentFixture(t *testing.T, rows map[string]dataset.Vector) *dataset.Ref {
	t.Helper()
	catalog, err := dataset.BuildCatalog([]dataset.ItemRecord{
		{ItemID: "g1", Tags: "Action, FPS"},
		{ItemID: "g2", Tags: "Action, RPG"},
		{ItemID: "g3", Tags: "RPG, Story Rich"},
		{ItemID: "g4", Tags: "Puzzle"},
	})
	if err != nil {
		t.Fatal(err)
	}
	tags, err := (&dataset.TagIndexBuilder{}).Build(catalog)
	if err != nil {
		t.Fatal(err)
	}
	ref := &dataset.Ref{}
	ref.Swap(&dataset.Snapshot{
		Catalog: catalog,
		Tags:    tags,
		Matrix:  dataset.NewMatrixFromRows(rows),
	})
	return ref
}

func TestContentRecall(t *testing.T) {
	ctx := context.Background()
	ref := contentFixture(t, map[string]dataset.Vector{
		"u1": {"g1": 2},
	})
	src := &Content{Data: ref}

	items, err := src.Recall(ctx, &core.RecommendContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("召回失败: %v", err)
	}

	// 画像 = {Action:2, FPS:2}；g1 已交互排除，g3/g4 与画像正交
	if len(items) != 1 || items[0].ID != "g2" {
		t.Fatalf("期望只召回 g2，实际 %+v", items)
	}
	// cos({Action:2,FPS:2}, {Action:1,RPG:1}) = 2/(√8·√2) = 0.5
	if math.Abs(items[0].Score-0.5) > 1e-9 {
		t.Errorf("g2 分数 = %v, 期望 0.5", items[0].Score)
	}
	if items[0].Label("recall_source") != "content" {
		t.Error("缺少召回来源标签")
	}
}

type staticPrefs map[string]float64

func (p staticPrefs) Preferences(_ context.Context, _ string) (map[string]float64, error) {
	return p, nil
}

func TestContentColdUserFallback(t *testing.T) {
	ctx := context.Background()
	ref := contentFixture(t, map[string]dataset.Vector{
		"u1": {"g1": 2},
	})

	// 无兜底画像：冷用户返回空
	src := &Content{Data: ref}
	items, err := src.Recall(ctx, &core.RecommendContext{UserID: "u_cold"})
	if err != nil || len(items) != 0 {
		t.Fatalf("冷用户应静默返回空: items=%v err=%v", items, err)
	}

	// 有兜底画像：用外部偏好召回；g2/g3 同分按 ID 升序
	src = &Content{Data: ref, Fallback: staticPrefs{"RPG": 1}}
	rctx := &core.RecommendContext{UserID: "u_cold"}
	items, err = src.Recall(ctx, rctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != "g2" || items[1].ID != "g3" {
		t.Fatalf("兜底画像召回 = %+v, 期望 [g2 g3]", items)
	}
	if lbl, ok := rctx.GetLabel("profile_source"); !ok || lbl.Value != "fallback" {
		t.Error("兜底路径应打 profile_source=fallback 标签")
	}
}

func TestContentUnavailable(t *testing.T) {
	ctx := context.Background()

	ref := &dataset.Ref{}
	src := &Content{Data: ref}
	if src.Available() {
		t.Error("快照未装载时应不可用")
	}
	items, err := src.Recall(ctx, &core.RecommendContext{UserID: "u1"})
	if err != nil || len(items) != 0 {
		t.Errorf("降级状态应静默返回空: items=%v err=%v", items, err)
	}
}
