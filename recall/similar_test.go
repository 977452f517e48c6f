package recall

import (
	"context"
	"testing"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/dataset"
)

func TestSimilarItems(t *testing.T) {
	ref := contentFixture(t, map[string]dataset.Vector{"u1": {"g1": 1}})
	src := &SimilarItems{Data: ref}

	// g1 = {Action, FPS}：g2 共享 Action，g3/g4 正交
	items, err := src.Similar("g1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "g2" {
		t.Fatalf("期望只有 g2 相似，实际 %+v", items)
	}

	// 自身不出现在结果里
	for _, it := range items {
		if it.ID == "g1" {
			t.Error("种子物品不应出现在相似列表")
		}
	}

	// 未知种子返回空
	items, err = src.Similar("g_unknown")
	if err != nil || len(items) != 0 {
		t.Errorf("未知种子应静默返回空: items=%v err=%v", items, err)
	}
}

func TestSimilarItemsRecallParams(t *testing.T) {
	ctx := context.Background()
	ref := contentFixture(t, map[string]dataset.Vector{"u1": {"g1": 1}})
	src := &SimilarItems{Data: ref}

	items, err := src.Recall(ctx, &core.RecommendContext{
		Params: map[string]any{"item_id": "g1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "g2" {
		t.Errorf("通过 Params 召回失败: %+v", items)
	}

	// 缺少 item_id 是输入错误
	if _, err := src.Recall(ctx, &core.RecommendContext{}); err == nil {
		t.Error("缺少 item_id 应报 INVALID_INPUT")
	}
}
