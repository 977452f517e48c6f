package recall

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rushteam/playrec/core"
)

func mkItem(id string, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func TestMergeUnionZeroFill(t *testing.T) {
	collab := []*core.Item{mkItem("A", 1.0)}
	content := []*core.Item{mkItem("A", 0.5), mkItem("B", 0.9)}

	merged := Merge(collab, content, DefaultWeights, JoinUnionZeroFill)
	if len(merged) != 2 {
		t.Fatalf("并集合并应有 2 个物品，实际 %d", len(merged))
	}

	// A = 0.8*1.0 + 0.2*0.5 = 0.9；B = 0.8*0 + 0.2*0.9 = 0.18
	if merged[0].ID != "A" || math.Abs(merged[0].Score-0.9) > 1e-12 {
		t.Errorf("首位 = %s/%v, 期望 A/0.9", merged[0].ID, merged[0].Score)
	}
	if merged[1].ID != "B" || math.Abs(merged[1].Score-0.18) > 1e-12 {
		t.Errorf("次位 = %s/%v, 期望 B/0.18", merged[1].ID, merged[1].Score)
	}
}

func TestMergeIntersection(t *testing.T) {
	collab := []*core.Item{mkItem("A", 1.0), mkItem("C", 0.7)}
	content := []*core.Item{mkItem("A", 0.5), mkItem("B", 0.9)}

	merged := Merge(collab, content, DefaultWeights, JoinIntersection)
	if len(merged) != 1 || merged[0].ID != "A" {
		t.Fatalf("交集合并应只剩 A，实际 %+v", merged)
	}
	if math.Abs(merged[0].Score-0.9) > 1e-12 {
		t.Errorf("A 分数 = %v, 期望 0.9", merged[0].Score)
	}
}

func TestMergeSingleSidePassthrough(t *testing.T) {
	collab := []*core.Item{mkItem("A", 1.0), mkItem("B", 0.4)}

	merged := Merge(collab, nil, DefaultWeights, JoinUnionZeroFill)
	if len(merged) != 2 || merged[0].Score != 1.0 {
		t.Errorf("单侧非空应原样透传（不加权），实际 %+v", merged)
	}

	content := []*core.Item{mkItem("C", 0.3)}
	merged = Merge(nil, content, DefaultWeights, JoinUnionZeroFill)
	if len(merged) != 1 || merged[0].Score != 0.3 {
		t.Errorf("内容侧透传失败: %+v", merged)
	}

	if Merge(nil, nil, DefaultWeights, JoinUnionZeroFill) != nil {
		t.Error("两侧都空应返回空")
	}
}

func TestMergeWeightNormalization(t *testing.T) {
	collab := []*core.Item{mkItem("A", 1.0)}
	content := []*core.Item{mkItem("A", 1.0)}

	// 权重 4/1 归一化为 0.8/0.2；零值回退默认
	merged := Merge(collab, content, Weights{Collaborative: 4, Content: 1}, "")
	if math.Abs(merged[0].Score-1.0) > 1e-12 {
		t.Errorf("归一化权重合并分 = %v, 期望 1.0", merged[0].Score)
	}

	merged = Merge([]*core.Item{mkItem("A", 1.0)}, []*core.Item{mkItem("B", 1.0)}, Weights{}, "")
	for _, it := range merged {
		if it.ID == "A" && math.Abs(it.Score-0.8) > 1e-12 {
			t.Errorf("零值权重应回退 0.8/0.2，A = %v", it.Score)
		}
		if it.ID == "B" && math.Abs(it.Score-0.2) > 1e-12 {
			t.Errorf("零值权重应回退 0.8/0.2，B = %v", it.Score)
		}
	}
}

func TestMergeTieBreak(t *testing.T) {
	collab := []*core.Item{mkItem("B", 0.5), mkItem("A", 0.5)}
	merged := Merge(collab, []*core.Item{mkItem("C", 0)}, DefaultWeights, JoinUnionZeroFill)

	// B 与 A 同分，按 ID 升序
	if merged[0].ID != "A" || merged[1].ID != "B" {
		t.Errorf("同分应按 ID 升序: %s, %s", merged[0].ID, merged[1].ID)
	}
}

type stubSource struct {
	items []*core.Item
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return "recall.stub" }

func (s *stubSource) Recall(ctx context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.items, s.err
}

func TestHybridProcess(t *testing.T) {
	ctx := context.Background()
	node := &Hybrid{
		Collaborative: &stubSource{items: []*core.Item{mkItem("A", 1.0)}},
		Content:       &stubSource{items: []*core.Item{mkItem("A", 0.5), mkItem("B", 0.9)}},
	}

	items, err := node.Process(ctx, &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != "A" {
		t.Fatalf("混合结果 = %+v", items)
	}
}

func TestHybridEngineFailureIsolated(t *testing.T) {
	ctx := context.Background()

	// 协同侧报错：按空处理，内容侧照常透传
	node := &Hybrid{
		Collaborative: &stubSource{err: errors.New("boom")},
		Content:       &stubSource{items: []*core.Item{mkItem("B", 0.9)}},
	}
	items, err := node.Process(ctx, &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatalf("引擎失败不应越过混合边界: %v", err)
	}
	if len(items) != 1 || items[0].ID != "B" || items[0].Score != 0.9 {
		t.Errorf("失败侧应按空处理: %+v", items)
	}

	// 超时侧同样按空处理
	node = &Hybrid{
		Collaborative: &stubSource{items: []*core.Item{mkItem("A", 1.0)}, delay: time.Second},
		Content:       &stubSource{items: []*core.Item{mkItem("B", 0.9)}},
		Timeout:       10 * time.Millisecond,
	}
	items, err = node.Process(ctx, &core.RecommendContext{UserID: "u1"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != "B" {
		t.Errorf("超时侧应按空处理: %+v", items)
	}
}
