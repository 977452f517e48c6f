package recall

import (
	"context"
	"encoding/json"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/pipeline"
	"github.com/rushteam/playrec/pkg/utils"
)

// Popular 是热门召回源：当两个主引擎都无法产出时的兜底候选。
//   - 如果 Store 实现了 KeyValueStore，优先使用 ZRange（按分数排好序的热门榜）
//   - 否则从普通 key 读取 JSON 数组
//   - Store 为空或读取失败时，回退到内存中的 IDs
//
// Popular 同时实现 Source 和 Node 接口，可以直接编排进 Pipeline。
type Popular struct {
	Store core.Store
	Key   string   // 存储 key，例如 "popular:items"
	IDs   []string // fallback 内存列表
	TopN  int64    // ZRange 截断数量，<=0 用 100
}

func (r *Popular) Name() string        { return "recall.popular" }
func (r *Popular) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall。
func (r *Popular) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *Popular) Recall(
	ctx context.Context,
	_ *core.RecommendContext,
) ([]*core.Item, error) {
	var ids []string

	if r.Store != nil && r.Key != "" {
		if kvStore, ok := r.Store.(core.KeyValueStore); ok {
			topN := r.TopN
			if topN <= 0 {
				topN = 100
			}
			members, err := kvStore.ZRange(ctx, r.Key, 0, topN-1)
			if err == nil && len(members) > 0 {
				ids = members
			}
		} else {
			data, err := r.Store.Get(ctx, r.Key)
			if err == nil {
				var parsed []string
				if json.Unmarshal(data, &parsed) == nil {
					ids = parsed
				}
			}
		}
	}

	// Fallback：使用内存列表
	if len(ids) == 0 {
		ids = r.IDs
	}

	out := make([]*core.Item, 0, len(ids))
	for rank, id := range ids {
		item := core.NewItem(id)
		// 榜单位置越靠前分数越高，保持输入顺序的确定性
		item.Score = 1.0 / float64(rank+1)
		item.PutLabel("recall_source", utils.Label{Value: "popular", Source: "recall"})
		out = append(out, item)
	}
	return out, nil
}
