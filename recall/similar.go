package recall

import (
	"context"
	"sort"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/dataset"
	"github.com/rushteam/playrec/pipeline"
	"github.com/rushteam/playrec/pkg/conv"
	"github.com/rushteam/playrec/pkg/utils"
)

// SimilarItems 是物品到物品的相似召回：给定一个种子物品，
// 按标签向量余弦相似度返回最接近的物品列表。
// 种子物品取自 rctx.Params["item_id"]，也可以直接调用 Similar。
//
// 典型场景是“玩过这个还会喜欢什么”的详情页推荐。
type SimilarItems struct {
	Data *dataset.Ref

	// TopK 返回数量，<=0 用 10。
	TopK int
}

func (r *SimilarItems) Name() string        { return "recall.similar" }
func (r *SimilarItems) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口。
func (r *SimilarItems) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口。
func (r *SimilarItems) Recall(
	_ context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	itemID := ""
	if rctx != nil && rctx.Params != nil {
		itemID, _ = conv.ToString(rctx.Params["item_id"])
	}
	if itemID == "" {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeInvalidInput, "similar: missing item_id")
	}
	return r.Similar(itemID)
}

// Similar 返回与 seed 最相似的 TopK 个物品（不含 seed 本身）。
// 种子物品不在标签索引中、或种子没有任何标签时返回空。
func (r *SimilarItems) Similar(seed string) ([]*core.Item, error) {
	snap := r.Data.Load()
	if snap == nil || snap.Tags == nil {
		return nil, dataset.ErrTagIndexUnavailable
	}

	seedVec, ok := snap.Tags.Vector(seed)
	if !ok || len(seedVec) == 0 {
		return nil, nil
	}

	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}

	out := make([]*core.Item, 0, topK)
	snap.Tags.Each(func(itemID string, vec dataset.Vector) bool {
		if itemID == seed {
			return true
		}
		score := cosineSimilarity(seedVec, vec)
		if score <= 0 {
			return true
		}
		item := core.NewItem(itemID)
		item.Score = score
		item.PutLabel("recall_source", utils.Label{Value: "similar", Source: "recall"})
		out = append(out, item)
		return true
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}
