package recall

import (
	"context"
	"sort"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/dataset"
	"github.com/rushteam/playrec/pkg/utils"
)

// Content 是基于内容的召回源（Content-Based Recommendation）。
//
// 核心思想："用户喜欢带某些标签的物品，就推荐标签相似的其他物品"
//
// 算法流程：
//  1. 用户标签画像 = Σ(交互信号 × 物品标签向量)，对正交互物品求和，
//     再除以正交互物品数做归一化
//  2. 画像与每个物品标签向量算余弦相似度
//  3. 剔除已交互物品，按相似度降序、同分按物品 ID 升序，截断 TopK
//
// 冷启动：用户没有正交互物品、或其物品与标签索引无交集时返回空
// （这是预期结果，不是错误）；配置了 Fallback 时会先尝试用外部
// 偏好画像（如 Feast 离线特征）补位。
type Content struct {
	// Data 是当前生效的快照引用。矩阵或标签索引缺失时本源降级，返回空。
	Data *dataset.Ref

	// TopK 最终返回的物品数；<=0 用默认 20。
	TopK int

	// Fallback 为矩阵外/零正交互用户补充偏好画像（可选）。
	Fallback PreferenceProvider
}

func (r *Content) Name() string {
	return "recall.content"
}

// Available 报告内容引擎是否具备工作所需的数据。
func (r *Content) Available() bool {
	if r == nil || r.Data == nil {
		return false
	}
	snap := r.Data.Load()
	return snap != nil && snap.Tags != nil
}

func (r *Content) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Data == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	snap := r.Data.Load()
	if snap == nil || snap.Tags == nil {
		return nil, nil
	}
	tags := snap.Tags

	// 1. 构建用户标签画像
	var (
		profile dataset.Vector
		seen    map[string]float64
	)
	if snap.Matrix != nil {
		if row, ok := snap.Matrix.Row(rctx.UserID); ok {
			seen = row
			profile = r.buildProfile(row, tags)
		}
	}
	if len(profile) == 0 && r.Fallback != nil {
		prefs, err := r.Fallback.Preferences(ctx, rctx.UserID)
		if err == nil && len(prefs) > 0 {
			profile = dataset.Vector(prefs)
			rctx.PutLabel("profile_source", utils.Label{Value: "fallback", Source: "recall"})
		}
	}
	if len(profile) == 0 {
		return nil, nil
	}

	// 2+3. 余弦打分、剔除已交互、排序截断
	type scored struct {
		itemID string
		score  float64
	}
	results := make([]scored, 0, 64)
	tags.Each(func(itemID string, vec dataset.Vector) bool {
		if _, interacted := seen[itemID]; interacted {
			return true
		}
		if score := cosineSimilarity(profile, vec); score > 0 {
			results = append(results, scored{itemID: itemID, score: score})
		}
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].itemID < results[j].itemID
	})

	topK := r.TopK
	if topK <= 0 {
		topK = 20
	}
	if len(results) > topK {
		results = results[:topK]
	}

	out := make([]*core.Item, 0, len(results))
	for _, s := range results {
		it := core.NewItem(s.itemID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "content", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// buildProfile 从用户交互行聚合标签画像。
// 只累加正信号物品；归一化因子是正交互物品数。
func (r *Content) buildProfile(row dataset.Vector, tags *dataset.TagIndex) dataset.Vector {
	profile := make(dataset.Vector)
	positives := 0
	for itemID, signal := range row {
		if signal <= 0 {
			continue
		}
		positives++
		vec, ok := tags.Vector(itemID)
		if !ok {
			continue
		}
		for tag, count := range vec {
			profile[tag] += signal * count
		}
	}
	if positives == 0 || len(profile) == 0 {
		return nil
	}
	for tag := range profile {
		profile[tag] /= float64(positives)
	}
	return profile
}
