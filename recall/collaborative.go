package recall

import (
	"context"
	"sort"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/dataset"
	"github.com/rushteam/playrec/pkg/utils"
)

// Collaborative 是基于用户的协同过滤召回源（User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 算法流程：
//  1. 取目标用户的交互行；不在矩阵中 → 返回空（冷用户，不是错误）
//  2. 重叠度预筛：与每个其他用户算共同非零物品上的点积，
//     只保留正重叠，按重叠度取 TopN 候选邻居（性能上限）
//  3. 对候选邻居算皮尔逊相关（整行语义），只保留相关系数高于
//     正阈值的邻居，按相关性取 TopM（只用正相关邻居）
//  4. 预测分 = Σ(邻居物品值 × 邻居相关性) / (Σ相关性 + ε)
//  5. 剔除已交互物品（signal > 0），按分数降序、同分按物品 ID 升序，
//     截断 TopK
//
// 边界：
//   - 没有合格邻居 → 返回空而不是报错
//   - 与目标共同物品少于 2 个的邻居相关性无定义 → 直接排除
//   - Σ相关性为 0 时所有预测分为 0（ε 兜底），不会出现 NaN
type Collaborative struct {
	// Data 是当前生效的快照引用。矩阵缺失时本源处于降级状态，返回空。
	Data *dataset.Ref

	// PeerOverlapLimit 重叠度预筛保留的候选邻居数；<=0 用默认 200。
	PeerOverlapLimit int

	// TopPeers 相关性筛选后保留的邻居数；<=0 用默认 50。
	TopPeers int

	// CorrelationThreshold 邻居入选的最小相关系数；<=0 用默认 0.01。
	CorrelationThreshold float64

	// MinSharedItems 邻居与目标至少共同交互的物品数；<=0 用默认 2。
	MinSharedItems int

	// TopK 最终返回的物品数；<=0 用默认 20。
	TopK int

	// Config 提供未显式设置参数的默认值；nil 用 DefaultRecallConfig。
	Config core.RecallConfig
}

// 预测分母的 ε 兜底，防止除零。
const predictEpsilon = 1e-9

func (r *Collaborative) Name() string {
	return "recall.collaborative"
}

// Available 报告协同引擎是否具备工作所需的数据。
func (r *Collaborative) Available() bool {
	if r == nil || r.Data == nil {
		return false
	}
	snap := r.Data.Load()
	return snap != nil && snap.Matrix != nil
}

func (r *Collaborative) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Data == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	snap := r.Data.Load()
	if snap == nil || snap.Matrix == nil {
		return nil, nil
	}
	matrix := snap.Matrix

	target, ok := matrix.Row(rctx.UserID)
	if !ok || len(target) == 0 {
		return nil, nil
	}

	cfg := r.Config
	if cfg == nil {
		cfg = &core.DefaultRecallConfig{}
	}
	overlapLimit := r.PeerOverlapLimit
	if overlapLimit <= 0 {
		overlapLimit = cfg.DefaultPeerOverlapLimit()
	}
	topPeers := r.TopPeers
	if topPeers <= 0 {
		topPeers = cfg.DefaultTopPeers()
	}
	threshold := r.CorrelationThreshold
	if threshold <= 0 {
		threshold = cfg.DefaultCorrelationThreshold()
	}
	minShared := r.MinSharedItems
	if minShared <= 0 {
		minShared = 2
	}

	// 2. 重叠度预筛
	type peer struct {
		userID string
		score  float64
	}
	candidates := make([]peer, 0, 64)
	for _, userID := range matrix.Users() {
		if userID == rctx.UserID {
			continue
		}
		row, _ := matrix.Row(userID)
		if overlap := target.Dot(row); overlap > 0 {
			candidates = append(candidates, peer{userID: userID, score: overlap})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].userID < candidates[j].userID
	})
	if len(candidates) > overlapLimit {
		candidates = candidates[:overlapLimit]
	}

	// 3. 皮尔逊相关筛选
	numItems := matrix.NumItems()
	peers := make([]peer, 0, len(candidates))
	for _, c := range candidates {
		row, _ := matrix.Row(c.userID)
		if sharedItems(target, row) < minShared {
			continue // 相关性无定义，排除
		}
		corr, ok := pearsonFull(target, row, numItems)
		if !ok || corr <= threshold {
			continue
		}
		peers = append(peers, peer{userID: c.userID, score: corr})
	}
	if len(peers) == 0 {
		return nil, nil
	}
	sort.Slice(peers, func(i, j int) bool {
		if peers[i].score != peers[j].score {
			return peers[i].score > peers[j].score
		}
		return peers[i].userID < peers[j].userID
	})
	if len(peers) > topPeers {
		peers = peers[:topPeers]
	}

	// 4. 相关性加权平均
	weighted := make(map[string]float64)
	var totalCorr float64
	for _, p := range peers {
		row, _ := matrix.Row(p.userID)
		for itemID, v := range row {
			weighted[itemID] += v * p.score
		}
		totalCorr += p.score
	}
	denom := totalCorr + predictEpsilon

	// 5. 剔除已交互 + 排序截断
	type scored struct {
		itemID string
		score  float64
	}
	results := make([]scored, 0, len(weighted))
	for itemID, w := range weighted {
		if target[itemID] > 0 {
			continue
		}
		score := w / denom
		if score > 0 {
			results = append(results, scored{itemID: itemID, score: score})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].itemID < results[j].itemID
	})

	topK := r.TopK
	if topK <= 0 {
		topK = cfg.DefaultTopKItems()
	}
	if len(results) > topK {
		results = results[:topK]
	}

	out := make([]*core.Item, 0, len(results))
	for _, s := range results {
		it := core.NewItem(s.itemID)
		it.Score = s.score
		it.PutLabel("recall_source", utils.Label{Value: "collaborative", Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}
