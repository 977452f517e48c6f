package recall

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/pipeline"
	"github.com/rushteam/playrec/pkg/utils"
)

// JoinMode 是混合合并的连接语义。
type JoinMode string

const (
	// JoinUnionZeroFill 并集合并：某一侧没有分数的物品按 0 补齐。
	// 这是默认模式：协同侧强但没有标签画像的物品仍应浮出，召回率优先。
	JoinUnionZeroFill JoinMode = "union"

	// JoinIntersection 交集合并：只保留两个引擎都给出分数的物品（保守模式）。
	JoinIntersection JoinMode = "intersection"
)

// Weights 是线性加权系数。两个权重之和应为 1；
// Merge 会对非法权重做归一化，零值回退到默认的 0.8/0.2。
type Weights struct {
	Collaborative float64
	Content       float64
}

// DefaultWeights 是默认的协同优先权重。
var DefaultWeights = Weights{Collaborative: 0.8, Content: 0.2}

func (w Weights) normalized() Weights {
	sum := w.Collaborative + w.Content
	if sum <= 0 {
		return DefaultWeights
	}
	return Weights{Collaborative: w.Collaborative / sum, Content: w.Content / sum}
}

// Hybrid 是混合召回 Node：并发执行协同与内容两个引擎，
// 然后按加权策略合并为一个有序候选列表。
//
// 错误边界（与引擎降级语义一致）：
//   - 单个引擎超时或报错时，视同该引擎返回空，不中断另一侧
//   - 两个引擎都为空时返回空，兜底策略由调用方决定
type Hybrid struct {
	Collaborative Source
	Content       Source

	// Weights 线性加权系数，默认 0.8 协同 / 0.2 内容。
	Weights Weights

	// Mode 连接语义，默认并集补零。
	Mode JoinMode

	// Timeout 是单个引擎的超时时间；<=0 用默认 2s。
	Timeout time.Duration
}

func (n *Hybrid) Name() string        { return "recall.hybrid" }
func (n *Hybrid) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Hybrid) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	timeout := n.Timeout
	if timeout <= 0 {
		timeout = (&core.DefaultRecallConfig{}).DefaultTimeout()
	}

	run := func(src Source, out *[]*core.Item) func() error {
		return func() error {
			if src == nil {
				return nil
			}
			recallCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				// 引擎内部失败不越过引擎边界：当作空结果处理
				return nil
			}
			*out = items
			return nil
		}
	}

	var collab, content []*core.Item
	eg, _ := errgroup.WithContext(ctx)
	eg.Go(run(n.Collaborative, &collab))
	eg.Go(run(n.Content, &content))
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return Merge(collab, content, n.Weights, n.Mode), nil
}

// Merge 合并两个有序候选列表。
//
// 策略：
//   - 两侧都非空：按物品 ID 连接。并集模式缺失侧按 0 补齐；
//     交集模式只保留两侧都有的物品。合并分 = w_collab*collab + w_content*content。
//   - 只有一侧非空：直接返回该侧（分数与标签原样保留）。
//   - 两侧都空：返回空。
//
// 输出按合并分降序，同分按物品 ID 升序（确定性）。
func Merge(collab, content []*core.Item, weights Weights, mode JoinMode) []*core.Item {
	if len(collab) == 0 && len(content) == 0 {
		return nil
	}
	if len(content) == 0 {
		return collab
	}
	if len(collab) == 0 {
		return content
	}

	w := weights.normalized()
	if mode == "" {
		mode = JoinUnionZeroFill
	}

	collabByID := make(map[string]*core.Item, len(collab))
	for _, it := range collab {
		if it != nil {
			collabByID[it.ID] = it
		}
	}
	contentByID := make(map[string]*core.Item, len(content))
	for _, it := range content {
		if it != nil {
			contentByID[it.ID] = it
		}
	}

	merged := make([]*core.Item, 0, len(collabByID)+len(contentByID))
	emit := func(id string, a, b *core.Item) {
		var collabScore, contentScore float64
		base := a
		if a != nil {
			collabScore = a.Score
		}
		if b != nil {
			contentScore = b.Score
			if base == nil {
				base = b
			} else {
				for k, v := range b.Labels {
					base.PutLabel(k, v)
				}
			}
		}
		base.Score = w.Collaborative*collabScore + w.Content*contentScore
		merged = append(merged, base)
	}

	switch mode {
	case JoinIntersection:
		for id, a := range collabByID {
			if b, ok := contentByID[id]; ok {
				emit(id, a, b)
			}
		}
	default: // 并集补零
		for id, a := range collabByID {
			emit(id, a, contentByID[id])
		}
		for id, b := range contentByID {
			if _, ok := collabByID[id]; !ok {
				emit(id, nil, b)
			}
		}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return merged[i].ID < merged[j].ID
	})

	for _, it := range merged {
		it.PutLabel("merge_mode", utils.Label{Value: string(mode), Source: "recall"})
	}
	return merged
}
