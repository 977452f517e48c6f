package rerank

import (
	"context"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/pipeline"
	"github.com/rushteam/playrec/pkg/dsl"
)

// RuleNode 按 DSL 规则表达式保留候选：表达式为 true 的物品保留。
// 用于在情绪调节之外再叠加业务规则（例如按召回来源或分数阈值裁剪）。
//
// 示例表达式：
//   - item.score > 0.5
//   - label.recall_source == "collaborative"
//   - rctx.emotion == "fear" && item.score > 0.3
type RuleNode struct {
	// Expr 是 CEL 表达式，为空时不做任何过滤。
	Expr string
}

func (n *RuleNode) Name() string {
	return "rerank.rule"
}

func (n *RuleNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *RuleNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Expr == "" || len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		keep, err := dsl.NewEval(item, rctx).Evaluate(n.Expr)
		if err != nil {
			// 表达式错误时放行该物品：规则失效不应清空推荐结果
			out = append(out, item)
			continue
		}
		if keep {
			out = append(out, item)
		}
	}
	return out, nil
}
