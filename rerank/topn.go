package rerank

import (
	"context"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/pipeline"
)

// TopNNode 是 Top-N 截断节点，在链路末端限制返回数量。
//
// 使用场景：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        hybrid,                   // 混合召回
//	        &rerank.EmotionNode{...}, // 情绪调节
//	        &rerank.TopNNode{N: 8},   // 最终截断
//	    },
//	}
type TopNNode struct {
	// N 要保留的物品数量。N <= 0 时不截断。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}
	if len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
