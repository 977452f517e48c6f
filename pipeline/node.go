package pipeline

import (
	"context"

	"github.com/rushteam/playrec/core"
)

// Kind 用于标记 Node 所处的阶段，方便观测与编排（例如按阶段打点）。
type Kind string

const (
	KindRecall      Kind = "recall"      // 召回阶段：生成候选集
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不符合约束的候选
	KindRank        Kind = "rank"        // 排序阶段：对候选打分并排序
	KindReRank      Kind = "rerank"      // 重排阶段：情绪调节、规则调优、截断
	KindPostProcess Kind = "postprocess" // 后处理阶段：补充展示信息或最终修饰
)

// Node 是推荐链路的最小可组合单元。
// 统一采用“输入 items -> 输出 items”的形态：召回生成、过滤剔除、重排重组
// 都落在同一个接口上。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
