package filter

import (
	"context"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/dataset"
)

// SeenFilter 过滤掉用户已经产生过正向交互的物品：
// 推荐列表里不应出现用户已经玩过的游戏。
// 数据来自当前快照的交互矩阵行；冷用户（矩阵中无行）时不过滤任何物品。
type SeenFilter struct {
	Data *dataset.Ref
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.UserID == "" || f.Data == nil {
		return false, nil
	}

	seen := f.Data.Load().Seen(rctx.UserID)
	if seen == nil {
		return false, nil
	}
	_, ok := seen[item.ID]
	return ok, nil
}
