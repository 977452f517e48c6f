package core

import "github.com/rushteam/playrec/pkg/utils"

// Item 是推荐链路中的统一候选结构：打分、元信息、标签。
// ID 是物品目录中的稳定字符串键（如 Steam AppID）；Score 用于排序决策；
// Labels 用于解释与策略驱动（recall_source、emotion 等）。
// Item 仅在单次请求内存活，不会被持久化。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Label 读取指定 key 的 Label 值，不存在时返回空串。
func (it *Item) Label(key string) string {
	if it.Labels == nil {
		return ""
	}
	return it.Labels[key].Value
}
