// Package dataset 构建推荐引擎的只读基础数据：物品目录、标签索引、用户-物品交互矩阵。
//
// 设计要点：
//   - 输入是已归一化的记录（列名映射等适配层关注点不在本包）
//   - 所有结构一次构建、进程级只读；重建 = 构建新快照后原子替换
//   - 数据缺失返回 DATA_UNAVAILABLE，由上层进入降级模式，而不是崩溃
package dataset

import "strings"

// ItemRecord 是一条归一化后的物品记录（游戏目录行）。
// Tags 是原始标签文本：可能是逗号分隔串，也可能是字符串化的列表。
type ItemRecord struct {
	ItemID string `json:"item_id"`
	Title  string `json:"title"`
	Tags   string `json:"tags"`
	Date   string `json:"date"`
}

// InteractionRecord 是一条归一化后的用户-物品交互记录。
// Signal 为二值（推荐=1/未推荐=0）或正的参与度权重。
type InteractionRecord struct {
	UserID string  `json:"user_id"`
	ItemID string  `json:"item_id"`
	Signal float64 `json:"signal"`
}

// Valid 校验一条交互记录是否完整可用。
// 空 ID、负信号均视为畸形记录，装载时跳过并计数。
func (r InteractionRecord) Valid() bool {
	if strings.TrimSpace(r.UserID) == "" || strings.TrimSpace(r.ItemID) == "" {
		return false
	}
	return r.Signal >= 0
}
