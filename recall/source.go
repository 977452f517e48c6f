package recall

import (
	"context"

	"github.com/rushteam/playrec/core"
)

// Source 表示一个可复用的召回源（协同过滤/内容/热门/...）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// PreferenceProvider 为冷用户补充偏好画像（标签 → 权重）。
// 典型实现从 Feature Store（如 Feast）拉取离线算好的用户标签偏好，
// 见 profile 包。找不到该用户时应返回 (nil, nil)。
type PreferenceProvider interface {
	Preferences(ctx context.Context, userID string) (map[string]float64, error)
}
