package core

import "github.com/rushteam/playrec/pkg/utils"

// RecommendContext 承载用户/场景/情绪信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID   string // 矩阵内部键（已经过 ID 映射解析）
	DeviceID string
	Scene    string

	// Emotion 是本次请求识别出的情绪标签（happy/sad/.../neutral）。
	// 由 service 层在进入 Pipeline 前填充；识别失败时为 neutral。
	Emotion string

	// Labels 是用户级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（query、device_type、实时特征等）。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
