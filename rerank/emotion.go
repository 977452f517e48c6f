package rerank

import (
	"context"
	"strings"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/dataset"
	"github.com/rushteam/playrec/emotion"
	"github.com/rushteam/playrec/pipeline"
	"github.com/rushteam/playrec/pkg/utils"
)

// EmotionNode 按用户当前情绪对候选做调节：
// 只保留标签与情绪偏好标签匹配的物品，其余剔除。
//
// 匹配规则：
//   - 情绪来自 rctx.Emotion；为空或 neutral 时整表透传，不做任何调节
//   - 物品标签文本与偏好标签做大小写不敏感的子串匹配
//   - 物品没有标签文本时保留（宽松策略：信息不足不惩罚）
//   - 输出保持输入顺序不变，调节只删不排
type EmotionNode struct {
	Data *dataset.Ref

	// TagMap 情绪-标签映射，为空时用 DefaultTagMap。
	TagMap emotion.TagMap
}

func (n *EmotionNode) Name() string {
	return "rerank.emotion"
}

func (n *EmotionNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *EmotionNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	label := emotion.Neutral
	if rctx != nil {
		label = emotion.ParseLabel(rctx.Emotion)
	}
	if label == emotion.Neutral {
		return items, nil
	}

	tagMap := n.TagMap
	if tagMap == nil {
		tagMap = emotion.DefaultTagMap()
	}
	preferred, ok := tagMap[label]
	if !ok || len(preferred) == 0 {
		return items, nil
	}

	var catalog *dataset.Catalog
	if n.Data != nil {
		if snap := n.Data.Load(); snap != nil {
			catalog = snap.Catalog
		}
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		tags := ""
		if catalog != nil {
			tags = catalog.Tags(item.ID)
		}
		if !matchEmotion(tags, preferred) {
			continue
		}
		item.PutLabel("emotion", utils.Label{Value: string(label), Source: "rerank"})
		out = append(out, item)
	}
	return out, nil
}

// matchEmotion 判断物品标签文本是否命中任一偏好标签。
// 标签文本为空时视为命中。
func matchEmotion(tags string, preferred []string) bool {
	if strings.TrimSpace(tags) == "" {
		return true
	}
	lower := strings.ToLower(tags)
	for _, tag := range preferred {
		if strings.Contains(lower, strings.ToLower(tag)) {
			return true
		}
	}
	return false
}
