package builders

import (
	"fmt"

	"github.com/rushteam/playrec/config"
	"github.com/rushteam/playrec/emotion"
	"github.com/rushteam/playrec/pipeline"
	"github.com/rushteam/playrec/pkg/conv"
	"github.com/rushteam/playrec/recall"
	"github.com/rushteam/playrec/rerank"
)

func init() {
	config.Register("recall.popular", BuildPopularNode)
	config.Register("rerank.emotion", BuildEmotionNode)
	config.Register("rerank.topn", BuildTopNNode)
	config.Register("rerank.rule", BuildRuleNode)
}

// 注意：依赖快照引用（dataset.Ref）的 Node（recall.hybrid、filter.seen 等）
// 不从配置构建：快照是进程内状态，应由装配代码直接注入。
// 配置驱动只覆盖纯配置即可工作的 Node。

func BuildPopularNode(cfg map[string]interface{}) (pipeline.Node, error) {
	ids := conv.SliceAnyToString(cfg["ids"])
	if ids == nil {
		ids = []string{}
	}
	node := &recall.Popular{
		IDs: ids,
		Key: conv.ConfigGet(cfg, "key", ""),
	}
	if n := conv.ConfigGetInt64(cfg, "top_n", 0); n > 0 {
		node.TopN = n
	}
	return node, nil
}

func BuildEmotionNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &rerank.EmotionNode{}

	// 可选：覆盖默认情绪-标签映射
	if tagsCfg, ok := cfg["tag_map"].(map[string]interface{}); ok {
		tagMap := make(emotion.TagMap, len(tagsCfg))
		for label, v := range tagsCfg {
			tags := conv.SliceAnyToString(v)
			if len(tags) == 0 {
				return nil, fmt.Errorf("tag_map entry %q must be a string list", label)
			}
			tagMap[emotion.ParseLabel(label)] = tags
		}
		node.TagMap = tagMap
	}
	return node, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	return &rerank.TopNNode{N: int(n)}, nil
}

func BuildRuleNode(cfg map[string]interface{}) (pipeline.Node, error) {
	expr := conv.ConfigGet(cfg, "expr", "")
	if expr == "" {
		return nil, fmt.Errorf("expr not found")
	}
	return &rerank.RuleNode{Expr: expr}, nil
}
