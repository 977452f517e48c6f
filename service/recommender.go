package service

import (
	"context"

	"github.com/rushteam/playrec/core"
	"github.com/rushteam/playrec/dataset"
	"github.com/rushteam/playrec/emotion"
	"github.com/rushteam/playrec/filter"
	"github.com/rushteam/playrec/pipeline"
	"github.com/rushteam/playrec/recall"
	"github.com/rushteam/playrec/rerank"
)

// DefaultFinalN 是最终返回的推荐条数。
const DefaultFinalN = 8

// Recommender 是推荐服务门面：把快照、双引擎、情绪识别和重排
// 组装成一条完整链路，对外只暴露 Recommend 一个入口。
//
// 错误边界：
//   - 引擎内部失败不越过服务边界，降级为对应引擎返回空
//   - 情绪识别失败回退 neutral，不影响主链路
//   - 完全没有可用数据时返回 StatusUnavailable，而不是 error
type Recommender struct {
	// Data 当前生效的快照引用，重建时由外部 Swap。
	Data *dataset.Ref

	// Collaborative / Content 两个召回引擎。
	Collaborative *recall.Collaborative
	Content       *recall.Content

	// Popular 兜底召回（可选）：两个主引擎都空时使用。
	Popular *recall.Popular

	// Weights 混合权重，零值用默认 0.8 协同 / 0.2 内容。
	Weights recall.Weights

	// Mode 混合连接语义，默认并集补零。
	Mode recall.JoinMode

	// Classifier 情绪识别客户端（可选）；为 nil 时不做情绪调节。
	Classifier emotion.Classifier

	// TagMap 情绪-标签映射，为空用默认表。
	TagMap emotion.TagMap

	// UserIDs 外部标识到矩阵用户键的映射（可选）。
	// 外部标识不在表里时原样透传，外部键与内部键一致的部署不需要配置。
	UserIDs map[string]string

	// FinalN 最终返回条数；<=0 用 DefaultFinalN。
	FinalN int
}

// NewRecommender 用快照引用组装一个默认配置的推荐服务。
func NewRecommender(data *dataset.Ref) *Recommender {
	return &Recommender{
		Data:          data,
		Collaborative: &recall.Collaborative{Data: data},
		Content:       &recall.Content{Data: data},
	}
}

// resolveUserID 把外部标识解析为矩阵用户键。
func (s *Recommender) resolveUserID(identifier string) string {
	if s.UserIDs != nil {
		if mapped, ok := s.UserIDs[identifier]; ok {
			return mapped
		}
	}
	return identifier
}

// buildPipeline 组装单次请求的处理链。
func (s *Recommender) buildPipeline() *pipeline.Pipeline {
	finalN := s.FinalN
	if finalN <= 0 {
		finalN = DefaultFinalN
	}
	return &pipeline.Pipeline{
		Name: "recommend",
		Nodes: []pipeline.Node{
			&recall.Hybrid{
				Collaborative: s.Collaborative,
				Content:       s.Content,
				Weights:       s.Weights,
				Mode:          s.Mode,
			},
			&filter.FilterNode{
				Filters: []filter.Filter{
					&filter.SeenFilter{Data: s.Data},
				},
			},
			&rerank.EmotionNode{Data: s.Data, TagMap: s.TagMap},
			&rerank.TopNNode{N: finalN},
		},
	}
}

// Recommend 为一个用户产出推荐列表。
//
// identifier 是外部用户标识（经 UserIDs 映射为矩阵键）；
// payload 是情绪识别的输入（例如 base64 人脸图像），为空时跳过识别。
func (s *Recommender) Recommend(ctx context.Context, identifier, payload string) (*Response, error) {
	snap := s.Data.Load()
	if snap == nil {
		return &Response{Status: StatusUnavailable, Emotion: string(emotion.Neutral)}, nil
	}

	label := emotion.Detect(ctx, s.Classifier, payload)

	userID := s.resolveUserID(identifier)

	// 矩阵存在但没有该用户的行：冷用户，对外用独立状态标识
	coldUser := false
	if snap.Matrix != nil {
		if row, ok := snap.Matrix.Row(userID); !ok || len(row) == 0 {
			coldUser = true
		}
	}

	rctx := &core.RecommendContext{
		UserID:  userID,
		Scene:   "recommend",
		Emotion: string(label),
	}

	items, err := s.buildPipeline().Run(ctx, rctx, nil)
	if err != nil {
		// Pipeline 节点都自带降级，到这里的错误视为内部异常
		return nil, core.NewDomainError(core.ModuleService, core.ErrorCodeInternalError, err.Error())
	}

	status := StatusOK
	if !s.Collaborative.Available() || !s.Content.Available() {
		status = StatusDegraded
	}
	if coldUser {
		status = StatusColdUser
	}

	// 两个主引擎都没有产出时走热门兜底
	if len(items) == 0 && s.Popular != nil {
		items, _ = s.Popular.Recall(ctx, rctx)
		if len(items) > 0 {
			if status != StatusColdUser {
				status = StatusDegraded
			}
			finalN := s.FinalN
			if finalN <= 0 {
				finalN = DefaultFinalN
			}
			if len(items) > finalN {
				items = items[:finalN]
			}
		}
	}

	return s.render(snap, items, label, status), nil
}

// render 把内部 Item 列表补齐展示信息后转为对外响应。
func (s *Recommender) render(snap *dataset.Snapshot, items []*core.Item, label emotion.Label, status Status) *Response {
	out := make([]ResponseItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		ri := ResponseItem{ItemID: item.ID, Score: item.Score}
		if snap.Catalog != nil {
			ri.Title = snap.Catalog.Title(item.ID)
			ri.Tags = snap.Catalog.Tags(item.ID)
		}
		out = append(out, ri)
	}
	return &Response{
		Items:   out,
		Emotion: string(label),
		Status:  status,
	}
}
