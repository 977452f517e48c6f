// Package profile 提供用户兴趣画像的外部数据源。
// 冷用户（交互矩阵中没有行）可以从特征平台读取预计算的标签偏好，
// 让内容引擎在没有行为数据时仍能产出个性化候选。
package profile

import (
	"context"
	"fmt"

	feastsdk "github.com/feast-dev/feast/sdk/go"

	"github.com/rushteam/playrec/core"
)

// FeastProvider 从 Feast Feature Server 读取用户的标签偏好向量。
// 实现 recall.PreferenceProvider 接口，供内容引擎做冷启动兜底。
//
// 特征组织方式：每个标签一个 double 特征，特征名即标签名，
// 例如 user_tag_prefs:Action、user_tag_prefs:RPG。
type FeastProvider struct {
	client *feastsdk.GrpcClient

	// Project 项目名称
	Project string

	// EntityKey 实体键名，默认 "user_id"
	EntityKey string

	// Features 要读取的特征引用列表，例如 []string{"user_tag_prefs:Action"}
	Features []string
}

// NewFeastProvider 连接 Feast Feature Server。
func NewFeastProvider(host string, port int, project string, features []string) (*FeastProvider, error) {
	if port == 0 {
		port = 6565
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			fmt.Sprintf("profile: connect feast: %v", err))
	}
	return &FeastProvider{
		client:    client,
		Project:   project,
		EntityKey: "user_id",
		Features:  features,
	}, nil
}

// Preferences 返回用户的标签偏好权重。
// 特征缺失或值非正的标签不进入结果；用户完全没有画像时返回空 map。
func (p *FeastProvider) Preferences(ctx context.Context, userID string) (map[string]float64, error) {
	if p == nil || p.client == nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable, "profile: feast client not configured")
	}
	if userID == "" || len(p.Features) == 0 {
		return nil, nil
	}

	entityKey := p.EntityKey
	if entityKey == "" {
		entityKey = "user_id"
	}

	req := &feastsdk.OnlineFeaturesRequest{
		Features: p.Features,
		Entities: []feastsdk.Row{
			{entityKey: feastsdk.StrVal(userID)},
		},
		Project: p.Project,
	}

	resp, err := p.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleRecall, core.ErrorCodeUnavailable,
			fmt.Sprintf("profile: get online features: %v", err))
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return nil, nil
	}

	prefs := make(map[string]float64)
	row := rows[0]
	for name, val := range row {
		if val == nil || name == entityKey {
			continue
		}
		weight := val.GetDoubleVal()
		if weight == 0 {
			weight = float64(val.GetFloatVal())
		}
		if weight == 0 {
			weight = float64(val.GetInt64Val())
		}
		if weight <= 0 {
			continue
		}
		prefs[tagName(name)] = weight
	}
	return prefs, nil
}

// Close 释放 gRPC 连接。
func (p *FeastProvider) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}

// tagName 从特征引用里取标签名：user_tag_prefs:Action -> Action。
func tagName(feature string) string {
	for i := len(feature) - 1; i >= 0; i-- {
		if feature[i] == ':' {
			return feature[i+1:]
		}
	}
	return feature
}
