package core

import "time"

// RecallConfig 是召回相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultPeerOverlapLimit 返回重叠度预筛阶段保留的候选邻居数
	DefaultPeerOverlapLimit() int

	// DefaultTopPeers 返回相关性筛选后保留的 TopM 邻居数
	DefaultTopPeers() int

	// DefaultCorrelationThreshold 返回邻居入选的最小皮尔逊相关系数（只保留正相关）
	DefaultCorrelationThreshold() float64

	// DefaultTopKItems 返回召回阶段默认的 TopK 物品数
	DefaultTopKItems() int

	// DefaultTimeout 返回单个召回源的默认超时时间
	DefaultTimeout() time.Duration
}

// DefaultRecallConfig 是默认的召回配置实现。
// 数值沿用线上验证过的参数：先按重叠度取 200 个候选邻居，
// 再按相关性取 50 个有效邻居。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultPeerOverlapLimit() int {
	return 200
}

func (c *DefaultRecallConfig) DefaultTopPeers() int {
	return 50
}

func (c *DefaultRecallConfig) DefaultCorrelationThreshold() float64 {
	return 0.01
}

func (c *DefaultRecallConfig) DefaultTopKItems() int {
	return 20
}

func (c *DefaultRecallConfig) DefaultTimeout() time.Duration {
	return 2 * time.Second
}
