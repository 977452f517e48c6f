// Package playrec 是一个游戏推荐引擎（Play Recommender）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank）
// - 双引擎混合召回: 协同过滤（User-CF）+ 内容标签（Content-Based）加权合并
// - 情绪调节: 重排阶段按用户当前情绪标签裁剪候选
// - 快照驱动: 目录/标签索引/交互矩阵装进不可变快照，原子替换实现热重建
package playrec

import "github.com/rushteam/playrec/pipeline"

// 轻量 facade：便于用户直接 import "playrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
