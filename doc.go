// Package tunekit 是一个音乐推荐工具包（Tune Kit）。
//
// 设计要点：
// - 双引擎: 协同过滤（collab）与内容推荐（content）各自独立可用
// - Cache-first: 引擎的重计算（矩阵、语料、画像）都经由 cache 包的双后端缓存
// - Pipeline 编排: recommend 门面把召回 → 过滤 → 截断串成 Node 链，可插拔扩展
package tunekit

import "github.com/rushteam/tunekit/pipeline"

// 轻量 facade：便于用户直接 import "tunekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
