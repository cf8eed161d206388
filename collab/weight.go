// Package collab 实现基于用户的协同过滤引擎（User-CF）。
//
// 核心思想："兴趣相似的用户，喜欢相似的曲目"
//
// 算法流程：
//  1. 行为记录 → 用户-曲目交互权重矩阵（稀疏）
//  2. 计算用户相似度（Pearson，带冷启动/退化分母处理）
//  3. 按相似邻居的正向评分加权累积候选曲目
//  4. 归一化、稳定排序、截断 TopN
//
// 矩阵与推荐结果都走 cache 包（整体重建、TTL 过期、显式失效）。
package collab

import "github.com/rushteam/tunekit/core"

// Weight 把行为类型映射为交互权重。
// 未知类型返回 ok=false，调用方应跳过该条记录而不是累积 0。
func Weight(t core.InteractionType) (float64, bool) {
	switch t {
	case core.InteractionLike:
		return 2.0, true
	case core.InteractionPlay, core.InteractionListen:
		return 1.0, true
	case core.InteractionAddToPlaylist:
		return 1.5, true
	case core.InteractionSkip:
		return -0.5, true
	case core.InteractionDislike:
		return -1.0, true
	default:
		return 0, false
	}
}
