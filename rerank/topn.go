package rerank

import (
	"context"

	"github.com/rushteam/tunekit/core"
	"github.com/rushteam/tunekit/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在混排之后截取前 N 个曲目。
//
// 使用场景：
//   - 混排/过滤后只返回 Top 10/20/50 个结果
//   - 控制推荐结果数量
type TopNNode struct {
	// N 要保留的曲目数量（Top N）
	// 如果 N <= 0，则返回所有曲目（不截断）
	// 如果 N > len(items)，则返回所有曲目
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}
	if len(items) <= n.N {
		return items, nil
	}
	return items[:n.N], nil
}
