package recommend

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tunekit/core"
	"github.com/rushteam/tunekit/pipeline"
	"github.com/rushteam/tunekit/pkg/utils"
)

// Fanout 是一个召回 Node：并发执行多个召回源，按来源权重加权合并。
// 某个来源超时或出错时返回空结果，不中断其他来源——推荐宁缺毋断。
type Fanout struct {
	Sources []Source

	// Weights 按来源名称配置混排权重；缺省 1.0
	Weights map[string]float64

	// Timeout 每个召回源的超时时间；0 表示不限制
	Timeout time.Duration
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	// 结果按来源序号落槽，合并顺序与 Sources 顺序一致（确定性）
	results := make([][]*core.Item, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)

	for i, src := range n.Sources {
		i, src := i, src
		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				// 出错的来源按空结果处理
				return nil
			}
			results[i] = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return n.merge(results), nil
}

// merge 按来源权重加权合并：同一曲目来自多个来源时分数累加、标签合并，
// 位置保留首次出现的位置。
func (n *Fanout) merge(results [][]*core.Item) []*core.Item {
	seen := make(map[string]*core.Item)
	out := make([]*core.Item, 0)

	for i, items := range results {
		weight := 1.0
		if w, ok := n.Weights[n.Sources[i].Name()]; ok {
			weight = w
		}
		for _, it := range items {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				old.Score += it.Score * weight
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				for k, v := range it.Meta {
					if _, exists := old.Meta[k]; !exists {
						old.Meta[k] = v
					}
				}
				old.PutLabel("blended", utils.Label{Value: "true", Source: "recall"})
				continue
			}
			it.Score *= weight
			seen[it.ID] = it
			out = append(out, it)
		}
	}

	// 稳定降序：并列时保留首次出现顺序（协同来源排在前面时优先）
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
