package filter

import (
	"context"

	"github.com/rushteam/tunekit/core"
	"github.com/rushteam/tunekit/pkg/dsl"
)

// RuleFilter 按 CEL 表达式过滤：表达式对 item/label/rctx 求值，
// 结果为 true 时该曲目被过滤掉。
//
// 示例：
//   - `item.score < 0.05`                     → 过滤低分候选
//   - `label.recall_source == "collaborative"` → 过滤某个召回来源
//   - `item.id in rctx.params.blocked_ids`     → 请求级黑名单
//
// 表达式非法属于配置 bug：错误向上传播而不是吞掉。
type RuleFilter struct {
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	return dsl.NewEval(item, rctx).Evaluate(f.Expr)
}
