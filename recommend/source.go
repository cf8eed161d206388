// Package recommend 是薄编排门面：把协同过滤与内容两个引擎的输出
// 并发取回、加权混排，套上业务过滤（如"不推荐已在播放列表里的曲目"）
// 后截断返回。只读消费引擎，相同查询永远走 cache 包，不绕过缓存。
package recommend

import (
	"context"

	"github.com/rushteam/tunekit/collab"
	"github.com/rushteam/tunekit/content"
	"github.com/rushteam/tunekit/core"
	"github.com/rushteam/tunekit/pkg/utils"
)

// Source 表示一个可并发 fan-out 的召回源。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// CollaborativeSource 把协同过滤引擎包装成召回源。
// 引擎只产出有序曲目 ID，这里按排名折算分数（第 1 名 1.0，线性递减）
// 以便与其他来源混排。
type CollaborativeSource struct {
	Engine *collab.Engine

	// Limit 每次向引擎要多少候选；<= 0 时默认 20
	Limit int
}

func (s *CollaborativeSource) Name() string { return "collaborative" }

func (s *CollaborativeSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if s.Engine == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	limit := s.Limit
	if limit <= 0 {
		limit = 20
	}

	trackIDs := s.Engine.Recommend(ctx, rctx.UserID, limit)
	out := make([]*core.Item, 0, len(trackIDs))
	for i, id := range trackIDs {
		it := core.NewItem(id)
		it.Score = rankScore(i, len(trackIDs))
		it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// ContentSource 把内容引擎包装成召回源。曲目元信息留在 Meta 里供上层使用。
type ContentSource struct {
	Engine *content.Engine

	// Limit 每次向引擎要多少候选；<= 0 时默认 20
	Limit int
}

func (s *ContentSource) Name() string { return "content" }

func (s *ContentSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if s.Engine == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	limit := s.Limit
	if limit <= 0 {
		limit = 20
	}

	tracks := s.Engine.Recommend(ctx, rctx.UserID, limit)
	out := make([]*core.Item, 0, len(tracks))
	for i, track := range tracks {
		it := core.NewItem(track.ID)
		it.Score = rankScore(i, len(tracks))
		it.Meta["name"] = track.Name
		it.Meta["artists"] = track.Artists
		it.Meta["popularity"] = track.Popularity
		it.PutLabel("recall_source", utils.Label{Value: s.Name(), Source: "recall"})
		out = append(out, it)
	}
	return out, nil
}

// rankScore 把排名折算为 (0, 1] 的分数：rank 0 → 1.0，线性递减。
func rankScore(rank, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-rank) / float64(total)
}

// 确保两个来源实现 Source 接口
var _ Source = (*CollaborativeSource)(nil)
var _ Source = (*ContentSource)(nil)
