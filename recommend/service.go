package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/tunekit/collab"
	"github.com/rushteam/tunekit/content"
	"github.com/rushteam/tunekit/core"
	"github.com/rushteam/tunekit/filter"
	"github.com/rushteam/tunekit/pipeline"
	"github.com/rushteam/tunekit/rerank"
)

// 默认混排权重：两路各半；业务可通过 Option 调整。
const (
	defaultCollabWeight  = 0.5
	defaultContentWeight = 0.5

	// 群组 fan-out 的并发上限：成员数通常个位数，限一下防御大群
	groupConcurrency = 8
)

// Service 组合两个引擎的输出（加权混排）并应用业务规则。
// 引擎只被读调用；相同查询的缓存语义完全由引擎内部的 cache 层承担。
type Service struct {
	collabEngine  *collab.Engine
	contentEngine *content.Engine

	collabWeight  float64
	contentWeight float64
	sourceTimeout time.Duration
	extraFilters  []filter.Filter
	log           zerolog.Logger
}

// Option 配置 Service 的可选项。
type Option func(*Service)

// WithWeights 调整两路召回的混排权重。
func WithWeights(collabWeight, contentWeight float64) Option {
	return func(s *Service) {
		s.collabWeight = collabWeight
		s.contentWeight = contentWeight
	}
}

// WithSourceTimeout 设置单个召回源的超时。
func WithSourceTimeout(d time.Duration) Option {
	return func(s *Service) { s.sourceTimeout = d }
}

// WithFilters 追加业务过滤器（如 RuleFilter 表达的运营规则）。
func WithFilters(filters ...filter.Filter) Option {
	return func(s *Service) { s.extraFilters = append(s.extraFilters, filters...) }
}

// WithLogger 注入日志器（默认丢弃日志）。
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

func NewService(collabEngine *collab.Engine, contentEngine *content.Engine, opts ...Option) *Service {
	s := &Service{
		collabEngine:  collabEngine,
		contentEngine: contentEngine,
		collabWeight:  defaultCollabWeight,
		contentWeight: defaultContentWeight,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// buildPipeline 每次请求组装召回 → 过滤 → 截断的 Node 链。
func (s *Service) buildPipeline(limit int) *pipeline.Pipeline {
	fanout := &Fanout{
		Sources: []Source{
			// 协同在前：并列分数时协同结果优先
			&CollaborativeSource{Engine: s.collabEngine, Limit: limit * 2},
			&ContentSource{Engine: s.contentEngine, Limit: limit * 2},
		},
		Weights: map[string]float64{
			"collaborative": s.collabWeight,
			"content":       s.contentWeight,
		},
		Timeout: s.sourceTimeout,
	}

	filters := append([]filter.Filter{&filter.TrackSetFilter{}}, s.extraFilters...)

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			fanout,
			&filter.FilterNode{Filters: filters},
			&rerank.TopNNode{N: limit},
		},
	}
}

// Recommend 为单个用户生成混排推荐。
// rctx.Params["playlist_track_ids"] 里的曲目永远不会出现在结果中。
// 引擎层已保证不抛错；Pipeline 本身的错误记日志后降级为空结果。
func (s *Service) Recommend(ctx context.Context, rctx *core.RecommendContext, limit int) []*core.Item {
	if rctx == nil || rctx.UserID == "" || limit <= 0 {
		return nil
	}

	items, err := s.buildPipeline(limit).Run(ctx, rctx, nil)
	if err != nil {
		s.log.Error().Err(err).Str("user", rctx.UserID).Msg("recommend: pipeline failed")
		return []*core.Item{}
	}
	return items
}

// RecommendForUser 是 Recommend 的便捷入口：只有用户 ID 时使用。
func (s *Service) RecommendForUser(ctx context.Context, userID string, limit int) []*core.Item {
	return s.Recommend(ctx, &core.RecommendContext{UserID: userID, Scene: "personal"}, limit)
}

// RecommendForGroup 为一组用户生成共同推荐：并发取每个成员的个人推荐，
// 命中更多成员的曲目排前，同命中数按累计分数排。
// 成员列表去重；空成员列表返回空结果。
func (s *Service) RecommendForGroup(ctx context.Context, userIDs []string, limit int, excludeTrackIDs []string) []*core.Item {
	members := dedupeStrings(userIDs)
	if len(members) == 0 || limit <= 0 {
		return []*core.Item{}
	}

	perMember := make([][]*core.Item, len(members))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(groupConcurrency)

	for i, userID := range members {
		i, userID := i, userID
		eg.Go(func() error {
			rctx := &core.RecommendContext{
				UserID: userID,
				Scene:  "group",
				Params: map[string]any{"playlist_track_ids": excludeTrackIDs},
			}
			perMember[i] = s.Recommend(egCtx, rctx, limit)
			return nil
		})
	}
	// 各成员的召回都不返回错误；Wait 只用于汇合
	_ = eg.Wait()

	type groupCandidate struct {
		item    *core.Item
		members int
		score   float64
	}
	seen := make(map[string]*groupCandidate)
	order := make([]string, 0)

	for _, items := range perMember {
		for _, it := range items {
			if it == nil {
				continue
			}
			c, ok := seen[it.ID]
			if !ok {
				c = &groupCandidate{item: it}
				seen[it.ID] = c
				order = append(order, it.ID)
			}
			c.members++
			c.score += it.Score
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := seen[order[i]], seen[order[j]]
		if a.members != b.members {
			return a.members > b.members
		}
		return a.score > b.score
	})

	if len(order) > limit {
		order = order[:limit]
	}
	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		c := seen[id]
		c.item.Score = c.score
		c.item.Meta["group_members"] = c.members
		out = append(out, c.item)
	}
	return out
}

// InvalidateCollaborativeModel 清掉协同过滤的矩阵与每用户推荐缓存，
// 下一次请求从新鲜的行为数据重建。这是除 TTL 过期外唯一的外部失效入口。
func (s *Service) InvalidateCollaborativeModel(ctx context.Context) error {
	return s.collabEngine.Invalidate(ctx)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
