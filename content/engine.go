// Package content 实现基于内容的推荐引擎（Content-Based Recommendation）。
//
// 核心思想："用户偏好某些艺人/流派/音频特征，推荐具有相似属性的其他曲目"
//
// 评分：score = 0.7·artistSim + 0.2·genreSim + 0.05·featureSim + 0.05·popularity/100
// 排序是显式三级裁决（artistSim > genreSim > score），不是单一混合 key——
// 艺人命中始终压过其他信号，结果可解释。
package content

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/tunekit/cache"
	"github.com/rushteam/tunekit/core"
)

const (
	// UserPrefsKeyPrefix 是用户偏好画像的缓存 key 前缀
	UserPrefsKeyPrefix = "user_prefs:"

	// InteractionsKeyPrefix 是用户已交互曲目集合的缓存 key 前缀
	InteractionsKeyPrefix = "user_interactions:"

	// TracksCacheKey 是带特征曲目全集的固定缓存 key
	TracksCacheKey = "all_tracks_with_features"

	prefsTTLSeconds        = 300  // 5 分钟
	interactionsTTLSeconds = 300  // 5 分钟
	tracksTTLSeconds       = 3600 // 1 小时：语料变化慢，重算昂贵
)

// exclusionTypes 是排除集合的行为类型白名单：任何此类行为都算"已接触过"。
var exclusionTypes = []core.InteractionType{
	core.InteractionLike,
	core.InteractionPlay,
	core.InteractionListen,
	core.InteractionAddToPlaylist,
	core.InteractionSkip,
	core.InteractionDislike,
	core.InteractionSave,
	core.InteractionShare,
}

// Engine 是基于内容的推荐引擎。
// 对外方法契约上不抛错：缺偏好画像 → 空结果；内部异常记日志后降级为空。
type Engine struct {
	store core.MusicStore
	cache *cache.Cache
	log   zerolog.Logger
}

// Option 配置 Engine 的可选项。
type Option func(*Engine)

// WithLogger 注入日志器（默认丢弃日志）。
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func NewEngine(store core.MusicStore, c *cache.Cache, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		cache: c,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend 按用户偏好画像对候选曲目打分并返回 TopN。
// 偏好画像、排除集合、曲目全集各自独立缓存：偏好缓存失效不会
// 连带重算昂贵的全语料特征查询。
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) []core.TrackRecord {
	if userID == "" || limit <= 0 {
		return nil
	}

	pref, ok := e.userPreference(ctx, userID)
	if !ok || pref == nil {
		return []core.TrackRecord{}
	}

	interacted := e.interactedSet(ctx, userID)

	tracks, ok := cache.GetOrSet(ctx, e.cache, TracksCacheKey, tracksTTLSeconds, func(ctx context.Context) ([]core.TrackRecord, error) {
		return e.store.FindTracksWithFeatures(ctx)
	})
	if !ok {
		return []core.TrackRecord{}
	}

	type scored struct {
		track     core.TrackRecord
		score     float64
		artistSim float64
		genreSim  float64
	}
	candidates := make([]scored, 0, len(tracks))
	for _, track := range tracks {
		if _, seen := interacted[track.ID]; seen {
			continue
		}
		score, artistSim, genreSim := Score(track, pref)
		candidates = append(candidates, scored{
			track:     track,
			score:     score,
			artistSim: artistSim,
			genreSim:  genreSim,
		})
	}

	// 三级裁决：艺人命中 > 流派命中 > 总分；稳定排序保留输入顺序的并列
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].artistSim != candidates[j].artistSim {
			return candidates[i].artistSim > candidates[j].artistSim
		}
		if candidates[i].genreSim != candidates[j].genreSim {
			return candidates[i].genreSim > candidates[j].genreSim
		}
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]core.TrackRecord, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.track)
	}
	return out
}

// userPreference 读取（缓存 5 分钟）用户偏好画像；画像不存在缓存 nil。
func (e *Engine) userPreference(ctx context.Context, userID string) (*core.UserPreference, bool) {
	return cache.GetOrSet(ctx, e.cache, UserPrefsKeyPrefix+userID, prefsTTLSeconds, func(ctx context.Context) (*core.UserPreference, error) {
		pref, err := e.store.FindUserPreference(ctx, userID)
		if err != nil {
			if core.IsStoreNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return pref, nil
	})
}

// interactedSet 读取（缓存 5 分钟）用户的已交互曲目排除集合。
// 查询失败降级为空集合：宁可多推荐也不让整个请求沉默。
func (e *Engine) interactedSet(ctx context.Context, userID string) map[string]struct{} {
	ids, ok := cache.GetOrSet(ctx, e.cache, InteractionsKeyPrefix+userID, interactionsTTLSeconds, func(ctx context.Context) ([]string, error) {
		return e.store.FindInteractedTrackIDs(ctx, userID, exclusionTypes)
	})
	if !ok {
		return map[string]struct{}{}
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
