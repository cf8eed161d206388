package collab

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/rushteam/tunekit/cache"
	"github.com/rushteam/tunekit/core"
)

const (
	// MatrixCacheKey 是整体矩阵的固定缓存 key
	MatrixCacheKey = "user_item_matrix"

	// RecommendKeyPrefix 是每用户推荐结果的缓存 key 前缀
	RecommendKeyPrefix = "collab_recommendations:"

	matrixTTLSeconds    = 1800 // 30 分钟
	recommendTTLSeconds = 300  // 5 分钟

	// smallPopulation 以下放宽邻居阈值：人口太小时统计阈值没有意义，
	// 冷启动/自举场景也要能出结果
	smallPopulation = 3

	// neighborThreshold 是大人口下的邻居相似度阈值
	neighborThreshold = 0.1
)

// Engine 是协同过滤推荐引擎。
// 对外方法契约上不抛错：内部异常被捕获、记日志并降级为空结果。
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

// BuildMatrix 构建（或从缓存取）用户-曲目交互矩阵。
// 整体重建，不做增量更新；构建失败降级为空矩阵。
func (e *Engine) BuildMatrix(ctx context.Context) Matrix {
	m, ok := cache.GetOrSet(ctx, e.cache, MatrixCacheKey, matrixTTLSeconds, func(ctx context.Context) (Matrix, error) {
		interactions, err := e.store.FindInteractions(ctx, core.InteractionFilter{})
		if err != nil {
			return nil, err
		}
		matrix := make(Matrix, 64)
		for _, in := range interactions {
			matrix.Add(in)
		}
		e.log.Debug().Int("users", len(matrix)).Int("interactions", len(interactions)).Msg("collab: matrix built")
		return matrix, nil
	})
	if !ok {
		return Matrix{}
	}
	return m
}

// Recommend 为用户生成协同过滤推荐，返回曲目 ID 列表。
// 用户不存在、没有邻居或内部出错时返回空列表，从不报错。
// 结果按 (userID, limit) 缓存 5 分钟。
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) []string {
	if userID == "" || limit <= 0 {
		return nil
	}

	if _, err := e.store.FindUser(ctx, userID); err != nil {
		if !core.IsStoreNotFound(err) {
			e.log.Error().Err(err).Str("user", userID).Msg("collab: user lookup failed")
		}
		return []string{}
	}

	cacheKey := fmt.Sprintf("%s%s:%d", RecommendKeyPrefix, userID, limit)
	result, ok := cache.GetOrSet(ctx, e.cache, cacheKey, recommendTTLSeconds, func(ctx context.Context) ([]string, error) {
		return e.recommend(ctx, userID, limit)
	})
	if !ok {
		return []string{}
	}
	return result
}

func (e *Engine) recommend(ctx context.Context, userID string, limit int) ([]string, error) {
	matrix := e.BuildMatrix(ctx)

	// 整体重建可能早于该用户的首次行为：补一行，从用户自己的行为回填
	if matrix.Row(userID) == nil {
		matrix[userID] = make(map[string]float64)
		own, err := e.store.FindInteractions(ctx, core.InteractionFilter{UserID: userID})
		if err != nil {
			return nil, err
		}
		for _, in := range own {
			matrix.Add(in)
		}
	}

	userRatings := matrix.Row(userID)
	small := len(matrix) <= smallPopulation

	// 计算与其他用户的相似度并按阈值筛邻居；
	// 遍历顺序排序保证结果确定（map 迭代是随机的）
	otherIDs := make([]string, 0, len(matrix))
	for otherID := range matrix {
		if otherID != userID {
			otherIDs = append(otherIDs, otherID)
		}
	}
	sort.Strings(otherIDs)

	neighbors := make(map[string]float64, len(otherIDs))
	for _, otherID := range otherIDs {
		sim := Similarity(userRatings, matrix[otherID])
		if small {
			if sim > 0 {
				neighbors[otherID] = sim
			}
		} else if sim > neighborThreshold {
			neighbors[otherID] = sim
		}
	}

	// 阈值把所有人都筛掉但确实存在其他用户：退化为默认相似度 0.5，
	// 避免人口不足以支撑统计阈值时完全沉默
	if len(neighbors) == 0 && len(otherIDs) > 0 {
		for _, otherID := range otherIDs {
			neighbors[otherID] = 0.5
		}
	}

	type candidate struct {
		score float64
		count int
	}
	candidates := make(map[string]*candidate)
	order := make([]string, 0) // 首次出现顺序，作为稳定排序的并列裁决

	for _, neighborID := range otherIDs {
		sim, ok := neighbors[neighborID]
		if !ok {
			continue
		}
		row := matrix[neighborID]
		trackIDs := make([]string, 0, len(row))
		for trackID := range row {
			trackIDs = append(trackIDs, trackID)
		}
		sort.Strings(trackIDs)

		for _, trackID := range trackIDs {
			rating := row[trackID]
			_, alreadyRated := userRatings[trackID]
			// 小人口分支放宽"已交互排除"，冷启动数据集也能出结果
			if alreadyRated && !small {
				continue
			}
			if rating <= 0 && !small {
				continue
			}
			c, ok := candidates[trackID]
			if !ok {
				c = &candidate{}
				candidates[trackID] = c
				order = append(order, trackID)
			}
			c.score += sim * math.Max(0.1, rating)
			c.count++
		}
	}

	// 还是一无所获且处于小人口：把其他用户的全部曲目按默认分兜底
	if len(candidates) == 0 && small && len(otherIDs) > 0 {
		for _, neighborID := range otherIDs {
			row := matrix[neighborID]
			trackIDs := make([]string, 0, len(row))
			for trackID := range row {
				trackIDs = append(trackIDs, trackID)
			}
			sort.Strings(trackIDs)
			for _, trackID := range trackIDs {
				if _, ok := candidates[trackID]; !ok {
					candidates[trackID] = &candidate{score: 0.5, count: 1}
					order = append(order, trackID)
				}
			}
		}
	}

	if len(candidates) == 0 {
		return []string{}, nil
	}

	// 归一化：按贡献邻居数摊平，再按分数稳定降序
	sort.SliceStable(order, func(i, j int) bool {
		a := candidates[order[i]]
		b := candidates[order[j]]
		return a.score/float64(max(1, a.count)) > b.score/float64(max(1, b.count))
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order, nil
}

// Invalidate 清掉矩阵与所有每用户推荐缓存，并立即重建矩阵。
// 这是除 TTL 过期外唯一的外部缓存失效入口。
func (e *Engine) Invalidate(ctx context.Context) error {
	if err := e.cache.Del(ctx, MatrixCacheKey); err != nil {
		return err
	}
	if err := e.cache.InvalidatePattern(ctx, RecommendKeyPrefix+"*"); err != nil {
		return err
	}
	e.BuildMatrix(ctx)
	e.log.Info().Msg("collab: model invalidated and matrix rebuilt")
	return nil
}
