package core

import "context"

// InteractionFilter 是行为记录的查询条件；零值表示全量。
type InteractionFilter struct {
	// UserID 非空时只返回该用户的行为
	UserID string

	// Types 非空时只返回这些行为类型
	Types []InteractionType
}

// MusicStore 是外部音乐存储的领域接口。
//
// 设计原则：
//   - 定义在领域层（core），由外部基础设施实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 持久化本身不在本模块范围内：引擎只消费查询结果
//
// 使用场景：
//   - 协同过滤：FindInteractions 构建用户-曲目矩阵
//   - 内容推荐：FindUserPreference + FindTracksWithFeatures
//   - 冷启动判断：FindUser
//
// 实现：
//   - store.MemoryMusicStore 实现此接口（测试/原型）
//   - 生产环境由数据库适配层实现
type MusicStore interface {
	// FindInteractions 按条件查询行为记录
	FindInteractions(ctx context.Context, filter InteractionFilter) ([]Interaction, error)

	// FindUser 查询用户；不存在时返回 ErrStoreNotFound
	FindUser(ctx context.Context, id string) (*User, error)

	// FindUserPreference 查询用户偏好画像；不存在时返回 ErrStoreNotFound
	FindUserPreference(ctx context.Context, userID string) (*UserPreference, error)

	// FindTracksWithFeatures 查询所有带音频特征的曲目
	// （语料变化慢，调用方应缓存结果）
	FindTracksWithFeatures(ctx context.Context) ([]TrackRecord, error)

	// FindInteractedTrackIDs 查询用户交互过的曲目 ID（按行为类型白名单过滤，去重）
	FindInteractedTrackIDs(ctx context.Context, userID string, types []InteractionType) ([]string, error)
}

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示记录不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: record not found")
)

// IsStoreNotFound 检查错误是否为记录不存在（使用统一的错误检查）
func IsStoreNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}
