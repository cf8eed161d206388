// Package store 提供 core.MusicStore 的基础设施实现。
// 当前内置内存实现，用于测试、原型和示例；生产环境由数据库适配层实现同一接口。
package store

import (
	"context"
	"sync"

	"github.com/rushteam/tunekit/core"
)

// MemoryMusicStore 是 core.MusicStore 的线程安全内存实现。
//
// 查询结果的顺序与写入顺序一致（曲目、行为记录都按插入序保存），
// 这让上层引擎的"并列按输入顺序"语义在测试里可复现。
type MemoryMusicStore struct {
	mu sync.RWMutex

	users        map[string]core.User
	prefs        map[string]core.UserPreference
	tracks       []core.TrackRecord
	trackIndex   map[string]int
	interactions []core.Interaction
}

// NewMemoryMusicStore 创建一个空的内存存储。
func NewMemoryMusicStore() *MemoryMusicStore {
	return &MemoryMusicStore{
		users:      make(map[string]core.User),
		prefs:      make(map[string]core.UserPreference),
		trackIndex: make(map[string]int),
	}
}

// AddUser 写入（或覆盖）一个用户。
func (s *MemoryMusicStore) AddUser(u core.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// SetPreference 写入（或覆盖）用户偏好画像。
func (s *MemoryMusicStore) SetPreference(p core.UserPreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[p.UserID] = p
}

// AddTrack 写入一条曲目记录；重复 ID 原位覆盖，保持首次插入的位置。
func (s *MemoryMusicStore) AddTrack(t core.TrackRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx, ok := s.trackIndex[t.ID]; ok {
		s.tracks[idx] = t
		return
	}
	s.trackIndex[t.ID] = len(s.tracks)
	s.tracks = append(s.tracks, t)
}

// AddInteraction 追加一条行为记录。
func (s *MemoryMusicStore) AddInteraction(i core.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interactions = append(s.interactions, i)
}

// FindInteractions 按条件查询行为记录，按插入序返回。
func (s *MemoryMusicStore) FindInteractions(_ context.Context, filter core.InteractionFilter) ([]core.Interaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var typeSet map[core.InteractionType]struct{}
	if len(filter.Types) > 0 {
		typeSet = make(map[core.InteractionType]struct{}, len(filter.Types))
		for _, t := range filter.Types {
			typeSet[t] = struct{}{}
		}
	}

	out := make([]core.Interaction, 0, len(s.interactions))
	for _, it := range s.interactions {
		if filter.UserID != "" && it.UserID != filter.UserID {
			continue
		}
		if typeSet != nil {
			if _, ok := typeSet[it.Type]; !ok {
				continue
			}
		}
		out = append(out, it)
	}
	return out, nil
}

// FindUser 查询用户；不存在时返回 core.ErrStoreNotFound。
func (s *MemoryMusicStore) FindUser(_ context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return &u, nil
}

// FindUserPreference 查询用户偏好画像；不存在时返回 core.ErrStoreNotFound。
func (s *MemoryMusicStore) FindUserPreference(_ context.Context, userID string) (*core.UserPreference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return &p, nil
}

// FindTracksWithFeatures 返回所有带音频特征的曲目，按插入序。
func (s *MemoryMusicStore) FindTracksWithFeatures(_ context.Context) ([]core.TrackRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.TrackRecord, 0, len(s.tracks))
	for _, t := range s.tracks {
		if len(t.AudioFeatures) == 0 {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// FindInteractedTrackIDs 返回用户交互过的曲目 ID，按首次出现顺序去重。
func (s *MemoryMusicStore) FindInteractedTrackIDs(_ context.Context, userID string, types []core.InteractionType) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	typeSet := make(map[core.InteractionType]struct{}, len(types))
	for _, t := range types {
		typeSet[t] = struct{}{}
	}

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, it := range s.interactions {
		if it.UserID != userID {
			continue
		}
		if len(typeSet) > 0 {
			if _, ok := typeSet[it.Type]; !ok {
				continue
			}
		}
		if _, ok := seen[it.TrackID]; ok {
			continue
		}
		seen[it.TrackID] = struct{}{}
		out = append(out, it.TrackID)
	}
	return out, nil
}

// 确保实现 core.MusicStore 接口
var _ core.MusicStore = (*MemoryMusicStore)(nil)
