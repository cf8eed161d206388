package collab

import "github.com/rushteam/tunekit/core"

// Matrix 是稀疏的用户-曲目交互权重矩阵：userID → (trackID → 累积权重)。
// 行为日志才是权威状态；矩阵是按需整体重建的派生值，作为缓存条目存活。
type Matrix map[string]map[string]float64

// Add 累积一条行为记录的权重；未知行为类型被跳过。
func (m Matrix) Add(in core.Interaction) {
	w, ok := Weight(in.Type)
	if !ok {
		return
	}
	row, ok := m[in.UserID]
	if !ok {
		row = make(map[string]float64)
		m[in.UserID] = row
	}
	row[in.TrackID] += w
}

// Row 返回用户的评分行；不存在返回 nil。
func (m Matrix) Row(userID string) map[string]float64 {
	return m[userID]
}
