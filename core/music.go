package core

import "time"

// InteractionType 是用户对曲目的行为类型。
type InteractionType string

const (
	InteractionLike          InteractionType = "like"
	InteractionPlay          InteractionType = "play"
	InteractionListen        InteractionType = "listen" // play 的同义行为（历史数据兼容）
	InteractionAddToPlaylist InteractionType = "add_to_playlist"
	InteractionSkip          InteractionType = "skip"
	InteractionDislike       InteractionType = "dislike"
	InteractionSave          InteractionType = "save"
	InteractionShare         InteractionType = "share"
)

// Interaction 是一条不可变的用户-曲目行为记录，由外部存储拥有。
type Interaction struct {
	UserID    string
	TrackID   string
	Type      InteractionType
	Timestamp time.Time
}

// TrackRecord 是曲目记录（外部目录提供，只读）。
// AudioFeatures 为空表示该曲目没有音频特征数据。
type TrackRecord struct {
	ID         string
	Name       string
	Artists    []string
	Popularity float64 // 0-100

	// AudioFeatures 是音频特征，key: danceability/energy/valence/... value: 归一化数值
	AudioFeatures map[string]float64
}

// UserPreference 是用户偏好画像（外部存储提供，只读）。
//
// 维度          作用
// Genres        流派偏好 → genreSim
// TopArtists    艺人偏好 → artistSim
// Features      音频特征偏好 → featureSim
type UserPreference struct {
	UserID     string
	Genres     []string
	TopArtists []string

	// Features 是用户偏好的音频特征均值，key 与 TrackRecord.AudioFeatures 对齐
	Features map[string]float64
}

// User 是外部存储中的用户记录。
type User struct {
	ID          string
	DisplayName string
}
