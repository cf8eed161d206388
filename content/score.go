package content

import (
	"math"
	"regexp"
	"strings"

	"github.com/rushteam/tunekit/core"
)

// 评分权重：艺人重合主导，流派次之，音频特征与热度做微调。
const (
	artistWeight     = 0.7
	genreWeight      = 0.2
	featureWeight    = 0.05
	popularityWeight = 0.05
)

var genreWordSplit = regexp.MustCompile(`[\s-]+`)

// ArtistSimilarity 返回 1 当曲目任一艺人与用户 top 艺人大小写不敏感匹配，否则 0。
func ArtistSimilarity(track core.TrackRecord, pref *core.UserPreference) float64 {
	if len(pref.TopArtists) == 0 || len(track.Artists) == 0 {
		return 0
	}
	userArtists := make(map[string]struct{}, len(pref.TopArtists))
	for _, a := range pref.TopArtists {
		userArtists[strings.ToLower(a)] = struct{}{}
	}
	for _, a := range track.Artists {
		if _, ok := userArtists[strings.ToLower(a)]; ok {
			return 1
		}
	}
	return 0
}

// GenreSimilarity 返回 1 当艺人名中任一按空白/连字符切出的词命中用户偏好流派。
// 这是启发式代理：曲目没有一等流派字段，换成真实流派字段不影响外层契约。
func GenreSimilarity(track core.TrackRecord, pref *core.UserPreference) float64 {
	if len(pref.Genres) == 0 || len(track.Artists) == 0 {
		return 0
	}
	genres := make(map[string]struct{}, len(pref.Genres))
	for _, g := range pref.Genres {
		genres[strings.ToLower(g)] = struct{}{}
	}
	for _, artist := range track.Artists {
		for _, word := range genreWordSplit.Split(strings.ToLower(artist), -1) {
			if _, ok := genres[word]; ok {
				return 1
			}
		}
	}
	return 0
}

// FeatureSimilarity 对曲目与偏好画像都具备的音频特征维度取 1-|Δ| 的均值。
// 无重合维度或曲目缺特征数据时返回 0（候选仍可凭艺人/流派/热度参与排序）。
func FeatureSimilarity(track core.TrackRecord, pref *core.UserPreference) float64 {
	if len(track.AudioFeatures) == 0 || len(pref.Features) == 0 {
		return 0
	}
	var total float64
	var n int
	for name, trackVal := range track.AudioFeatures {
		prefVal, ok := pref.Features[name]
		if !ok {
			continue
		}
		total += 1 - math.Abs(trackVal-prefVal)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Score 计算加权总分。
func Score(track core.TrackRecord, pref *core.UserPreference) (score, artistSim, genreSim float64) {
	artistSim = ArtistSimilarity(track, pref)
	genreSim = GenreSimilarity(track, pref)
	featureSim := FeatureSimilarity(track, pref)

	score = artistSim*artistWeight +
		genreSim*genreWeight +
		featureSim*featureWeight +
		track.Popularity/100*popularityWeight
	return score, artistSim, genreSim
}
