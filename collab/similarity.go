package collab

import "math"

// Similarity 计算两个用户评分行的相似度，结果在 [-1, 1]。
//
// 规则（对 a/b 对称）：
//  1. 无共同曲目：双方都有正向评分时返回 0.1（冷启动基线），否则 0
//  2. 有共同曲目：Pearson 相关——对每个共同曲目减去各自"全量评分"的均值
//     （不是只对共同曲目求均值），numerator/sqrt(denomA*denomB)
//  3. 退化分母（某一方全部评分相同，偏差为 0）：有共同曲目被双方正向
//     评分则 0.5，否则 0
//  4. Pearson ≤ 0 但存在双方都正向评分的共同曲目：抬到下限 0.3
//     （共享正向信号不应表现为"无关系"）
//  5. 最终钳到 [-1, 1]（浮点误差可能越界）
func Similarity(a, b map[string]float64) float64 {
	common := make([]string, 0)
	for trackID := range a {
		if _, ok := b[trackID]; ok {
			common = append(common, trackID)
		}
	}

	if len(common) == 0 {
		if hasPositive(a) && hasPositive(b) {
			return 0.1
		}
		return 0
	}

	meanA := mean(a)
	meanB := mean(b)

	var numerator, denomA, denomB float64
	for _, trackID := range common {
		da := a[trackID] - meanA
		db := b[trackID] - meanB
		numerator += da * db
		denomA += da * da
		denomB += db * db
	}

	sharedPositive := false
	for _, trackID := range common {
		if a[trackID] > 0 && b[trackID] > 0 {
			sharedPositive = true
			break
		}
	}

	if denomA == 0 || denomB == 0 {
		if sharedPositive {
			return 0.5
		}
		return 0
	}

	sim := numerator / math.Sqrt(denomA*denomB)
	if sim <= 0 && sharedPositive {
		return 0.3
	}

	return math.Max(-1, math.Min(1, sim))
}

func hasPositive(ratings map[string]float64) bool {
	for _, r := range ratings {
		if r > 0 {
			return true
		}
	}
	return false
}

func mean(ratings map[string]float64) float64 {
	if len(ratings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return sum / float64(len(ratings))
}
