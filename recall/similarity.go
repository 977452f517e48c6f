package recall

import (
	"math"

	"github.com/rushteam/playrec/dataset"
)

// cosineSimilarity 计算两个稀疏向量的余弦相似度。
// 任一向量为零向量时返回 0（不是 NaN）。
func cosineSimilarity(a, b dataset.Vector) float64 {
	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return a.Dot(b) / (math.Sqrt(normA) * math.Sqrt(normB))
}

// pearsonFull 按整行语义计算皮尔逊相关系数：
// 两个稀疏向量被视为 n 维整行（未出现的列值为 0）。
// 任一侧方差为 0 时返回 (0, false)，调用方应将该邻居排除而不是传播 NaN。
func pearsonFull(a, b dataset.Vector, n int) (float64, bool) {
	if n <= 1 {
		return 0, false
	}

	var sumA, sumB, sumA2, sumB2 float64
	for _, v := range a {
		sumA += v
		sumA2 += v * v
	}
	for _, v := range b {
		sumB += v
		sumB2 += v * v
	}
	sumAB := a.Dot(b)

	nf := float64(n)
	cov := sumAB - sumA*sumB/nf
	varA := sumA2 - sumA*sumA/nf
	varB := sumB2 - sumB*sumB/nf
	if varA <= 0 || varB <= 0 {
		return 0, false
	}
	return cov / math.Sqrt(varA*varB), true
}

// sharedItems 统计两个稀疏向量共同非零的键数。
func sharedItems(a, b dataset.Vector) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for k, v := range a {
		if v == 0 {
			continue
		}
		if bv, ok := b[k]; ok && bv != 0 {
			count++
		}
	}
	return count
}
