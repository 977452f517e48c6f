package dataset

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/rushteam/playrec/core"
)

// Vector 是稀疏向量：键 → 非负计数/权重。
// 在标签索引中键是标签名，在交互矩阵中键是物品 ID。
type Vector map[string]float64

// Dot 计算两个稀疏向量的点积（只遍历较小的一侧）。
func (v Vector) Dot(other Vector) float64 {
	a, b := v, other
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for k, av := range a {
		if bv, ok := b[k]; ok {
			sum += av * bv
		}
	}
	return sum
}

// ParseTags 解析原始标签字段。
// 先尝试结构化列表解析（JSON 形式的 ["Action","Indie"]），
// 失败则回退到逗号切分；空串/无法解析返回空集（不是错误）。
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var tags []string
	if strings.HasPrefix(raw, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			tags = parsed
		}
	}
	if tags == nil {
		tags = strings.Split(raw, ",")
	}

	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.Trim(strings.TrimSpace(t), `'"`))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// DefaultTopTags 是标签维度上限的默认值。
// 完整标签空间有数万维，截取高频标签可把 item×tag 矩阵压到可控规模。
const DefaultTopTags = 100

// TagIndex 是 item×tag 的 one-hot/计数矩阵（只读）。
type TagIndex struct {
	vectors map[string]Vector
	tags    []string // 保留的标签（按频次降序，同频按字典序）
}

// ErrTagIndexUnavailable 表示没有任何物品带有可解析的标签。
var ErrTagIndexUnavailable = core.NewDomainError(core.ModuleDataset, core.ErrorCodeDataUnavailable, "dataset: no parseable item tags")

// TagIndexBuilder 构建标签索引。
type TagIndexBuilder struct {
	// TopK 只保留最高频的 K 个标签；<=0 时用 DefaultTopTags。
	// 被裁掉的标签从向量里消失，但物品本身保留（可能得到空向量）。
	TopK int
}

// Build 从目录构建标签索引。
// 目录为 nil 或没有任何可解析标签时返回 ErrTagIndexUnavailable。
func (b *TagIndexBuilder) Build(catalog *Catalog) (*TagIndex, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrTagIndexUnavailable
	}

	topK := b.TopK
	if topK <= 0 {
		topK = DefaultTopTags
	}

	// 第一遍：解析全部标签并统计频次
	parsed := make(map[string][]string, catalog.Len())
	freq := make(map[string]int)
	for _, id := range catalog.IDs() {
		tags := ParseTags(catalog.Tags(id))
		parsed[id] = tags
		for _, t := range tags {
			freq[t]++
		}
	}
	if len(freq) == 0 {
		return nil, ErrTagIndexUnavailable
	}

	// 频次降序、同频按字典序，保证截断结果确定
	kept := make([]string, 0, len(freq))
	for t := range freq {
		kept = append(kept, t)
	}
	sort.Slice(kept, func(i, j int) bool {
		if freq[kept[i]] != freq[kept[j]] {
			return freq[kept[i]] > freq[kept[j]]
		}
		return kept[i] < kept[j]
	})
	if len(kept) > topK {
		kept = kept[:topK]
	}
	keptSet := make(map[string]struct{}, len(kept))
	for _, t := range kept {
		keptSet[t] = struct{}{}
	}

	// 第二遍：生成向量；标签计数（同一标签重复出现累加）
	vectors := make(map[string]Vector, catalog.Len())
	for _, id := range catalog.IDs() {
		vec := make(Vector)
		for _, t := range parsed[id] {
			if _, ok := keptSet[t]; ok {
				vec[t]++
			}
		}
		vectors[id] = vec
	}

	return &TagIndex{vectors: vectors, tags: kept}, nil
}

// Vector 返回物品的标签向量；未知物品返回 (nil, false)。
func (ix *TagIndex) Vector(itemID string) (Vector, bool) {
	if ix == nil {
		return nil, false
	}
	v, ok := ix.vectors[itemID]
	return v, ok
}

// Tags 返回保留下来的标签列表（频次降序）。
func (ix *TagIndex) Tags() []string {
	if ix == nil {
		return nil
	}
	return ix.tags
}

// Items 返回索引中的物品数。
func (ix *TagIndex) Items() int {
	if ix == nil {
		return 0
	}
	return len(ix.vectors)
}

// Each 遍历所有 (itemID, vector)。回调返回 false 时提前结束。
func (ix *TagIndex) Each(fn func(itemID string, vec Vector) bool) {
	if ix == nil {
		return
	}
	for id, v := range ix.vectors {
		if !fn(id, v) {
			return
		}
	}
}
