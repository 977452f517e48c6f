package dataset

import (
	"context"
	"sync/atomic"
	"time"
)

// Snapshot 是一次构建产出的全部只读状态：目录、标签索引、交互矩阵。
// 字段允许部分为 nil：哪份数据装载失败，依赖它的引擎就单独降级，
// 其余引擎照常工作（见各引擎的 Available 判断）。
type Snapshot struct {
	Catalog *Catalog
	Tags    *TagIndex
	Matrix  *Matrix

	BuiltAt time.Time
}

// BuildOptions 控制快照构建。
type BuildOptions struct {
	TopTags int   // 标签维度上限；<=0 用 DefaultTopTags
	MaxRows int   // 交互行数上限；<=0 用 DefaultMaxRows
	Seed    int64 // 采样种子；0 用 DefaultSampleSeed
}

// BuildSnapshot 从归一化记录构建快照。
//
// 错误策略：目录/标签/矩阵任何一份装载失败都不会让构建整体失败：
// 对应字段置 nil、错误收集到返回的 errs 里；只要有一份数据可用，
// 快照就可以投入服务（降级模式）。errs 为空表示全量可用。
func BuildSnapshot(ctx context.Context, items []ItemRecord, interactions []InteractionRecord, opts BuildOptions) (*Snapshot, []error) {
	snap := &Snapshot{BuiltAt: time.Now()}
	var errs []error

	catalog, err := BuildCatalog(items)
	if err != nil {
		errs = append(errs, err)
	} else {
		snap.Catalog = catalog
	}

	if snap.Catalog != nil {
		tagBuilder := &TagIndexBuilder{TopK: opts.TopTags}
		tags, err := tagBuilder.Build(snap.Catalog)
		if err != nil {
			errs = append(errs, err)
		} else {
			snap.Tags = tags
		}
	}

	matrixBuilder := &MatrixBuilder{
		Valid:   snap.Catalog,
		MaxRows: opts.MaxRows,
		Seed:    opts.Seed,
	}
	matrix, err := matrixBuilder.Build(ctx, interactions)
	if err != nil {
		errs = append(errs, err)
	} else {
		snap.Matrix = matrix
	}

	return snap, errs
}

// Seen 返回用户已交互（signal > 0）的物品集合；冷用户返回 nil。
func (s *Snapshot) Seen(userID string) map[string]struct{} {
	if s == nil || s.Matrix == nil {
		return nil
	}
	row, ok := s.Matrix.Row(userID)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{}, len(row))
	for item, v := range row {
		if v > 0 {
			seen[item] = struct{}{}
		}
	}
	return seen
}

// Ref 持有当前生效的快照引用，支持原子替换。
//
// 重建流程：后台构建新 Snapshot → Swap → 旧快照由 GC 回收。
// 请求处理期间读到的快照自始至终是同一个对象，无需加锁。
// 未 Swap 过的 Ref 处于显式的“不可用”状态（Load 返回 nil）。
type Ref struct {
	ptr atomic.Pointer[Snapshot]
}

// Load 返回当前快照；尚未装载时返回 nil。
func (r *Ref) Load() *Snapshot {
	if r == nil {
		return nil
	}
	return r.ptr.Load()
}

// Swap 原子替换当前快照，返回旧值。
func (r *Ref) Swap(s *Snapshot) *Snapshot {
	return r.ptr.Swap(s)
}
