package dataset

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/playrec/core"
)

// Matrix 是用户-物品交互矩阵：用户 → 物品上的稀疏向量（只读）。
// 0 值语义是“未观测到交互”，不是负反馈；所有存量值 >= 0。
// 行/列全集在构建时固定；新增用户/物品需要重建快照。
type Matrix struct {
	rows  map[string]Vector
	users []string
	items int // 列全集大小（构建时出现过的物品数）
}

// ErrMatrixUnavailable 表示交互数据缺失或为空：
// 协同/内容引擎进入降级（不可用）状态，系统整体仍可启动。
var ErrMatrixUnavailable = core.NewDomainError(core.ModuleDataset, core.ErrorCodeDataUnavailable, "dataset: interaction log missing or empty")

// 默认的采样上限与种子，沿用线上数据规模验证过的取值。
const (
	DefaultMaxRows    = 150000
	DefaultSampleSeed = 42
)

// MatrixBuilder 从交互记录构建矩阵。
//
// 装载策略（顺序固定）：
//  1. 丢弃畸形记录与目录外物品的记录（跳过并计数，不中断装载）
//  2. (user,item) 去重，保留第一条（确定性）
//  3. 行数超过 MaxRows 时做可复现的随机下采样（固定种子），
//     采样发生在建矩阵之前，以约束内存峰值
//  4. 透视成 user → {item: signal} 稀疏行
type MatrixBuilder struct {
	// Valid 限定合法物品集合（来自标签/目录索引）；nil 表示不限制。
	Valid *Catalog

	// MaxRows 是保留的交互行数上限；<=0 时用 DefaultMaxRows。
	MaxRows int

	// Seed 是下采样的随机种子；0 时用 DefaultSampleSeed。
	Seed int64

	// Workers 是透视阶段的并发分片数；<=0 时取 GOMAXPROCS。
	// 去重后 (user,item) 两两不同，分片合并与单线程结果一致。
	Workers int

	// Dropped 记录被跳过的记录数（畸形 + 目录外），Build 后可读。
	Dropped int
}

// Build 构建矩阵。数据源为空（包括全部被过滤掉）时返回 ErrMatrixUnavailable。
func (b *MatrixBuilder) Build(ctx context.Context, records []InteractionRecord) (*Matrix, error) {
	b.Dropped = 0

	// 1+2. 过滤 + 去重（保序，保证确定性）
	type pairKey struct{ user, item string }
	seen := make(map[pairKey]struct{}, len(records))
	retained := make([]InteractionRecord, 0, len(records))
	for _, r := range records {
		if !r.Valid() {
			b.Dropped++
			continue
		}
		if b.Valid != nil && !b.Valid.Has(r.ItemID) {
			b.Dropped++
			continue
		}
		k := pairKey{r.UserID, r.ItemID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		retained = append(retained, r)
	}
	if len(retained) == 0 {
		return nil, ErrMatrixUnavailable
	}

	// 3. 可复现下采样：固定种子选下标，再按原始顺序回放
	maxRows := b.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if len(retained) > maxRows {
		seed := b.Seed
		if seed == 0 {
			seed = DefaultSampleSeed
		}
		rnd := rand.New(rand.NewSource(seed))
		picked := rnd.Perm(len(retained))[:maxRows]
		sort.Ints(picked)
		sampled := make([]InteractionRecord, 0, maxRows)
		for _, idx := range picked {
			sampled = append(sampled, retained[idx])
		}
		retained = sampled
	}

	// 4. 分片并发透视后合并
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(retained) {
		workers = len(retained)
	}

	var (
		mu   sync.Mutex
		rows = make(map[string]Vector)
	)
	eg, _ := errgroup.WithContext(ctx)
	chunk := (len(retained) + workers - 1) / workers
	for start := 0; start < len(retained); start += chunk {
		end := start + chunk
		if end > len(retained) {
			end = len(retained)
		}
		part := retained[start:end]
		eg.Go(func() error {
			local := make(map[string]Vector)
			for _, r := range part {
				row, ok := local[r.UserID]
				if !ok {
					row = make(Vector)
					local[r.UserID] = row
				}
				row[r.ItemID] = r.Signal
			}
			mu.Lock()
			for user, vec := range local {
				row, ok := rows[user]
				if !ok {
					rows[user] = vec
					continue
				}
				for item, v := range vec {
					row[item] = v
				}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	users := make([]string, 0, len(rows))
	for u := range rows {
		users = append(users, u)
	}
	sort.Strings(users)

	return &Matrix{rows: rows, users: users, items: countItems(rows)}, nil
}

func countItems(rows map[string]Vector) int {
	distinct := make(map[string]struct{})
	for _, row := range rows {
		for item := range row {
			distinct[item] = struct{}{}
		}
	}
	return len(distinct)
}

// Row 返回用户的交互向量；用户不在矩阵中返回 (nil, false)：冷用户，不是错误。
func (m *Matrix) Row(userID string) (Vector, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.rows[userID]
	return v, ok
}

// Users 返回全部用户 ID（字典序，只读）。
func (m *Matrix) Users() []string {
	if m == nil {
		return nil
	}
	return m.users
}

// Len 返回矩阵的用户数。
func (m *Matrix) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rows)
}

// NumItems 返回列全集大小（构建时出现过的物品数）。
// 皮尔逊相关按整行（含 0 列）计算时需要它。
func (m *Matrix) NumItems() int {
	if m == nil {
		return 0
	}
	return m.items
}

// Rows 导出全部行（用于快照持久化）。调用方不得修改返回值。
func (m *Matrix) Rows() map[string]Vector {
	if m == nil {
		return nil
	}
	return m.rows
}

// NewMatrixFromRows 从已有行数据直接组装矩阵（快照装载路径）。
func NewMatrixFromRows(rows map[string]Vector) *Matrix {
	if len(rows) == 0 {
		return nil
	}
	users := make([]string, 0, len(rows))
	for u := range rows {
		users = append(users, u)
	}
	sort.Strings(users)
	return &Matrix{rows: rows, users: users, items: countItems(rows)}
}
