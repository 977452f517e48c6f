package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rushteam/playrec/core"
)

// StoreSnapshotAdapter 通过 core.Store 持久化/装载快照。
// 启动时可优先尝试装载预计算快照，失败再从原始记录构建。
//
// 存储布局：
//   - 矩阵行：  {KeyPrefix}:matrix
//   - 物品目录：{KeyPrefix}:catalog
//   - 标签向量：{KeyPrefix}:tags
type StoreSnapshotAdapter struct {
	store core.Store

	KeyPrefix string
	// TTL 是快照键的过期秒数；<=0 表示不过期。
	TTL int
}

// NewStoreSnapshotAdapter 创建快照存储适配器。
func NewStoreSnapshotAdapter(s core.Store, keyPrefix string) *StoreSnapshotAdapter {
	if keyPrefix == "" {
		keyPrefix = "snapshot"
	}
	return &StoreSnapshotAdapter{store: s, KeyPrefix: keyPrefix}
}

type storedTags struct {
	Tags    []string          `json:"tags"`
	Vectors map[string]Vector `json:"vectors"`
}

// Save 把快照写入存储。nil 字段对应的键被删除，装载时保持 nil（降级状态可往返）。
func (a *StoreSnapshotAdapter) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("save snapshot: nil snapshot")
	}

	kvs := make(map[string][]byte, 3)
	if snap.Matrix != nil {
		data, err := json.Marshal(snap.Matrix.Rows())
		if err != nil {
			return fmt.Errorf("marshal matrix: %w", err)
		}
		kvs[a.KeyPrefix+":matrix"] = data
	}
	if snap.Catalog != nil {
		data, err := json.Marshal(snap.Catalog.Records())
		if err != nil {
			return fmt.Errorf("marshal catalog: %w", err)
		}
		kvs[a.KeyPrefix+":catalog"] = data
	}
	if snap.Tags != nil {
		st := storedTags{Tags: snap.Tags.Tags(), Vectors: make(map[string]Vector, snap.Tags.Items())}
		snap.Tags.Each(func(itemID string, vec Vector) bool {
			st.Vectors[itemID] = vec
			return true
		})
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}
		kvs[a.KeyPrefix+":tags"] = data
	}

	for _, key := range []string{a.KeyPrefix + ":matrix", a.KeyPrefix + ":catalog", a.KeyPrefix + ":tags"} {
		if _, ok := kvs[key]; !ok {
			if err := a.store.Delete(ctx, key); err != nil && !core.IsStoreNotFound(err) {
				return fmt.Errorf("delete stale key %s: %w", key, err)
			}
		}
	}
	if a.TTL > 0 {
		return a.store.BatchSet(ctx, kvs, a.TTL)
	}
	return a.store.BatchSet(ctx, kvs)
}

// Load 从存储装载快照。三个键都缺失时返回 DATA_UNAVAILABLE；
// 单个键缺失只让对应字段保持 nil（与构建期的降级语义一致）。
func (a *StoreSnapshotAdapter) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{BuiltAt: time.Now()}
	found := 0

	if data, err := a.store.Get(ctx, a.KeyPrefix+":matrix"); err == nil {
		var rows map[string]Vector
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("unmarshal matrix: %w", err)
		}
		snap.Matrix = NewMatrixFromRows(rows)
		found++
	} else if !core.IsStoreNotFound(err) {
		return nil, err
	}

	if data, err := a.store.Get(ctx, a.KeyPrefix+":catalog"); err == nil {
		var records []ItemRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("unmarshal catalog: %w", err)
		}
		if catalog, err := BuildCatalog(records); err == nil {
			snap.Catalog = catalog
		}
		found++
	} else if !core.IsStoreNotFound(err) {
		return nil, err
	}

	if data, err := a.store.Get(ctx, a.KeyPrefix+":tags"); err == nil {
		var st storedTags
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		snap.Tags = &TagIndex{vectors: st.Vectors, tags: st.Tags}
		found++
	} else if !core.IsStoreNotFound(err) {
		return nil, err
	}

	if found == 0 {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeDataUnavailable, "dataset: no snapshot in store")
	}
	return snap, nil
}
