package dataset

import "github.com/rushteam/playrec/core"

// Catalog 是物品目录：id → 元信息（标题、标签文本、发行日期）的只读索引。
// 进程生命周期内不可变。
type Catalog struct {
	items map[string]ItemRecord
	ids   []string
}

// ErrCatalogUnavailable 表示物品目录缺失或为空。
var ErrCatalogUnavailable = core.NewDomainError(core.ModuleDataset, core.ErrorCodeDataUnavailable, "dataset: item catalog missing or empty")

// BuildCatalog 从归一化物品记录构建目录。
// 空 ID 的记录被跳过；同一 ID 出现多次时保留第一条（确定性）。
// 没有任何有效记录时返回 ErrCatalogUnavailable。
func BuildCatalog(records []ItemRecord) (*Catalog, error) {
	items := make(map[string]ItemRecord, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r.ItemID == "" {
			continue
		}
		if _, ok := items[r.ItemID]; ok {
			continue
		}
		items[r.ItemID] = r
		ids = append(ids, r.ItemID)
	}
	if len(items) == 0 {
		return nil, ErrCatalogUnavailable
	}
	return &Catalog{items: items, ids: ids}, nil
}

// Has 判断物品是否在目录中。
func (c *Catalog) Has(itemID string) bool {
	if c == nil {
		return false
	}
	_, ok := c.items[itemID]
	return ok
}

// Get 读取一条物品记录。
func (c *Catalog) Get(itemID string) (ItemRecord, bool) {
	if c == nil {
		return ItemRecord{}, false
	}
	r, ok := c.items[itemID]
	return r, ok
}

// Title 返回物品标题，未知物品返回空串。
func (c *Catalog) Title(itemID string) string {
	r, _ := c.Get(itemID)
	return r.Title
}

// Tags 返回物品的原始标签文本，未知物品返回空串。
func (c *Catalog) Tags(itemID string) string {
	r, _ := c.Get(itemID)
	return r.Tags
}

// IDs 返回全部物品 ID（入库顺序，只读）。
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	return c.ids
}

// Len 返回目录中的物品数。
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Records 按入库顺序导出全部物品记录（用于快照持久化）。
func (c *Catalog) Records() []ItemRecord {
	if c == nil {
		return nil
	}
	out := make([]ItemRecord, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.items[id])
	}
	return out
}
