package dataset

import (
	"testing"

	"github.com/rushteam/playrec/core"
)

func TestBuildCatalog(t *testing.T) {
	records := []ItemRecord{
		{ItemID: "g1", Title: "First", Tags: "Action"},
		{ItemID: "", Title: "NoID"},
		{ItemID: "g2", Title: "Second"},
		{ItemID: "g1", Title: "Duplicate"}, // 重复 ID，应保留第一条
	}

	catalog, err := BuildCatalog(records)
	if err != nil {
		t.Fatalf("构建目录失败: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("期望 2 个物品，实际 %d", catalog.Len())
	}
	if catalog.Title("g1") != "First" {
		t.Errorf("重复 ID 应保留第一条，实际 Title=%q", catalog.Title("g1"))
	}
	if catalog.Has("") {
		t.Error("空 ID 记录不应入库")
	}

	ids := catalog.IDs()
	if len(ids) != 2 || ids[0] != "g1" || ids[1] != "g2" {
		t.Errorf("IDs 应保持入库顺序，实际 %v", ids)
	}
}

func TestBuildCatalogEmpty(t *testing.T) {
	for _, records := range [][]ItemRecord{nil, {{ItemID: ""}}} {
		_, err := BuildCatalog(records)
		if err == nil {
			t.Fatal("空目录应返回错误")
		}
		if !core.IsDataUnavailable(err) {
			t.Errorf("期望 DATA_UNAVAILABLE，实际 %v", err)
		}
	}
}
