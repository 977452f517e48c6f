package dataset

import (
	"reflect"
	"testing"

	"github.com/rushteam/playrec/core"
)

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"逗号分隔", "Action, FPS, Multiplayer", []string{"Action", "FPS", "Multiplayer"}},
		{"JSON 列表", `["Action", "Indie"]`, []string{"Action", "Indie"}},
		{"带引号的逗号串", `'Action', "RPG"`, []string{"Action", "RPG"}},
		{"空串", "", nil},
		{"纯空白", "   ", nil},
		{"破损的列表回退逗号切分", `[Action, Indie`, []string{"[Action", "Indie"}},
		{"空项被剔除", "Action,,  ,RPG", []string{"Action", "RPG"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTags(tt.raw)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseTags(%q) = %v, 期望 %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTagIndexBuilder(t *testing.T) {
	catalog, err := BuildCatalog([]ItemRecord{
		{ItemID: "g1", Tags: "Action, FPS"},
		{ItemID: "g2", Tags: "Action, RPG"},
		{ItemID: "g3", Tags: "Action, Indie"},
		{ItemID: "g4", Tags: ""},
	})
	if err != nil {
		t.Fatal(err)
	}

	ix, err := (&TagIndexBuilder{TopK: 2}).Build(catalog)
	if err != nil {
		t.Fatalf("构建标签索引失败: %v", err)
	}

	// 频次：Action=3，其余各 1；TopK=2 时第二个标签按字典序取 FPS
	want := []string{"Action", "FPS"}
	if !reflect.DeepEqual(ix.Tags(), want) {
		t.Errorf("保留标签 = %v, 期望 %v", ix.Tags(), want)
	}

	// 被裁掉的标签从向量消失
	if vec, _ := ix.Vector("g2"); len(vec) != 1 || vec["Action"] != 1 {
		t.Errorf("g2 向量 = %v, 期望只剩 Action", vec)
	}

	// 没有标签的物品保留空向量
	vec, ok := ix.Vector("g4")
	if !ok {
		t.Fatal("无标签物品也应在索引中")
	}
	if len(vec) != 0 {
		t.Errorf("g4 应为空向量，实际 %v", vec)
	}

	if ix.Items() != 4 {
		t.Errorf("索引物品数 = %d, 期望 4", ix.Items())
	}
}

func TestTagIndexBuilderNoTags(t *testing.T) {
	catalog, err := BuildCatalog([]ItemRecord{{ItemID: "g1"}, {ItemID: "g2"}})
	if err != nil {
		t.Fatal(err)
	}
	_, err = (&TagIndexBuilder{}).Build(catalog)
	if !core.IsDataUnavailable(err) {
		t.Errorf("全部物品无标签时期望 DATA_UNAVAILABLE，实际 %v", err)
	}
}

func TestVectorDot(t *testing.T) {
	a := Vector{"x": 2, "y": 3}
	b := Vector{"y": 4, "z": 5}
	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v, 期望 12", got)
	}
	if got := a.Dot(nil); got != 0 {
		t.Errorf("与空向量点积应为 0，实际 %v", got)
	}
}
