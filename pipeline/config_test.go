package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rushteam/playrec/core"
)

type staticNode struct {
	name string
	ids  []string
}

func (n *staticNode) Name() string { return n.name }
func (n *staticNode) Kind() Kind   { return KindRecall }

func (n *staticNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	for _, id := range n.ids {
		items = append(items, core.NewItem(id))
	}
	return items, nil
}

func TestLoadFromYAMLAndBuild(t *testing.T) {
	yaml := `
pipeline:
  name: test-flow
  nodes:
    - type: static
      config:
        ids: ["g1", "g2"]
`
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("解析 YAML 失败: %v", err)
	}
	if cfg.Pipeline.Name != "test-flow" || len(cfg.Pipeline.Nodes) != 1 {
		t.Fatalf("配置解析结果异常: %+v", cfg.Pipeline)
	}

	factory := NewNodeFactory()
	factory.Register("static", func(nc map[string]interface{}) (Node, error) {
		ids := make([]string, 0)
		if raw, ok := nc["ids"].([]interface{}); ok {
			for _, v := range raw {
				if s, ok := v.(string); ok {
					ids = append(ids, s)
				}
			}
		}
		return &staticNode{name: "static", ids: ids}, nil
	})

	p, err := cfg.BuildPipeline(factory)
	if err != nil {
		t.Fatalf("构建 Pipeline 失败: %v", err)
	}
	if p.Name != "test-flow" {
		t.Errorf("Pipeline.Name = %q", p.Name)
	}

	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != "g1" {
		t.Errorf("Pipeline 运行结果 = %+v", items)
	}
}

func TestBuildPipelineUnknownType(t *testing.T) {
	cfg := &Config{}
	cfg.Pipeline.Nodes = []NodeConfig{{Type: "no.such.node"}}

	if _, err := cfg.BuildPipeline(NewNodeFactory()); err == nil {
		t.Fatal("未注册的 Node 类型应报错")
	}
}
