package emotion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rushteam/playrec/core"
)

func TestHTTPClassifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"emotion": "Happy"}`))
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second)
	label, err := c.Classify(context.Background(), "ZmFjZQ==")
	if err != nil {
		t.Fatalf("识别失败: %v", err)
	}
	if label != Happy {
		t.Errorf("label = %s, 期望 happy（响应值应归一化）", label)
	}
}

func TestHTTPClassifierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second)
	label, err := c.Classify(context.Background(), "ZmFjZQ==")
	if err == nil {
		t.Fatal("非 200 响应应报错")
	}
	if !core.IsUnavailable(err) {
		t.Errorf("期望 UNAVAILABLE，实际 %v", err)
	}
	if label != Neutral {
		t.Errorf("失败时 label 应为 neutral，实际 %s", label)
	}
}

func TestHTTPClassifierMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second)
	if _, err := c.Classify(context.Background(), "ZmFjZQ=="); !core.IsUnavailable(err) {
		t.Errorf("非法响应期望 UNAVAILABLE，实际 %v", err)
	}
}

func TestHTTPClassifierUnreachable(t *testing.T) {
	// 未监听的端口：连接错误归为 UNAVAILABLE
	c := NewHTTPClassifier("http://127.0.0.1:1", 200*time.Millisecond)
	label, err := c.Classify(context.Background(), "ZmFjZQ==")
	if !core.IsUnavailable(err) {
		t.Errorf("期望 UNAVAILABLE，实际 %v", err)
	}
	if label != Neutral {
		t.Errorf("失败时 label 应为 neutral，实际 %s", label)
	}
}

func TestDetect(t *testing.T) {
	// nil 客户端 / 空输入：直接中性
	if got := Detect(context.Background(), nil, "payload"); got != Neutral {
		t.Errorf("nil 客户端应返回 neutral，实际 %s", got)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"emotion": "sad"}`))
	}))
	defer srv.Close()
	c := NewHTTPClassifier(srv.URL, time.Second)

	if got := Detect(context.Background(), c, ""); got != Neutral {
		t.Errorf("空输入应跳过识别，实际 %s", got)
	}
	if got := Detect(context.Background(), c, "ZmFjZQ=="); got != Sad {
		t.Errorf("Detect = %s, 期望 sad", got)
	}

	// 服务故障：回退中性而不是报错
	bad := NewHTTPClassifier("http://127.0.0.1:1", 200*time.Millisecond)
	if got := Detect(context.Background(), bad, "ZmFjZQ=="); got != Neutral {
		t.Errorf("故障回退 = %s, 期望 neutral", got)
	}
}
