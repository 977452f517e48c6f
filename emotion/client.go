package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/playrec/core"
)

// Classifier 是情绪识别服务的抽象接口。
type Classifier interface {
	// Classify 对输入（例如 base64 编码的人脸图像）做情绪识别。
	// 服务不可达、超时或响应非法时返回 UNAVAILABLE 类错误。
	Classify(ctx context.Context, payload string) (Label, error)
}

// HTTPClassifier 通过 HTTP 调用外部情绪识别服务。
// 请求格式（JSON）：
//
//	{"image": "<base64>"}
//
// 响应格式（JSON）：
//
//	{"emotion": "happy"}
//
// 内置熔断器：连续失败超过阈值后直接快速失败，
// 避免每个推荐请求都等满超时时间。
type HTTPClassifier struct {
	Endpoint string // 例如 "http://localhost:5000/emotion"
	Timeout  time.Duration
	Client   *http.Client

	breaker *gobreaker.CircuitBreaker[Label]
}

// NewHTTPClassifier 创建一个带熔断的情绪识别客户端。
func NewHTTPClassifier(endpoint string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPClassifier{
		Endpoint: endpoint,
		Timeout:  timeout,
		Client:   &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[Label](gobreaker.Settings{
			Name:        "emotion-api",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (c *HTTPClassifier) Classify(ctx context.Context, payload string) (Label, error) {
	if c.Endpoint == "" {
		return Neutral, core.NewDomainError(core.ModuleEmotion, core.ErrorCodeUnavailable, "emotion: endpoint not configured")
	}

	label, err := c.breaker.Execute(func() (Label, error) {
		return c.classify(ctx, payload)
	})
	if err != nil {
		if core.GetDomainError(err) != nil {
			return Neutral, err
		}
		// 熔断器打开等非领域错误统一归为 UNAVAILABLE
		return Neutral, core.NewDomainError(core.ModuleEmotion, core.ErrorCodeUnavailable,
			fmt.Sprintf("emotion: %v", err))
	}
	return label, nil
}

func (c *HTTPClassifier) classify(ctx context.Context, payload string) (Label, error) {
	reqBody, err := json.Marshal(map[string]string{"image": payload})
	if err != nil {
		return Neutral, core.NewDomainError(core.ModuleEmotion, core.ErrorCodeInvalidInput,
			fmt.Sprintf("emotion: marshal request: %v", err))
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return Neutral, core.NewDomainError(core.ModuleEmotion, core.ErrorCodeInternalError,
			fmt.Sprintf("emotion: create request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: c.Timeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Neutral, core.NewDomainError(core.ModuleEmotion, core.ErrorCodeUnavailable,
			fmt.Sprintf("emotion: call service: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Neutral, core.NewDomainError(core.ModuleEmotion, core.ErrorCodeUnavailable,
			fmt.Sprintf("emotion: status=%d body=%s", resp.StatusCode, string(body)))
	}

	var result struct {
		Emotion string `json:"emotion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Neutral, core.NewDomainError(core.ModuleEmotion, core.ErrorCodeUnavailable,
			fmt.Sprintf("emotion: decode response: %v", err))
	}

	return ParseLabel(result.Emotion), nil
}

// Detect 是容错封装：识别失败时回退到 Neutral，不把错误往上抛。
// 推荐主链路永远不应因为情绪服务故障而失败。
func Detect(ctx context.Context, c Classifier, payload string) Label {
	if c == nil || payload == "" {
		return Neutral
	}
	label, err := c.Classify(ctx, payload)
	if err != nil {
		return Neutral
	}
	return label
}
