package service

// Status 标识一次推荐响应的健康状态。
type Status string

const (
	// StatusOK 全量链路正常。
	StatusOK Status = "ok"

	// StatusDegraded 部分数据/引擎不可用，结果来自降级链路。
	StatusDegraded Status = "degraded"

	// StatusColdUser 解析后的用户不在交互矩阵中，协同侧无法工作。
	// 结果（若有）来自内容画像或热门兜底。
	StatusColdUser Status = "cold_user"

	// StatusUnavailable 没有任何可用数据，无法产出推荐。
	StatusUnavailable Status = "unavailable"
)

// ResponseItem 是对外返回的单个推荐条目。
type ResponseItem struct {
	ItemID string  `json:"item_id"`
	Title  string  `json:"title"`
	Tags   string  `json:"tags"`
	Score  float64 `json:"score"`
}

// Response 是一次推荐请求的完整结果。
type Response struct {
	Items []ResponseItem `json:"items"`

	// Emotion 本次请求实际采用的情绪标签（识别失败时为 neutral）。
	Emotion string `json:"emotion"`

	// Status 响应健康状态。
	Status Status `json:"status"`
}
