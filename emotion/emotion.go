package emotion

import "strings"

// Label 是归一化后的情绪标签。
type Label string

const (
	Happy    Label = "happy"
	Sad      Label = "sad"
	Angry    Label = "angry"
	Neutral  Label = "neutral"
	Surprise Label = "surprise"
	Fear     Label = "fear"
	Disgust  Label = "disgust"
)

// ParseLabel 把外部服务返回的文本归一化为 Label。
// 大小写不敏感；未知值归到 Neutral（中性不做任何调节，最安全的兜底）。
func ParseLabel(s string) Label {
	switch Label(strings.ToLower(strings.TrimSpace(s))) {
	case Happy:
		return Happy
	case Sad:
		return Sad
	case Angry:
		return Angry
	case Surprise:
		return Surprise
	case Fear:
		return Fear
	case Disgust:
		return Disgust
	default:
		return Neutral
	}
}

// TagMap 是情绪到偏好标签集合的映射。
type TagMap map[Label][]string

// DefaultTagMap 是默认的情绪-标签映射。
// Neutral 不在表里：中性情绪直接透传，不做重排。
func DefaultTagMap() TagMap {
	return TagMap{
		Happy:    {"Adventure", "Casual", "Indie", "Racing", "Sports", "Open World"},
		Sad:      {"Atmospheric", "Story Rich", "RPG", "Drama", "Visual Novel"},
		Angry:    {"Action", "FPS", "Fighting", "Shooter", "Survival", "War"},
		Surprise: {"Sci-fi", "Mystery", "Cyberpunk", "Space", "Futuristic"},
		Fear:     {"Horror", "Survival Horror", "Psychological Horror", "Zombies"},
		Disgust:  {"Gore", "Horror", "Dark"},
	}
}
