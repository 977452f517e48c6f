package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - dataset 错误：DATA_UNAVAILABLE, MALFORMED_RECORD
//   - store 错误：NOT_FOUND, NOT_SUPPORTED
//   - 外部服务错误：UNAVAILABLE（情绪识别服务不可达）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "DATA_UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "dataset", "emotion"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在（冷用户/冷物品也归于此类）
	ErrorCodeNotSupported    = "NOT_SUPPORTED"    // 操作不支持
	ErrorCodeUnavailable     = "UNAVAILABLE"      // 外部服务不可用
	ErrorCodeDataUnavailable = "DATA_UNAVAILABLE" // 启动期数据集缺失/为空
	ErrorCodeMalformedRecord = "MALFORMED_RECORD" // 单条记录解析失败（跳过并计数）
	ErrorCodeInvalidInput    = "INVALID_INPUT"    // 输入无效
	ErrorCodeInternalError   = "INTERNAL_ERROR"   // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleDataset = "dataset" // 数据集模块（矩阵/标签索引）
	ModuleRecall  = "recall"  // 召回模块
	ModuleEmotion = "emotion" // 情绪识别模块
	ModuleService = "service" // 服务模块
)

// hasCode 检查错误是否为指定代码的 DomainError
func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsDataUnavailable 检查错误是否为 DATA_UNAVAILABLE。
// 该错误只在启动装载期出现：对应引擎进入降级（不可用）状态，进程不退出。
func IsDataUnavailable(err error) bool {
	return hasCode(err, ErrorCodeDataUnavailable)
}

// IsMalformedRecord 检查错误是否为 MALFORMED_RECORD
func IsMalformedRecord(err error) bool {
	return hasCode(err, ErrorCodeMalformedRecord)
}
