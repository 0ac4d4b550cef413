package core

import (
	"errors"
	"fmt"
)

// DomainError 是领域层的统一错误类型。
//
// 错误分类：
//   - INVALID_INPUT：排名/评分字段非数字、越界、缺少必需列，整次运行中止
//   - MISSING_PRECONDITION：用户没有有效评分、融合排名为空，在打分之前返回
//   - NOT_FOUND / UNAVAILABLE：存储未命中、外部服务不可用，只在协作方内部出现
//
// 缺失类型标签、画像中没有的类型不是错误，由排序阶段的兜底规则处理。
type DomainError struct {
	Code    string // 错误代码（如 "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "fusion", "recordio"）
	Err     error  // 底层错误，可为空
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetDomainError 获取错误链上的 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsDomainError 检查错误链上是否有 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// InvalidInput 创建 INVALID_INPUT 错误。
func InvalidInput(module string, err error, format string, args ...any) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    ErrorCodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// MissingPrecondition 创建 MISSING_PRECONDITION 错误。
func MissingPrecondition(module string, format string, args ...any) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    ErrorCodeMissingPrecondition,
		Message: fmt.Sprintf(format, args...),
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound            = "NOT_FOUND"            // 资源不存在
	ErrorCodeUnavailable         = "UNAVAILABLE"          // 服务不可用
	ErrorCodeInvalidInput        = "INVALID_INPUT"        // 输入无效
	ErrorCodeMissingPrecondition = "MISSING_PRECONDITION" // 前置条件不满足
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleFusion    = "fusion"
	ModuleProfile   = "profile"
	ModuleRank      = "rank"
	ModuleRecommend = "recommend"
	ModuleRecordIO  = "recordio"
	ModuleMetadata  = "metadata"
	ModuleRatings   = "ratings"
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrorCodeInvalidInput)
}

// IsMissingPrecondition 检查错误是否为 MISSING_PRECONDITION
func IsMissingPrecondition(err error) bool {
	return hasCode(err, ErrorCodeMissingPrecondition)
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}
