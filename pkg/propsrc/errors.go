package propsrc

import "errors"

// ErrNotFound 远程存储中不存在指定前缀。
//
// [KVReader] 实现通过返回（或包装）该错误来区分"未找到"与其他传输错误，
// 物化过程会将其恢复为空结果而非失败。
var ErrNotFound = errors.New("propsrc: path not found")

// ErrUnsupportedFormat 请求的格式既非内置也未被注册。
var ErrUnsupportedFormat = errors.New("propsrc: unsupported properties file format")

// SourceError 物化过程中的致命错误。
//
// 一旦产生，本次运行立即终止，已累积的属性源全部丢弃。
type SourceError struct {
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *SourceError) Unwrap() error { return e.Err }

func newSourceError(message string, err error) *SourceError {
	return &SourceError{Message: message, Err: err}
}
