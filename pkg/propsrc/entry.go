package propsrc

import (
	"context"
	"strings"
)

// DefaultPath 默认的远程配置根路径。
const DefaultPath = "config/"

// CommonName 公共配置的根名称，所有应用共享。
const CommonName = "application"

// DefaultSourcePrefix 输出属性源名称的默认服务前缀。
const DefaultSourcePrefix = "consul"

// Format 远程键空间的存储约定。
type Format string

const (
	// FormatFile 每个键为一个完整配置文件，按扩展名解码。
	FormatFile Format = "file"
	// FormatNative 每个键为一条属性。
	FormatNative Format = "native"
	// FormatJSON 每个直接子键为一份 JSON 文档。
	FormatJSON Format = "json"
	// FormatYAML 每个直接子键为一份 YAML 文档。
	FormatYAML Format = "yaml"
	// FormatProperties 每个直接子键为一份 properties 文档。
	FormatProperties Format = "properties"
)

// Entry 远程 KV 存储中的一条键值记录。
//
// Key 为 "/" 分隔的完整路径；Value 为原始字节，传输层已完成统一的
// base64 解码。Key 以 "/" 结尾且 Value 为 nil 时表示目录占位符。
type Entry struct {
	Key   string
	Value []byte
}

// IsFolder 判断该条目是否为目录占位符，占位符不参与物化。
func (e Entry) IsFolder() bool {
	return strings.HasSuffix(e.Key, "/") && e.Value == nil
}

// KVReader 远程 KV 存储的读取能力。
//
// 实现约定：
//   - 读取指定前缀下的全部键值对，datacenter 为空时使用存储端默认值
//   - 前缀不存在时返回 [ErrNotFound]（可包装），物化时恢复为空结果
//   - 其他传输错误原样返回，物化时包装为 [SourceError] 并终止本次运行
type KVReader interface {
	ReadEntries(ctx context.Context, prefix, datacenter string) ([]Entry, error)
}

// Request 一次物化请求的全部输入。
//
// Enabled 为 false 时直接产出空序列，不访问远程存储。
// Environments 为当前进程激活的环境名有序列表，用于选择环境限定的覆盖源。
type Request struct {
	Enabled      bool
	Path         string // 远程配置根路径，自动补齐结尾 "/"，空值取 DefaultPath
	Format       Format
	Application  string // 应用标识，空值表示仅读取公共配置
	Datacenter   string
	Environments []string
}

// PropertySource 物化产出的一个属性源（层）。
//
// Name 带服务前缀；Priority 越大在后续合并中覆盖越强。
type PropertySource struct {
	Name     string
	Values   map[string]any
	Priority int
}
