package propsrc

import "sync"

// Decoder 按格式解码一份配置文档为属性映射。
//
// 实现者按扩展名或格式名注册到 [Registry]；Decode 接收原始字节，
// 返回扁平化（点分路径）的属性映射。
type Decoder interface {
	Decode(sourceName string, data []byte) (map[string]any, error)
	Enabled() bool
	Extensions() []string
}

// Registry 格式到解码器的注册表。
//
// 内置 JSON / YAML / properties 解码器按需惰性构建并缓存；
// 消费者通过 [Registry.Register] 预注册的解码器优先，且不会被覆盖。
// 并发安全。
type Registry struct {
	mu       sync.Mutex
	decoders map[string]Decoder
	strict   bool
}

// NewRegistry 创建带内置解码器回退的注册表。
func NewRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder)}
}

// NewStrictRegistry 创建无内置回退的注册表，所有格式必须显式注册。
func NewStrictRegistry() *Registry {
	return &Registry{decoders: make(map[string]Decoder), strict: true}
}

// Register 按解码器声明的全部扩展名注册，已占用的扩展名保持原解码器。
func (r *Registry) Register(dec Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range dec.Extensions() {
		if _, ok := r.decoders[ext]; !ok {
			r.decoders[ext] = dec
		}
	}
}

// Resolve 按格式名或扩展名查找解码器。
//
// 未注册时尝试构建内置解码器并缓存；非内置格式返回包装了
// [ErrUnsupportedFormat] 的 [SourceError]。
func (r *Registry) Resolve(format string) (Decoder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if dec, ok := r.decoders[format]; ok {
		return dec, nil
	}
	if r.strict {
		return nil, newSourceError("no decoder registered for format ["+format+"]", ErrUnsupportedFormat)
	}

	dec, err := builtinDecoder(format)
	if err != nil {
		return nil, err
	}
	for _, ext := range dec.Extensions() {
		if _, ok := r.decoders[ext]; !ok {
			r.decoders[ext] = dec
		}
	}

	return dec, nil
}

func builtinDecoder(format string) (Decoder, error) {
	switch format {
	case "json":
		return &JSONDecoder{}, nil
	case "yml", "yaml":
		return &YAMLDecoder{}, nil
	case "properties":
		return &PropertiesDecoder{}, nil
	default:
		return nil, newSourceError("no decoder for format ["+format+"]", ErrUnsupportedFormat)
	}
}
