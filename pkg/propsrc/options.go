package propsrc

// Option 物化器构造选项。
type Option func(*Materializer)

// WithRegistry 指定解码器注册表，默认为带内置解码器的 [NewRegistry]。
//
// 配合 [NewStrictRegistry] 可要求所有格式显式注册。
func WithRegistry(registry *Registry) Option {
	return func(m *Materializer) {
		m.registry = registry
	}
}

// WithSourcePrefix 指定输出属性源名称的服务前缀，默认 "consul"。
func WithSourcePrefix(prefix string) Option {
	return func(m *Materializer) {
		m.sourcePrefix = prefix
	}
}

// WithValueExpansion 启用属性值的 Shell 参数展开。
//
// 每次物化运行使用一份独立的进程环境变量快照；
// 必填校验（${VAR:?msg}）失败会终止整个运行。
func WithValueExpansion() Option {
	return func(m *Materializer) {
		m.expandValues = true
	}
}
