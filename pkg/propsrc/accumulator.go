package propsrc

// localSource 单次物化运行内按名称聚合的属性层。
//
// 仅在一次运行的生命周期内存在，产出 [PropertySource] 后即丢弃。
type localSource struct {
	name        string
	appSpecific bool
	environment string // 空串表示无环境限定
	values      map[string]any
}

func (s *localSource) put(key string, value any) {
	s.values[key] = value
}

func (s *localSource) putAll(values map[string]any) {
	for key, value := range values {
		s.values[key] = value
	}
}

// accumulator 属性源名称到属性层的可变映射，后写覆盖先写。
type accumulator struct {
	sources map[string]*localSource
	order   []string // 首次引用顺序，保证产出可复现
}

func newAccumulator() *accumulator {
	return &accumulator{sources: make(map[string]*localSource)}
}

// getOrCreate 返回指定名称的属性层，首次引用时创建空层。
//
// appSpecific 与 environment 仅在创建时生效，后续引用沿用首次分类。
func (a *accumulator) getOrCreate(name string, appSpecific bool, environment string) *localSource {
	if src, ok := a.sources[name]; ok {
		return src
	}

	src := &localSource{
		name:        name,
		appSpecific: appSpecific,
		environment: environment,
		values:      make(map[string]any),
	}
	a.sources[name] = src
	a.order = append(a.order, name)

	return src
}

// all 按首次引用顺序返回全部属性层。
func (a *accumulator) all() []*localSource {
	out := make([]*localSource, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.sources[name])
	}

	return out
}
