package propsrc

import (
	"cmp"
	"context"
	"errors"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lwmacct/260825-go-pkg-consulsrc/pkg/valuexp"
)

// Materializer 将远程 KV 条目物化为带优先级的属性源序列。
//
// 实例自身无每次运行的状态，可被并发复用；解码器缓存由 [Registry] 保证
// 并发安全。每次调用都会重新读取远程存储，不做跨调用缓存。
type Materializer struct {
	reader       KVReader
	registry     *Registry
	sourcePrefix string
	expandValues bool
}

// NewMaterializer 创建物化器。
func NewMaterializer(reader KVReader, opts ...Option) *Materializer {
	m := &Materializer{
		reader:       reader,
		registry:     NewRegistry(),
		sourcePrefix: DefaultSourcePrefix,
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// runState 单次物化运行的上下文，随运行结束丢弃。
type runState struct {
	path         string
	commonPrefix string
	appPrefix    string // 空串表示无应用专属配置
	application  string
	format       Format
	envs         []string
	matcher      applicationMatcher
	acc          *accumulator
	expander     *valuexp.Expander // nil 表示不展开
}

// PropertySources 执行一次物化，返回属性源的惰性序列。
//
// 全部远程读取与聚合在首次拉取时进行：公共前缀与应用专属前缀并发读取，
// 两者都完成后才开始归类聚合。前缀不存在恢复为空结果；其他读取失败或
// 致命解码错误以单个 [SourceError] 产出并终止序列，此时不产出任何属性源。
// 消费方中断迭代即取消后续产出，ctx 取消会中断仍在进行的远程读取。
//
// 产出按 (Priority, Name) 升序排列，相同输入的多次运行结果一致。
func (m *Materializer) PropertySources(ctx context.Context, req Request) iter.Seq2[*PropertySource, error] {
	return func(yield func(*PropertySource, error) bool) {
		if !req.Enabled {
			return
		}

		matcher, err := newApplicationMatcher(req.Application)
		if err != nil {
			yield(nil, err)

			return
		}

		path := req.Path
		if path == "" {
			path = DefaultPath
		}
		if !strings.HasSuffix(path, "/") {
			path += "/"
		}

		run := &runState{
			path:         path,
			commonPrefix: path + CommonName,
			application:  req.Application,
			format:       req.Format,
			envs:         req.Environments,
			matcher:      matcher,
			acc:          newAccumulator(),
		}
		if req.Application != "" {
			run.appPrefix = path + req.Application
		}
		if m.expandValues {
			run.expander = valuexp.New()
		}

		entries, err := m.readAll(ctx, run, req.Datacenter)
		if err != nil {
			yield(nil, err)

			return
		}
		if len(entries) == 0 {
			return
		}

		for _, entry := range entries {
			if entry.IsFolder() {
				continue
			}
			isCommon := strings.HasPrefix(entry.Key, run.commonPrefix)
			isApp := run.appPrefix != "" && strings.HasPrefix(entry.Key, run.appPrefix)
			if !isCommon && !isApp {
				slog.Debug("Skipping entry outside config prefixes", "key", entry.Key)

				continue
			}

			if err := m.processEntry(run, entry, isCommon, isApp); err != nil {
				yield(nil, err)

				return
			}
		}

		for _, src := range m.finish(run) {
			if !yield(src, nil) {
				return
			}
		}
	}
}

// Collect 执行一次物化并收集全部属性源，遇到错误立即返回。
func (m *Materializer) Collect(ctx context.Context, req Request) ([]*PropertySource, error) {
	var out []*PropertySource
	for src, err := range m.PropertySources(ctx, req) {
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}

	return out, nil
}

// readAll 并发读取公共前缀与应用专属前缀，两者都完成后合并。
//
// 任一前缀的硬性失败会取消另一前缀的读取并使整体失败。
func (m *Materializer) readAll(ctx context.Context, run *runState, datacenter string) ([]Entry, error) {
	var common, appSpecific []Entry

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		entries, err := m.read(gctx, run.commonPrefix, datacenter)
		if err != nil {
			return err
		}
		common = entries

		return nil
	})
	if run.appPrefix != "" {
		group.Go(func() error {
			entries, err := m.read(gctx, run.appPrefix, datacenter)
			if err != nil {
				return err
			}
			appSpecific = entries

			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return append(common, appSpecific...), nil
}

// read 读取单个前缀，"未找到"恢复为空结果，其余错误包装为 SourceError。
func (m *Materializer) read(ctx context.Context, prefix, datacenter string) ([]Entry, error) {
	entries, err := m.reader.ReadEntries(ctx, prefix, datacenter)
	if errors.Is(err, ErrNotFound) {
		slog.Debug("No configuration found under prefix", "prefix", prefix)

		return nil, nil
	}
	if err != nil {
		return nil, newSourceError("error reading distributed configuration under ["+prefix+"]", err)
	}

	return entries, nil
}

func (m *Materializer) processEntry(run *runState, entry Entry, isCommon, isApp bool) error {
	switch run.format {
	case FormatFile:
		return m.processFile(run, entry, isApp)
	case FormatNative:
		return m.processNative(run, entry, isCommon, isApp)
	case FormatJSON, FormatYAML, FormatProperties:
		return m.processDocument(run, entry, isApp)
	default:
		return newSourceError("unknown storage format ["+string(run.format)+"]", ErrUnsupportedFormat)
	}
}

// processFile FILE 约定：键为 <fileName>.<extension>，按扩展名解码。
//
// 未注册的扩展名静默跳过（同一路径下可能存放无关文件），
// 解码失败为致命错误。
func (m *Materializer) processFile(run *runState, entry Entry, isApp bool) error {
	fileName := entry.Key[len(run.path):]
	dot := strings.LastIndexByte(fileName, '.')
	if dot < 0 {
		return nil
	}
	ext := fileName[dot+1:]
	base := fileName[:dot]

	dec, err := m.registry.Resolve(ext)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			slog.Debug("No decoder for file extension, skipping", "key", entry.Key, "extension", ext)

			return nil
		}

		return err
	}

	name := resolveFileSourceName(CommonName, base, run.envs)
	if name == "" && run.application != "" {
		name = resolveFileSourceName(run.application, base, run.envs)
	}
	if name == "" || !run.matcher(name) {
		return nil
	}

	props, err := dec.Decode(name, entry.Value)
	if err != nil {
		return newSourceError("error reading configuration file ["+fileName+"]", err)
	}
	props, err = run.expandProps(props)
	if err != nil {
		return err
	}

	env := resolveEnvironment(base, run.envs)
	run.acc.getOrCreate(name, isApp, env).putAll(props)

	return nil
}

// processNative NATIVE 约定：键路径的第一段为属性源名称，叶子段为属性名。
//
// 归属不明的键（无更深层级或嵌套超过一层）静默跳过。
func (m *Materializer) processNative(run *runState, entry Entry, isCommon, isApp bool) error {
	prefix := run.commonPrefix
	if !isCommon {
		prefix = run.appPrefix
	}

	property := resolveNativeProperty(prefix, entry.Key)
	names := resolveNativeSourceNames(run.path, entry.Key, run.envs)
	if property == "" || len(names) == 0 {
		slog.Debug("Skipping native entry with ambiguous placement", "key", entry.Key)

		return nil
	}

	value := string(entry.Value)
	if run.expander != nil {
		expanded, err := run.expander.ExpandString(value)
		if err != nil {
			return newSourceError("error expanding configuration value ["+entry.Key+"]", err)
		}
		value = expanded
	}

	for _, name := range names {
		if !run.matcher(name) {
			continue
		}
		env := resolveEnvironment(name, run.envs)
		run.acc.getOrCreate(name, isApp, env).put(property, value)
	}

	return nil
}

// processDocument JSON/YAML/PROPERTIES 约定：前缀的每个直接子键为一份文档。
//
// 配置的格式是本次运行的契约，缺少解码器为致命错误；
// 解码器自报禁用时跳过该文档。
func (m *Materializer) processDocument(run *runState, entry Entry, isApp bool) error {
	fullName := entry.Key[len(run.path):]
	if strings.Contains(fullName, "/") {
		return nil
	}

	dec, err := m.registry.Resolve(string(run.format))
	if err != nil {
		return err
	}
	if !dec.Enabled() {
		return nil
	}

	props, err := dec.Decode(fullName, entry.Value)
	if err != nil {
		return newSourceError("error reading configuration document ["+fullName+"]", err)
	}
	props, err = run.expandProps(props)
	if err != nil {
		return err
	}

	for _, name := range calcSourceNames(fullName, run.envs, ",") {
		if !run.matcher(name) {
			continue
		}
		env := resolveEnvironment(name, run.envs)
		run.acc.getOrCreate(name, isApp, env).putAll(props)
	}

	return nil
}

// finish 为累积的属性层计算优先级并按 (Priority, Name) 排序产出。
func (m *Materializer) finish(run *runState) []*PropertySource {
	sources := run.acc.all()
	out := make([]*PropertySource, 0, len(sources))
	for _, src := range sources {
		out = append(out, &PropertySource{
			Name:     m.sourcePrefix + "-" + src.name,
			Values:   src.values,
			Priority: assignPriority(src, run.envs),
		})
	}
	slices.SortFunc(out, func(a, b *PropertySource) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

func (run *runState) expandProps(props map[string]any) (map[string]any, error) {
	if run.expander == nil {
		return props, nil
	}

	out, err := run.expander.ExpandProperties(props)
	if err != nil {
		return nil, newSourceError("error expanding configuration values", err)
	}

	return out, nil
}
