// Package propsrc 将远程 KV 存储中的扁平键值对物化为带优先级的属性源。
//
// 远程存储以 "/" 分隔的路径组织配置，支持多种存储约定（整文件、逐键、
// 单文档 JSON/YAML/properties）。本包负责读取公共前缀与应用专属前缀下的
// 全部条目，按约定解码并按属性源名称聚合，最终产出可供外部合并引擎
// 按优先级叠加的 [PropertySource] 序列。
//
// # 存储约定
//
//   - [FormatFile] - 每个键是一个完整的配置文件（application.yaml 等），
//     按扩展名选择解码器，未注册的扩展名静默跳过
//   - [FormatNative] - 每个键是一条属性，键路径的第一段为属性源名称，
//     叶子段为属性名，值为字面字符串
//   - [FormatJSON] / [FormatYAML] / [FormatProperties] - 前缀的每个直接
//     子键持有一份完整的序列化文档，按固定格式解码，缺少解码器为致命错误
//
// # 属性源命名
//
// 名称形如 application、application[test]、myapp、myapp[cloud]，环境后缀
// 仅在其出现于激活环境列表时生效。最终输出名称带服务前缀（默认 "consul-"）。
//
// # 优先级
//
// 公共配置基准为 100，应用专属配置再加 50；带环境后缀的源按环境在激活
// 列表中的位置再加 (index+1)*2，无后缀加 1。数值越大，合并时覆盖越强。
//
// # 快速开始
//
//	m := propsrc.NewMaterializer(reader)
//	for src, err := range m.PropertySources(ctx, propsrc.Request{
//	    Enabled:      true,
//	    Path:         "config/",
//	    Format:       propsrc.FormatYAML,
//	    Application:  "myapp",
//	    Environments: []string{"test"},
//	}) {
//	    if err != nil {
//	        return err
//	    }
//	    merge(src)
//	}
package propsrc
