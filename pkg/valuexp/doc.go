// Package valuexp 对解码后的配置属性值执行 Shell 参数展开。
//
// 远程存储的配置值中常引用部署环境的变量（如 ${DB_HOST:-localhost}），
// 本包在物化阶段对字符串属性做轻量替换。仅处理 ${...} 语法，
// 不执行命令、不引入模板引擎。
//
// # 语义说明
//
//  1. 仅做字符串层面的替换（不解析 $VAR）
//  2. 支持嵌套展开与 "$$" 字面量
//  3. ":=" 赋值仅作用于当前 [Expander] 的环境快照
//  4. 无法识别的表达式保持原样
//
// # 快速开始
//
//	exp := valuexp.New()
//	props, err := exp.ExpandProperties(map[string]any{
//	    "db.host": "${DB_HOST:-localhost}",
//	})
//
// 详见 [Expander.ExpandProperties] 文档。
package valuexp
