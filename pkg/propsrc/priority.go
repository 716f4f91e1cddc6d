package propsrc

import "slices"

// 优先级基准：公共配置 100，应用专属配置再加 50。
// 带环境后缀的源按环境在激活列表中的位置加 (index+1)*2，无后缀加 1，
// 保证环境限定源始终压过同类的无限定源。
const (
	basePriority      = 100
	appSpecificOffset = 50
)

// assignPriority 计算属性层的合并优先级，纯函数。
func assignPriority(src *localSource, activeEnvs []string) int {
	priority := basePriority
	if src.appSpecific {
		priority += appSpecificOffset
	}

	if src.environment != "" {
		priority += (slices.Index(activeEnvs, src.environment) + 1) * 2
	} else {
		priority++
	}

	return priority
}
