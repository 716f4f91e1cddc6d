package propsrc

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// 属性源名称的合法形式：
//   - application / application[envName]
//   - appName / appName[envName]
//
// envName 仅允许字母数字、下划线与连字符。
const matchingApplication = `^(application|%s)(\[[a-zA-Z0-9_-]+])?$`

// applicationMatcher 判断候选属性源名称是否属于当前应用。
//
// 未配置应用标识时不做限制，任何名称都通过。
type applicationMatcher func(name string) bool

func newApplicationMatcher(application string) (applicationMatcher, error) {
	if application == "" {
		return func(string) bool { return true }, nil
	}

	pattern, err := regexp.Compile(fmt.Sprintf(matchingApplication, regexp.QuoteMeta(application)))
	if err != nil {
		return nil, fmt.Errorf("compile application matcher: %w", err)
	}

	return pattern.MatchString, nil
}

// resolveFileSourceName 按文件名解析属性源名称（FILE 约定）。
//
// fileName 等于 rootName 时返回 rootName；等于 rootName-env 且 env 在激活
// 列表中时返回 rootName[env]；其余情况返回空串表示无法解析。
func resolveFileSourceName(rootName, fileName string, activeEnvs []string) string {
	if !strings.HasPrefix(fileName, rootName) {
		return ""
	}

	rest := fileName[len(rootName):]
	if rest == "" {
		return rootName
	}
	if strings.HasPrefix(rest, "-") {
		env := rest[1:]
		if slices.Contains(activeEnvs, env) {
			return rootName + "[" + env + "]"
		}
	}

	return ""
}

// calcSourceNames 将原始名称段展开为全部适用的属性源名称。
//
// 名称段可为逗号分隔的 "name,env1,env2" 形式，展开为 name[env1]、name[env2]；
// 任一环境不在激活列表中时整体失效，返回 nil。不含分隔符时原样返回。
func calcSourceNames(raw string, activeEnvs []string, delimiter string) []string {
	if !strings.Contains(raw, delimiter) {
		return []string{raw}
	}

	tokens := strings.Split(raw, delimiter)
	if len(tokens) == 1 {
		return []string{tokens[0]}
	}

	name := tokens[0]
	names := make([]string, 0, len(tokens)-1)
	for _, env := range tokens[1:] {
		if !slices.Contains(activeEnvs, env) {
			return nil
		}
		names = append(names, name+"["+env+"]")
	}

	return names
}

// resolveEnvironment 识别名称中的环境后缀。
//
// 先匹配 name[env] 形式，再匹配 name-env 形式；env 不在激活列表中时
// 视为无后缀，返回空串。
func resolveEnvironment(name string, activeEnvs []string) string {
	if i := strings.IndexByte(name, '['); i >= 0 && strings.HasSuffix(name, "]") {
		if env := name[i+1 : len(name)-1]; slices.Contains(activeEnvs, env) {
			return env
		}

		return ""
	}

	if i := strings.IndexByte(name, '-'); i >= 0 {
		if env := name[i+1:]; slices.Contains(activeEnvs, env) {
			return env
		}
	}

	return ""
}

// resolveNativeSourceNames 解析 NATIVE 约定键的属性源名称集合。
//
// 取根路径后的第一个路径段做逗号与环境展开；键在根路径后没有更深层级
// 时无法确定归属，返回 nil。
func resolveNativeSourceNames(basePath, key string, activeEnvs []string) []string {
	rest := key[len(basePath):]
	i := strings.IndexByte(rest, '/')
	if i < 0 {
		return nil
	}

	return calcSourceNames(rest[:i], activeEnvs, ",")
}

// resolveNativeProperty 解析 NATIVE 约定键的属性名。
//
// 取前缀之后的叶子段；归一化后仍含路径分隔符（嵌套超过一层）时视为
// 归属不明，返回空串跳过。
func resolveNativeProperty(prefix, key string) string {
	property := key[len(prefix):]
	if property != "" {
		if property[0] == '/' {
			property = property[1:]
		} else if i := strings.LastIndexByte(property, '/'); i >= 0 {
			property = property[i+1:]
		}
	}
	if strings.IndexByte(property, '/') < 0 {
		return property
	}

	return ""
}
