package valuexp

import (
	"fmt"
	"os"
	"strings"
)

// Expander 基于环境变量快照展开属性值中的 ${...} 引用。
//
// 快照在创建时采集，":=" 的赋值只会写入这份快照，不影响进程环境。
type Expander struct {
	env map[string]string
}

// New 创建使用当前进程环境变量快照的 Expander。
func New() *Expander {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			env[parts[0]] = parts[1]
		}
	}

	return &Expander{env: env}
}

// NewWithEnv 创建使用指定变量集合的 Expander，便于测试。
func NewWithEnv(env map[string]string) *Expander {
	copied := make(map[string]string, len(env))
	for key, value := range env {
		copied[key] = value
	}

	return &Expander{env: copied}
}

// ExpandString 展开单个字符串中的 Shell 参数引用。
//
// 支持语法：
//   - ${VAR} - 变量替换
//   - ${VAR:-default} / ${VAR-default} - fallback
//   - ${VAR:+alt} / ${VAR+alt} - 替代值
//   - ${VAR:?msg} / ${VAR?msg} - 必填校验
//   - ${VAR:=default} / ${VAR=default} - 赋值（仅作用于快照）
//
// 仅在必填校验失败时返回 error。
func (e *Expander) ExpandString(text string) (string, error) {
	if !strings.Contains(text, "${") && !strings.Contains(text, "$$") {
		return text, nil
	}

	return expandShellParameters(text, e.env)
}

// ExpandProperties 遍历属性映射并展开所有字符串值（含嵌套容器）。
//
// 返回展开后的新映射，输入不被修改。
func (e *Expander) ExpandProperties(props map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(props))
	for key, value := range props {
		expanded, err := e.expandValue(value)
		if err != nil {
			return nil, fmt.Errorf("expand property %s: %w", key, err)
		}
		out[key] = expanded
	}

	return out, nil
}

func (e *Expander) expandValue(value any) (any, error) {
	switch typed := value.(type) {
	case string:
		return e.ExpandString(typed)
	case map[string]any:
		return e.ExpandProperties(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			expanded, err := e.expandValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}

		return out, nil
	default:
		return value, nil
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Shell Parameter Expansion
// ═══════════════════════════════════════════════════════════════════════════

func isVarNameStart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isVarNameChar(ch byte) bool {
	return isVarNameStart(ch) || (ch >= '0' && ch <= '9')
}

func parseShellParameter(expr string) (string, string, string, bool) {
	if expr == "" {
		return "", "", "", false
	}
	if !isVarNameStart(expr[0]) {
		return "", "", "", false
	}

	i := 1
	for i < len(expr) && isVarNameChar(expr[i]) {
		i++
	}

	name := expr[:i]
	rest := expr[i:]
	if rest == "" {
		return name, "", "", true
	}

	if len(rest) >= 2 && rest[0] == ':' {
		switch rest[1] {
		case '-', '+', '?', '=':
			return name, rest[:2], rest[2:], true
		}
	}

	switch rest[0] {
	case '-', '+', '?', '=':
		return name, rest[:1], rest[1:], true
	}

	return "", "", "", false
}

func errorMessage(name, word string) error {
	if word == "" {
		return fmt.Errorf("valuexp: %s: parameter null or not set", name)
	}

	return fmt.Errorf("valuexp: %s: %s", name, word)
}

func expandShellWord(word string, env map[string]string) (string, error) {
	if !strings.Contains(word, "${") {
		return word, nil
	}

	return expandShellParameters(word, env)
}

func expandShellExpression(expr string, env map[string]string) (string, bool, error) {
	name, op, word, ok := parseShellParameter(expr)
	if !ok {
		return "", false, nil
	}

	val, isSet := env[name]
	switch op {
	case "":
		if isSet {
			return val, true, nil
		}
		return "", true, nil
	case ":-":
		if !isSet || val == "" {
			expanded, err := expandShellWord(word, env)
			if err != nil {
				return "", false, err
			}
			return expanded, true, nil
		}
		return val, true, nil
	case "-":
		if !isSet {
			expanded, err := expandShellWord(word, env)
			if err != nil {
				return "", false, err
			}
			return expanded, true, nil
		}
		return val, true, nil
	case ":+": // set and not empty
		if isSet && val != "" {
			expanded, err := expandShellWord(word, env)
			if err != nil {
				return "", false, err
			}
			return expanded, true, nil
		}
		return "", true, nil
	case "+":
		if isSet {
			expanded, err := expandShellWord(word, env)
			if err != nil {
				return "", false, err
			}
			return expanded, true, nil
		}
		return "", true, nil
	case ":?":
		if !isSet || val == "" {
			return "", false, errorMessage(name, word)
		}
		return val, true, nil
	case "?":
		if !isSet {
			return "", false, errorMessage(name, word)
		}
		return val, true, nil
	case ":=":
		if !isSet || val == "" {
			expanded, err := expandShellWord(word, env)
			if err != nil {
				return "", false, err
			}
			env[name] = expanded
			return expanded, true, nil
		}
		return val, true, nil
	case "=":
		if !isSet {
			expanded, err := expandShellWord(word, env)
			if err != nil {
				return "", false, err
			}
			env[name] = expanded
			return expanded, true, nil
		}
		return val, true, nil
	}

	return "", false, nil
}

func expandShellParameters(text string, env map[string]string) (string, error) {
	var buf strings.Builder
	buf.Grow(len(text))

	for i := 0; i < len(text); {
		ch := text[i]
		if ch != '$' {
			buf.WriteByte(ch)
			i++
			continue
		}
		if i+1 >= len(text) {
			buf.WriteByte(ch)
			i++
			continue
		}

		next := text[i+1]
		if next == '$' {
			buf.WriteByte('$')
			i += 2
			continue
		}
		if next != '{' {
			buf.WriteByte(ch)
			i++
			continue
		}

		end := findMatchingBrace(text, i+2)
		if end == -1 {
			buf.WriteByte(ch)
			i++
			continue
		}

		expr := text[i+2 : end]
		expanded, ok, err := expandShellExpression(expr, env)
		if err != nil {
			return "", err
		}
		if ok {
			buf.WriteString(expanded)
		} else {
			buf.WriteString(text[i : end+1])
		}

		i = end + 1
	}

	return buf.String(), nil
}

func findMatchingBrace(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		if text[i] == '$' && i+1 < len(text) && text[i+1] == '{' {
			depth++
			i++
			continue
		}
		if text[i] == '}' {
			if depth == 0 {
				return i
			}
			depth--
		}
	}

	return -1
}
