package propsrc

import (
	"encoding/json"
	"fmt"

	"github.com/magiconair/properties"
	yamlv3 "go.yaml.in/yaml/v3"
)

// JSONDecoder 内置 JSON 文档解码器。
type JSONDecoder struct{}

func (d *JSONDecoder) Decode(sourceName string, data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json document %s: %w", sourceName, err)
	}

	return documentToProperties(sourceName, raw)
}

func (d *JSONDecoder) Enabled() bool { return true }

func (d *JSONDecoder) Extensions() []string { return []string{"json"} }

// YAMLDecoder 内置 YAML 文档解码器。
type YAMLDecoder struct{}

func (d *YAMLDecoder) Decode(sourceName string, data []byte) (map[string]any, error) {
	var raw any
	if err := yamlv3.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml document %s: %w", sourceName, err)
	}

	return documentToProperties(sourceName, raw)
}

func (d *YAMLDecoder) Enabled() bool { return true }

func (d *YAMLDecoder) Extensions() []string { return []string{"yml", "yaml"} }

// PropertiesDecoder 内置 .properties 文档解码器。
type PropertiesDecoder struct{}

func (d *PropertiesDecoder) Decode(sourceName string, data []byte) (map[string]any, error) {
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("decode properties document %s: %w", sourceName, err)
	}

	out := make(map[string]any, props.Len())
	for key, value := range props.Map() {
		out[key] = value
	}

	return out, nil
}

func (d *PropertiesDecoder) Enabled() bool { return true }

func (d *PropertiesDecoder) Extensions() []string { return []string{"properties"} }

// documentToProperties 将解码后的文档树转为点分路径的扁平属性映射。
//
// 空文档视为空映射；根节点非对象时报错。
func documentToProperties(sourceName string, raw any) (map[string]any, error) {
	if raw == nil {
		return map[string]any{}, nil
	}

	normalized, ok := normalizeMapKeys(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document %s: root must be object", sourceName)
	}

	out := make(map[string]any)
	flattenProperties(normalized, "", out)

	return out, nil
}

// normalizeMapKeys 将 YAML 解出的 map[any]any 统一为 map[string]any。
func normalizeMapKeys(val any) any {
	switch typed := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[key] = normalizeMapKeys(value)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, value := range typed {
			out[fmt.Sprintf("%v", key)] = normalizeMapKeys(value)
		}

		return out
	case []any:
		for i := range typed {
			typed[i] = normalizeMapKeys(typed[i])
		}

		return typed
	default:
		return val
	}
}

// flattenProperties 递归展开嵌套对象为 "a.b" 形式的键，数组保持为值。
func flattenProperties(data map[string]any, prefix string, out map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if child, ok := value.(map[string]any); ok && len(child) > 0 {
			flattenProperties(child, fullKey, out)

			continue
		}

		out[fullKey] = value
	}
}
