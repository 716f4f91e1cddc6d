package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/urfave/cli/v3"
	yamlv3 "go.yaml.in/yaml/v3"
)

// envBindings 环境变量到配置 key 的映射。
var envBindings = map[string]string{
	EnvPrefix + "CONSUL_ADDR":            "consul.addr",
	EnvPrefix + "CONSUL_TOKEN":           "consul.token",
	EnvPrefix + "CONSUL_DATACENTER":      "consul.datacenter",
	EnvPrefix + "CONSUL_WAIT_TIME":       "consul.wait-time",
	EnvPrefix + "DISCOVERY_ENABLED":      "discovery.enabled",
	EnvPrefix + "DISCOVERY_PATH":         "discovery.path",
	EnvPrefix + "DISCOVERY_FORMAT":       "discovery.format",
	EnvPrefix + "DISCOVERY_APPLICATION":  "discovery.application",
	EnvPrefix + "DISCOVERY_ENVIRONMENTS": "discovery.environments",
	EnvPrefix + "DISCOVERY_EXPAND":       "discovery.expand",
}

// Load 读取配置并按优先级合并。
//
// paths 为配置文件搜索路径，空时使用 [DefaultPaths]；按顺序查找，
// 命中首个文件即停止。cmd 非 nil 时，用户显式设置的 CLI flags
// 以最高优先级覆盖。
func Load(cmd *cli.Command, paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = DefaultPaths()
	}

	configMap, err := defaultsMap()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		content, err := os.ReadFile(path) //nolint:gosec // path is from trusted config
		if err != nil {
			continue // 文件不存在或无法读取，尝试下一个路径
		}

		fileMap, err := parseConfigBytes(path, content)
		if err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
		mergeMaps(configMap, fileMap)
		slog.Debug("Loaded config from file", "path", path)

		break
	}

	applyEnv(configMap)
	if cmd != nil {
		applyFlags(cmd, configMap)
	}

	var cfg Config
	if err := decodeConfigMap(configMap, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// defaultsMap 将默认配置转为以 json tag 为 key 的映射。
func defaultsMap() (map[string]any, error) {
	data, err := json.Marshal(DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("marshal default config: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal default config: %w", err)
	}

	return out, nil
}

// applyEnv 将已设置的环境变量写入配置 map。
func applyEnv(configMap map[string]any) {
	for envKey, configPath := range envBindings {
		val := os.Getenv(envKey)
		if val == "" {
			continue
		}

		if configPath == "discovery.environments" {
			setByPath(configMap, configPath, strings.Split(val, ","))
		} else {
			setByPath(configMap, configPath, val)
		}
		slog.Debug("Loaded env binding", "env", envKey, "path", configPath)
	}
}

// applyFlags 将用户显式设置的 CLI flags 写入配置 map（最高优先级）。
func applyFlags(cmd *cli.Command, configMap map[string]any) {
	for _, flag := range []struct {
		name string
		path string
		get  func(string) any
	}{
		{"consul-addr", "consul.addr", func(n string) any { return cmd.String(n) }},
		{"consul-token", "consul.token", func(n string) any { return cmd.String(n) }},
		{"consul-datacenter", "consul.datacenter", func(n string) any { return cmd.String(n) }},
		{"consul-wait-time", "consul.wait-time", func(n string) any { return cmd.Duration(n) }},
		{"discovery-enabled", "discovery.enabled", func(n string) any { return cmd.Bool(n) }},
		{"discovery-path", "discovery.path", func(n string) any { return cmd.String(n) }},
		{"discovery-format", "discovery.format", func(n string) any { return cmd.String(n) }},
		{"discovery-application", "discovery.application", func(n string) any { return cmd.String(n) }},
		{"discovery-environments", "discovery.environments", func(n string) any { return cmd.StringSlice(n) }},
		{"discovery-expand", "discovery.expand", func(n string) any { return cmd.Bool(n) }},
	} {
		if cmd.IsSet(flag.name) {
			setByPath(configMap, flag.path, flag.get(flag.name))
		}
	}
}

func parseConfigBytes(path string, content []byte) (map[string]any, error) {
	var raw any
	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(content, &raw)
	} else {
		err = yamlv3.Unmarshal(content, &raw)
	}
	if err != nil {
		return nil, err
	}

	normalized := normalizeMapKeys(raw)
	if normalized == nil {
		return map[string]any{}, nil
	}
	configMap, ok := normalized.(map[string]any)
	if !ok {
		return nil, errors.New("config root must be object")
	}

	return configMap, nil
}

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

func mergeMaps(dst, src map[string]any) {
	for key, value := range src {
		if valueMap, ok := value.(map[string]any); ok {
			if dstMap, ok := dst[key].(map[string]any); ok {
				mergeMaps(dstMap, valueMap)
				continue
			}
		}

		dst[key] = value
	}
}

func setByPath(dst map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := dst
	for i, part := range parts {
		if i == len(parts)-1 {
			current[part] = value

			return
		}

		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
}

func decodeConfigMap(data map[string]any, out any) error {
	conf := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.TextUnmarshallerHookFunc(),
		),
		Metadata:         nil,
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "json",
	}
	decoder, err := mapstructure.NewDecoder(conf)
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}
