// Package config 提供应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - 按 DefaultPaths 顺序查找，命中首个文件即停止
//  3. 环境变量 - CONSULSRC_ 前缀
//  4. CLI flags - 仅用户显式设置的 flag 生效
package config

import (
	"os"
	"path/filepath"
	"time"
)

// EnvPrefix 环境变量前缀。
const EnvPrefix = "CONSULSRC_"

// Config 应用配置。
type Config struct {
	Consul    ConsulConfig    `json:"consul" desc:"Consul 连接配置"`
	Discovery DiscoveryConfig `json:"discovery" desc:"远程配置发现设置"`
}

// ConsulConfig Consul 连接配置。
type ConsulConfig struct {
	Addr       string        `json:"addr" desc:"Consul agent 地址"`
	Token      string        `json:"token" desc:"ACL token"`
	Datacenter string        `json:"datacenter" desc:"数据中心"`
	WaitTime   time.Duration `json:"wait-time" desc:"单次查询等待上限"`
}

// DiscoveryConfig 远程配置发现设置。
type DiscoveryConfig struct {
	Enabled      bool     `json:"enabled" desc:"是否启用远程配置读取"`
	Path         string   `json:"path" desc:"远程配置根路径"`
	Format       string   `json:"format" desc:"存储格式 (file/native/json/yaml/properties)"`
	Application  string   `json:"application" desc:"应用标识，空值仅读取公共配置"`
	Environments []string `json:"environments" desc:"激活环境名有序列表"`
	Expand       bool     `json:"expand" desc:"对属性值执行 Shell 参数展开"`
}

// DefaultConfig 返回默认配置。
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Consul: ConsulConfig{
			Addr:     "127.0.0.1:8500",
			WaitTime: 10 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Enabled: true,
			Path:    "config/",
			Format:  "yaml",
		},
	}
}

// DefaultPaths 返回默认配置文件的搜索顺序，先命中的文件生效。
func DefaultPaths() []string {
	paths := []string{".consulsrc.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".consulsrc.yaml"))
	}
	paths = append(paths, "/etc/consulsrc/config.yaml", "config.yaml")

	return paths
}
