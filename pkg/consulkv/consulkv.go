// Package consulkv 提供基于 HashiCorp Consul 的 [propsrc.KVReader] 实现。
//
// 通过 Consul KV HTTP API 按前缀列举键值对，支持数据中心路由与 ACL token。
// Consul 在传输层以 base64 编码值，官方客户端在返回前已完成统一解码，
// 因此 [propsrc.Entry] 携带的是原始字节。
//
// Consul 对不存在的前缀返回空列表而非错误，天然满足 KVReader 的
// "未找到恢复为空" 约定；其余 HTTP/传输错误原样上抛。
package consulkv

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/consul/api"

	"github.com/lwmacct/260825-go-pkg-consulsrc/pkg/propsrc"
)

// Config Consul 连接配置。
type Config struct {
	Address    string        // Consul agent 地址，如 127.0.0.1:8500
	Token      string        // ACL token，可为空
	Datacenter string        // 默认数据中心，可被单次读取的 datacenter 参数覆盖
	WaitTime   time.Duration // 单次查询的服务端等待上限，零值使用 Consul 默认
}

// Client 满足 [propsrc.KVReader] 的 Consul KV 客户端。
type Client struct {
	kv       *api.KV
	waitTime time.Duration
}

// New 创建 Consul KV 客户端。
func New(cfg Config) (*Client, error) {
	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}
	if cfg.Token != "" {
		apiCfg.Token = cfg.Token
	}
	if cfg.Datacenter != "" {
		apiCfg.Datacenter = cfg.Datacenter
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	return &Client{kv: client.KV(), waitTime: cfg.WaitTime}, nil
}

// ReadEntries 列举指定前缀下的全部键值对。
//
// datacenter 非空时覆盖客户端默认数据中心。前缀不存在时返回空切片。
func (c *Client) ReadEntries(ctx context.Context, prefix, datacenter string) ([]propsrc.Entry, error) {
	opts := &api.QueryOptions{
		Datacenter: datacenter,
		WaitTime:   c.waitTime,
	}

	pairs, _, err := c.kv.List(prefix, opts.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("consul kv list %s: %w", prefix, err)
	}

	return pairsToEntries(pairs), nil
}

// pairsToEntries 转换 Consul KV 对为物化条目，识别目录占位符。
func pairsToEntries(pairs api.KVPairs) []propsrc.Entry {
	entries := make([]propsrc.Entry, 0, len(pairs))
	for _, pair := range pairs {
		value := pair.Value
		if strings.HasSuffix(pair.Key, "/") && len(value) == 0 {
			value = nil
		}
		entries = append(entries, propsrc.Entry{Key: pair.Key, Value: value})
	}

	return entries
}
