// Package command 提供 CLI 命令的公共定义。
package command

import "github.com/lwmacct/260825-go-pkg-consulsrc/internal/config"

// Defaults 为默认配置的单一来源。
var Defaults = config.DefaultConfig()
