package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
	yamlv3 "go.yaml.in/yaml/v3"

	"github.com/lwmacct/260825-go-pkg-consulsrc/internal/config"
	"github.com/lwmacct/260825-go-pkg-consulsrc/pkg/consulkv"
	"github.com/lwmacct/260825-go-pkg-consulsrc/pkg/propsrc"
)

// layerOutput 物化结果的输出结构。
type layerOutput struct {
	Name     string         `json:"name" yaml:"name"`
	Priority int            `json:"priority" yaml:"priority"`
	Values   map[string]any `json:"values" yaml:"values"`
}

func action(ctx context.Context, cmd *cli.Command) error {
	// 加载配置：默认值 → 配置文件 → 环境变量 → CLI flags
	var paths []string
	if cmd.IsSet("config") {
		paths = []string{cmd.String("config")}
	}
	cfg, err := config.Load(cmd, paths...)
	if err != nil {
		return err
	}

	reader, err := consulkv.New(consulkv.Config{
		Address:    cfg.Consul.Addr,
		Token:      cfg.Consul.Token,
		Datacenter: cfg.Consul.Datacenter,
		WaitTime:   cfg.Consul.WaitTime,
	})
	if err != nil {
		return err
	}

	var opts []propsrc.Option
	if cfg.Discovery.Expand {
		opts = append(opts, propsrc.WithValueExpansion())
	}
	materializer := propsrc.NewMaterializer(reader, opts...)

	request := propsrc.Request{
		Enabled:      cfg.Discovery.Enabled,
		Path:         cfg.Discovery.Path,
		Format:       propsrc.Format(cfg.Discovery.Format),
		Application:  cfg.Discovery.Application,
		Datacenter:   cfg.Consul.Datacenter,
		Environments: cfg.Discovery.Environments,
	}

	var layers []layerOutput
	for src, err := range materializer.PropertySources(ctx, request) {
		if err != nil {
			return err
		}
		layers = append(layers, layerOutput{Name: src.Name, Priority: src.Priority, Values: src.Values})
	}
	slog.Debug("Materialized property sources", "count", len(layers))

	var data []byte
	if cmd.String("output") == "json" {
		data, err = json.MarshalIndent(layers, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	} else {
		data, err = yamlv3.Marshal(layers)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	_, _ = os.Stdout.Write(data)

	return nil
}
