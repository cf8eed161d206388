// Package config 提供根据 YAML/JSON 配置构建推荐 Pipeline 的 Node 工厂。
package config

import (
	"time"

	"github.com/rushteam/tunekit/collab"
	"github.com/rushteam/tunekit/content"
	"github.com/rushteam/tunekit/filter"
	"github.com/rushteam/tunekit/pipeline"
	"github.com/rushteam/tunekit/pkg/conv"
	"github.com/rushteam/tunekit/recommend"
	"github.com/rushteam/tunekit/rerank"
)

// DefaultFactory 返回一个包含所有内置 Node 的默认工厂。
// 召回 Node 需要运行中的引擎实例，所以工厂按引擎闭包构建。
func DefaultFactory(collabEngine *collab.Engine, contentEngine *content.Engine) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		fanout := &recommend.Fanout{
			Sources: []recommend.Source{
				&recommend.CollaborativeSource{
					Engine: collabEngine,
					Limit:  conv.ConfigGetInt(cfg, "collaborative_limit", 0),
				},
				&recommend.ContentSource{
					Engine: contentEngine,
					Limit:  conv.ConfigGetInt(cfg, "content_limit", 0),
				},
			},
			Weights: map[string]float64{
				"collaborative": configGetFloat(cfg, "collaborative_weight", 1.0),
				"content":       configGetFloat(cfg, "content_weight", 1.0),
			},
		}
		if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
			fanout.Timeout = time.Duration(sec) * time.Second
		}
		return fanout, nil
	})

	factory.Register("filter", func(cfg map[string]any) (pipeline.Node, error) {
		filters := make([]filter.Filter, 0, 2)

		trackSet := &filter.TrackSetFilter{
			ParamKey: conv.ConfigGet[string](cfg, "playlist_param_key", ""),
		}
		if ids := conv.SliceAnyToString(cfg["exclude_track_ids"]); ids != nil {
			trackSet.TrackIDs = ids
		}
		filters = append(filters, trackSet)

		if expr := conv.ConfigGet[string](cfg, "rule", ""); expr != "" {
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		}

		return &filter.FilterNode{Filters: filters}, nil
	})

	factory.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopNNode{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})

	return factory
}

func configGetFloat(m map[string]any, key string, defaultVal float64) float64 {
	if m == nil {
		return defaultVal
	}
	if v, ok := m[key]; ok {
		if f, ok := conv.ToFloat64(v); ok {
			return f
		}
	}
	return defaultVal
}
