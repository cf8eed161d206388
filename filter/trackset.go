package filter

import (
	"context"

	"github.com/rushteam/tunekit/core"
	"github.com/rushteam/tunekit/pkg/conv"
)

// TrackSetFilter 按显式曲目集合过滤，典型用法是"不推荐已经在当前
// 播放列表里的曲目"。集合来源有两个，命中任一即过滤：
//  1. TrackIDs：构建时给定的静态列表
//  2. ParamKey：从 RecommendContext.Params 取请求级列表
//     （群组会话的播放列表随请求变化，不适合静态配置）
type TrackSetFilter struct {
	TrackIDs []string

	// ParamKey 默认为 "playlist_track_ids"
	ParamKey string
}

func (f *TrackSetFilter) Name() string {
	return "filter.trackset"
}

func (f *TrackSetFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.TrackIDs {
		if item.ID == id {
			return true, nil
		}
	}

	if rctx != nil && rctx.Params != nil {
		key := f.ParamKey
		if key == "" {
			key = "playlist_track_ids"
		}
		if raw, ok := rctx.Params[key]; ok {
			var ids []string
			switch v := raw.(type) {
			case []string:
				ids = v
			default:
				ids = conv.SliceAnyToString(raw)
			}
			for _, id := range ids {
				if item.ID == id {
					return true, nil
				}
			}
		}
	}

	return false, nil
}
