package processor

import "github.com/rsparks3/deepstate-map-data/internal/geo"

// Downsample thins an ordered point set down to roughly limit features.
// When the input exceeds the limit it keeps every stride-th element
// starting at index 0, with stride = ceil(len/limit). Order is
// preserved and the selection is deterministic. The result may land
// slightly under the limit due to ceiling rounding.
func Downsample(features []*geo.Feature, limit int) []*geo.Feature {
	if limit <= 0 || len(features) <= limit {
		return features
	}

	stride := (len(features) + limit - 1) / limit

	out := make([]*geo.Feature, 0, (len(features)+stride-1)/stride)
	for i := 0; i < len(features); i += stride {
		out = append(out, features[i])
	}

	return out
}
