package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Reserved share-link keys; every other key is a model parameter id.
const (
	shareKeyModel  = "model"
	shareKeySize   = "size"
	shareKeySpeed  = "speed"
	shareKeyMap    = "map"
	shareKeyPreset = "preset"
)

// ShareConfig is the flat state snapshot carried in a share link:
// model id, grid size, steps per frame, colormap id, preset name, and
// one entry per active-model parameter. Semantic validation (unknown
// ids, out-of-range values) is the controller's job; this layer only
// moves the shape.
type ShareConfig struct {
	Model  string
	Size   int
	Speed  int
	Map    string
	Preset string
	Params map[string]float64
}

// EncodeShare serializes s as URL query values. Output key order is
// sorted, so equal states produce byte-equal strings.
func EncodeShare(s ShareConfig) string {
	q := url.Values{}
	if s.Model != "" {
		q.Set(shareKeyModel, s.Model)
	}
	if s.Size > 0 {
		q.Set(shareKeySize, strconv.Itoa(s.Size))
	}
	if s.Speed > 0 {
		q.Set(shareKeySpeed, strconv.Itoa(s.Speed))
	}
	if s.Map != "" {
		q.Set(shareKeyMap, s.Map)
	}
	if s.Preset != "" {
		q.Set(shareKeyPreset, s.Preset)
	}
	for k, v := range s.Params {
		q.Set(k, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return q.Encode()
}

// DecodeShare parses a query string back into a ShareConfig. A leading
// '?' is tolerated. Unparsable numeric values are dropped rather than
// failing the whole link.
func DecodeShare(raw string) (ShareConfig, error) {
	raw = strings.TrimPrefix(raw, "?")
	q, err := url.ParseQuery(raw)
	if err != nil {
		return ShareConfig{}, fmt.Errorf("parsing share link: %w", err)
	}

	s := ShareConfig{Params: map[string]float64{}}
	for k, vs := range q {
		if len(vs) == 0 {
			continue
		}
		v := vs[0]
		switch k {
		case shareKeyModel:
			s.Model = v
		case shareKeySize:
			s.Size, _ = strconv.Atoi(v)
		case shareKeySpeed:
			s.Speed, _ = strconv.Atoi(v)
		case shareKeyMap:
			s.Map = v
		case shareKeyPreset:
			s.Preset = v
		default:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				s.Params[k] = f
			}
		}
	}
	return s, nil
}
