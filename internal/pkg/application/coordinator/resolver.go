package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/regioncache"
	"github.com/diwise/cell-locator/pkg/types"
	yaml "gopkg.in/yaml.v2"
)

var ErrRegionNotFound = fmt.Errorf("no region contains the position")

// RegionResolver maps a position to the key of the dataset covering it.
type RegionResolver interface {
	Resolve(ctx context.Context, pos types.Position) (types.RegionKey, error)
}

type RegionResolverFunc func(ctx context.Context, pos types.Position) (types.RegionKey, error)

func (f RegionResolverFunc) Resolve(ctx context.Context, pos types.Position) (types.RegionKey, error) {
	return f(ctx, pos)
}

// StaticResolver always resolves to key, e.g. the country of the network the device is attached to.
func StaticResolver(key string) RegionResolver {
	k := regioncache.NormalizeKey(key)
	return RegionResolverFunc(func(context.Context, types.Position) (types.RegionKey, error) {
		return k, nil
	})
}

// ChainResolver tries each resolver in turn and returns the first key found.
func ChainResolver(resolvers ...RegionResolver) RegionResolver {
	return RegionResolverFunc(func(ctx context.Context, pos types.Position) (types.RegionKey, error) {
		var errs []error

		for _, r := range resolvers {
			key, err := r.Resolve(ctx, pos)
			if err == nil {
				return key, nil
			}
			errs = append(errs, err)
		}

		if len(errs) == 0 {
			return "", ErrRegionNotFound
		}

		return "", errors.Join(errs...)
	})
}

type BoundingBox struct {
	MinLatitude  float64 `yaml:"minLatitude"`
	MinLongitude float64 `yaml:"minLongitude"`
	MaxLatitude  float64 `yaml:"maxLatitude"`
	MaxLongitude float64 `yaml:"maxLongitude"`
}

func (b BoundingBox) Contains(pos types.Position) bool {
	return pos.Latitude >= b.MinLatitude && pos.Latitude <= b.MaxLatitude &&
		pos.Longitude >= b.MinLongitude && pos.Longitude <= b.MaxLongitude
}

func (b BoundingBox) area() float64 {
	return (b.MaxLatitude - b.MinLatitude) * (b.MaxLongitude - b.MinLongitude)
}

type Region struct {
	Key         string      `yaml:"key"`
	Name        string      `yaml:"name"`
	BoundingBox BoundingBox `yaml:"boundingBox"`
}

type RegionConfig struct {
	Regions []Region `yaml:"regions"`
}

func LoadRegions(data io.Reader) (*RegionConfig, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := RegionConfig{}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}

	for i, r := range cfg.Regions {
		if regioncache.NormalizeKey(r.Key) == "" {
			return nil, fmt.Errorf("region %d (%s) has no key", i, r.Name)
		}
	}

	return &cfg, nil
}

// BoundingBoxResolver resolves a position to the smallest configured region containing it.
func BoundingBoxResolver(cfg *RegionConfig) RegionResolver {
	regions := []Region{}
	if cfg != nil {
		regions = append(regions, cfg.Regions...)
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].BoundingBox.area() < regions[j].BoundingBox.area()
	})

	return RegionResolverFunc(func(_ context.Context, pos types.Position) (types.RegionKey, error) {
		for _, r := range regions {
			if r.BoundingBox.Contains(pos) {
				return regioncache.NormalizeKey(r.Key), nil
			}
		}
		return "", fmt.Errorf("%w: (%f, %f)", ErrRegionNotFound, pos.Latitude, pos.Longitude)
	})
}
