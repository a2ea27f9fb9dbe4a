package regioncache

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/metrics"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/samber/lo"
)

type cachedDataset struct {
	name     string
	lastUsed time.Time
}

// evict removes the least recently used datasets until at most MaxDatasets remain.
// The dataset for keep is never removed.
func (c *regionCache) evict(ctx context.Context, keep types.RegionKey) {
	log := logging.GetFromContext(ctx)

	entries, err := os.ReadDir(c.cfg.Dir)
	if err != nil {
		log.Error().Err(err).Msg("failed to list dataset directory")
		return
	}

	suffix := "." + c.cfg.Extension

	datasets := lo.FilterMap(entries, func(e os.DirEntry, _ int) (cachedDataset, bool) {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), suffix) {
			return cachedDataset{}, false
		}

		info, err := e.Info()
		if err != nil {
			return cachedDataset{}, false
		}

		return cachedDataset{name: e.Name(), lastUsed: info.ModTime()}, true
	})

	if len(datasets) <= c.cfg.MaxDatasets {
		return
	}

	sort.Slice(datasets, func(i, j int) bool {
		return datasets[i].lastUsed.After(datasets[j].lastUsed)
	})

	kept := 0
	for _, d := range datasets {
		if d.name == c.fileName(keep) || kept < c.cfg.MaxDatasets-1 {
			if d.name != c.fileName(keep) {
				kept++
			}
			continue
		}

		err := os.Remove(filepath.Join(c.cfg.Dir, d.name))
		if err != nil {
			log.Error().Err(err).Str("dataset", d.name).Msg("failed to evict dataset")
			continue
		}

		metrics.DatasetEvictionsTotal.Inc()
		log.Info().Str("dataset", d.name).Msg("evicted least recently used dataset")
	}
}
