package proximity

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/metrics"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var tracer = otel.Tracer("cell-locator/proximity")

const DefaultLimit int = 25

// trigIndexVersion is stored in PRAGMA user_version once the trig index is populated.
// Datasets carrying a lower version get their index dropped and rebuilt on Open.
const trigIndexVersion int = 1

const populateBatchSize int = 1000

const nearestQuery string = `SELECT
	z._id AS row_id, z.cid AS cid, z.mcc AS mcc, z.mnc AS mnc, z.lac AS lac,
	z.latitude AS latitude, z.longitude AS longitude, z.last_updated AS last_updated,
	(c.latitude_rad_sin * ? + c.latitude_rad_cos * ? * (c.longitude_rad_sin * ? + c.longitude_rad_cos * ?)) AS rank_score
FROM calculated c
JOIN cell_zone z ON z._id = c.cell_id
ORDER BY rank_score DESC, c.cell_id ASC
LIMIT ?`

var ErrNotFound = fmt.Errorf("dataset not found")
var ErrCorrupt = fmt.Errorf("dataset is corrupt or incompatible")
var ErrClosed = fmt.Errorf("store is closed")

//go:generate moq -rm -out store_mock.go . Store

type Store interface {
	NearestCells(ctx context.Context, pos types.Position, limit int) ([]types.Cell, error)
	Close() error
}

type store struct {
	mu     sync.RWMutex
	db     *gorm.DB
	path   string
	closed bool
}

// Open opens the dataset at datasetPath and makes sure its trig index is populated.
// A missing file fails with ErrNotFound, anything that is not a usable dataset with ErrCorrupt.
func Open(ctx context.Context, datasetPath string) (Store, error) {
	var err error
	ctx, span := tracer.Start(ctx, "open-dataset")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	info, err := os.Stat(datasetPath)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrNotFound, err.Error())
		return nil, err
	}
	if info.IsDir() {
		err = fmt.Errorf("%w: %s is a directory", ErrNotFound, datasetPath)
		return nil, err
	}

	db, err := connect(datasetPath)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrCorrupt, err.Error())
		return nil, err
	}

	err = ensureTrigIndex(ctx, db)
	if err != nil {
		closeDB(db)
		err = fmt.Errorf("%w: %s", ErrCorrupt, err.Error())
		return nil, err
	}

	return &store{db: db, path: datasetPath}, nil
}

func connect(datasetPath string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(datasetPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Silent),
		CreateBatchSize: 500,
	})
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureTrigIndex(ctx context.Context, db *gorm.DB) error {
	log := logging.GetFromContext(ctx)

	if !db.Migrator().HasTable(&cellZone{}) {
		return fmt.Errorf("table %s is missing", cellZone{}.TableName())
	}

	var version int
	err := db.WithContext(ctx).Raw("PRAGMA user_version").Scan(&version).Error
	if err != nil {
		return err
	}

	if version >= trigIndexVersion && db.Migrator().HasTable(&trigIndexRow{}) {
		var indexed int64
		err = db.WithContext(ctx).Model(&trigIndexRow{}).Count(&indexed).Error
		if err != nil {
			return err
		}

		if indexed > 0 {
			return nil
		}
	}

	log.Info().Int("version", version).Msg("populating trig index")

	err = populateTrigIndex(ctx, db)
	if err != nil {
		log.Error().Err(err).Msg("failed to populate trig index")
		return err
	}

	metrics.TrigIndexBuildsTotal.Inc()

	return nil
}

// populateTrigIndex rebuilds the index in a single transaction. On failure nothing is kept.
func populateTrigIndex(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Migrator().DropTable(&trigIndexRow{})
		if err != nil {
			return err
		}

		err = tx.Migrator().CreateTable(&trigIndexRow{})
		if err != nil {
			return err
		}

		batch := []cellZone{}
		result := tx.Select("_id", "latitude", "longitude").FindInBatches(&batch, populateBatchSize, func(_ *gorm.DB, _ int) error {
			rows := lo.Map(batch, func(c cellZone, _ int) trigIndexRow {
				return newTrigIndexRow(c)
			})
			return tx.Create(&rows).Error
		})
		if result.Error != nil {
			return result.Error
		}

		return tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", trigIndexVersion)).Error
	})
}

func (s *store) NearestCells(ctx context.Context, pos types.Position, limit int) ([]types.Cell, error) {
	var err error
	ctx, span := tracer.Start(ctx, "nearest-cells")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		err = ErrClosed
		return nil, err
	}

	q := TrigValues(pos.Latitude, pos.Longitude)

	ranked := []rankedCell{}
	err = s.db.WithContext(ctx).Raw(nearestQuery, q.LatSin, q.LatCos, q.LonSin, q.LonCos, limit).Scan(&ranked).Error
	if err != nil {
		log := logging.GetFromContext(ctx)
		log.Error().Err(err).Str("dataset", s.path).Msg("nearest cells query failed")
		return nil, err
	}

	return lo.Map(ranked, func(r rankedCell, _ int) types.Cell {
		return r.Cell()
	}), nil
}

// Close releases the dataset handle. Calling Close more than once is a no-op.
func (s *store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return closeDB(s.db)
}
