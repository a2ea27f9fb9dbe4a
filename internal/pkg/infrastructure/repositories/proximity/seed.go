package proximity

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/samber/lo"
)

// CreateDataset writes cells to the entity table of the dataset at datasetPath, creating the
// file and table if needed. The trig index is left for Open to populate.
func CreateDataset(ctx context.Context, datasetPath string, cells []types.Cell) error {
	db, err := connect(datasetPath)
	if err != nil {
		return err
	}
	defer closeDB(db)

	err = db.WithContext(ctx).AutoMigrate(&cellZone{})
	if err != nil {
		return fmt.Errorf("failed to create cell table: %w", err)
	}

	if len(cells) == 0 {
		return nil
	}

	rows := lo.Map(cells, func(c types.Cell, _ int) cellZone {
		return newCellZone(c)
	})

	return db.WithContext(ctx).CreateInBatches(&rows, populateBatchSize).Error
}

// Seed builds a dataset from an OpenCellID csv export with the columns
// radio,mcc,net,area,cell,unit,lon,lat,range,samples,changeable,created,updated,averageSignal
func Seed(ctx context.Context, datasetPath string, export io.Reader) error {
	r := csv.NewReader(export)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	log := logging.GetFromContext(ctx)

	cells := []types.Cell{}
	line := 0

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read csv data: %w", err)
		}

		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "radio") {
			continue
		}

		cell, err := cellFromRecord(record)
		if err != nil {
			return fmt.Errorf("bad record on line %d: %w", line, err)
		}

		cells = append(cells, cell)
	}

	log.Info().Int("count", len(cells)).Str("dataset", datasetPath).Msg("loaded cells from export")

	return CreateDataset(ctx, datasetPath, cells)
}

func cellFromRecord(record []string) (types.Cell, error) {
	if len(record) < 8 {
		return types.Cell{}, fmt.Errorf("expected at least 8 columns, got %d", len(record))
	}

	lon, err := strconv.ParseFloat(record[6], 64)
	if err != nil {
		return types.Cell{}, fmt.Errorf("failed to parse longitude: %w", err)
	}

	lat, err := strconv.ParseFloat(record[7], 64)
	if err != nil {
		return types.Cell{}, fmt.Errorf("failed to parse latitude: %w", err)
	}

	cell := types.Cell{
		ID:                record[4],
		MobileCountryCode: record[1],
		MobileNetworkCode: record[2],
		LocationAreaCode:  record[3],
		Latitude:          lat,
		Longitude:         lon,
	}

	if len(record) > 12 {
		if updated, err := strconv.ParseInt(record[12], 10, 64); err == nil && updated > 0 {
			t := time.Unix(updated, 0).UTC()
			cell.LastUpdated = &t
		}
	}

	return cell, nil
}
