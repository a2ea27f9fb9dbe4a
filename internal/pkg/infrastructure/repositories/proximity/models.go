package proximity

import (
	"strconv"
	"time"

	"github.com/diwise/cell-locator/pkg/types"
)

// cellZone is the entity table shipped in every regional dataset.
type cellZone struct {
	ID          int64      `gorm:"column:_id;primaryKey"`
	CellID      string     `gorm:"column:cid"`
	MCC         string     `gorm:"column:mcc"`
	MNC         string     `gorm:"column:mnc"`
	LAC         string     `gorm:"column:lac"`
	Latitude    float64    `gorm:"column:latitude"`
	Longitude   float64    `gorm:"column:longitude"`
	LastUpdated *time.Time `gorm:"column:last_updated"`
}

func (cellZone) TableName() string {
	return "cell_zone"
}

// trigIndexRow holds the precomputed values for exactly one cell_zone row.
type trigIndexRow struct {
	ID     int64   `gorm:"column:_id;primaryKey"`
	CellID int64   `gorm:"column:cell_id;uniqueIndex"`
	LatSin float64 `gorm:"column:latitude_rad_sin"`
	LatCos float64 `gorm:"column:latitude_rad_cos"`
	LonSin float64 `gorm:"column:longitude_rad_sin"`
	LonCos float64 `gorm:"column:longitude_rad_cos"`
}

func (trigIndexRow) TableName() string {
	return "calculated"
}

func newTrigIndexRow(c cellZone) trigIndexRow {
	t := TrigValues(c.Latitude, c.Longitude)
	return trigIndexRow{
		CellID: c.ID,
		LatSin: t.LatSin,
		LatCos: t.LatCos,
		LonSin: t.LonSin,
		LonCos: t.LonCos,
	}
}

type rankedCell struct {
	RowID       int64      `gorm:"column:row_id"`
	CellID      string     `gorm:"column:cid"`
	MCC         string     `gorm:"column:mcc"`
	MNC         string     `gorm:"column:mnc"`
	LAC         string     `gorm:"column:lac"`
	Latitude    float64    `gorm:"column:latitude"`
	Longitude   float64    `gorm:"column:longitude"`
	LastUpdated *time.Time `gorm:"column:last_updated"`
	RankScore   float64    `gorm:"column:rank_score"`
}

func (r rankedCell) Cell() types.Cell {
	id := r.CellID
	if id == "" {
		id = strconv.FormatInt(r.RowID, 10)
	}

	return types.Cell{
		ID:                id,
		MobileCountryCode: r.MCC,
		MobileNetworkCode: r.MNC,
		LocationAreaCode:  r.LAC,
		Latitude:          r.Latitude,
		Longitude:         r.Longitude,
		LastUpdated:       r.LastUpdated,
		RankScore:         r.RankScore,
	}
}

func newCellZone(c types.Cell) cellZone {
	return cellZone{
		CellID:      c.ID,
		MCC:         c.MobileCountryCode,
		MNC:         c.MobileNetworkCode,
		LAC:         c.LocationAreaCode,
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
		LastUpdated: c.LastUpdated,
	}
}
