package types

import "time"

type PositionUpdated struct {
	Position  Position  `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

func (p *PositionUpdated) ContentType() string {
	return "application/json"
}
func (p *PositionUpdated) TopicName() string {
	return "cells.positionUpdated"
}

type CellsUpdated struct {
	Cells     []Cell    `json:"cells"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *CellsUpdated) ContentType() string {
	return "application/json"
}
func (c *CellsUpdated) TopicName() string {
	return "cells.cellsUpdated"
}
