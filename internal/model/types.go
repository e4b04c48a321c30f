package model

import (
	"encoding/json"
	"time"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Run describes one evolution session and the settings it ran with.
type Run struct {
	VersionedRecord
	ID               string    `json:"id"`
	Target           string    `json:"target"`
	Seed             int64     `json:"seed"`
	CanvasWidth      int       `json:"canvas_width"`
	CanvasHeight     int       `json:"canvas_height"`
	Children         int       `json:"children"`
	GenerationLimit  int       `json:"generation_limit"`
	RenderImageEvery int       `json:"render_image_every"`
	PolygonsMax      int       `json:"polygons_max"`
	PointsPerPolygon int       `json:"points_per_polygon_max"`
	Jitter           string    `json:"jitter"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at,omitzero"`
	InitialScore     uint64    `json:"initial_score"`
	FinalScore       uint64    `json:"final_score"`
	Accepted         int       `json:"accepted"`
}

// ChampionRecord is a champion genome captured at a snapshot generation. The
// genome is stored as a normalized document.
type ChampionRecord struct {
	VersionedRecord
	RunID      string          `json:"run_id"`
	Generation int             `json:"generation"`
	Score      uint64          `json:"score"`
	Polygons   int             `json:"polygons"`
	Points     int             `json:"points"`
	Document   json.RawMessage `json:"document"`
}

// FitnessPoint is the champion score right after an acceptance.
type FitnessPoint struct {
	Generation int    `json:"generation"`
	Score      uint64 `json:"score"`
}
