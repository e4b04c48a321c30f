package storage

import (
	"context"

	"evoimage/internal/model"
)

// Store persists runs, their snapshotted champions and fitness histories.
// Getters report absence through the boolean rather than an error.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, id string) (model.Run, bool, error)
	ListRuns(ctx context.Context) ([]model.Run, error)
	SaveChampion(ctx context.Context, record model.ChampionRecord) error
	GetLatestChampion(ctx context.Context, runID string) (model.ChampionRecord, bool, error)
	ListChampions(ctx context.Context, runID string) ([]model.ChampionRecord, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []model.FitnessPoint) error
	GetFitnessHistory(ctx context.Context, runID string) ([]model.FitnessPoint, bool, error)
}
