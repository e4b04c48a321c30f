package storage

import (
	"encoding/json"
	"errors"
	"sort"

	"evoimage/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Versioned returns the version header every new record is written with.
func Versioned() model.VersionedRecord {
	return model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

func EncodeRun(r model.Run) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.Run, error) {
	var run model.Run
	if err := json.Unmarshal(data, &run); err != nil {
		return model.Run{}, err
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

func EncodeChampion(r model.ChampionRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeChampion(data []byte) (model.ChampionRecord, error) {
	var record model.ChampionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.ChampionRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.ChampionRecord{}, err
	}
	return record, nil
}

func EncodeFitnessHistory(history []model.FitnessPoint) ([]byte, error) {
	if history == nil {
		history = []model.FitnessPoint{}
	}
	return json.Marshal(history)
}

func DecodeFitnessHistory(data []byte) ([]model.FitnessPoint, error) {
	var history []model.FitnessPoint
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}

// sortRuns orders runs oldest first, breaking ties by id.
func sortRuns(runs []model.Run) {
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.Before(runs[j].StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
}
