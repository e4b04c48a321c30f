package storage

import (
	"errors"
	"testing"

	"evoimage/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	run := sampleRun("r1", 0)
	run.FinalScore = 1234
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != run.ID || decoded.FinalScore != 1234 || !decoded.StartedAt.Equal(run.StartedAt) {
		t.Fatalf("unexpected run: %+v", decoded)
	}
}

func TestChampionCodecKeepsDocument(t *testing.T) {
	record := sampleChampion("r1", 7, 99)
	data, err := EncodeChampion(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeChampion(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded.Document) != `{"polygons":[]}` {
		t.Fatalf("unexpected document: %s", decoded.Document)
	}
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	run := sampleRun("r1", 0)
	run.SchemaVersion = CurrentSchemaVersion + 1
	data, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeRun(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}

	record := sampleChampion("r1", 1, 1)
	record.VersionedRecord = model.VersionedRecord{}
	data, err = EncodeChampion(record)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeChampion(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestFitnessHistoryCodecEncodesEmptyAsArray(t *testing.T) {
	data, err := EncodeFitnessHistory(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("unexpected encoding: %s", data)
	}
	if _, err := DecodeFitnessHistory([]byte("{")); err == nil {
		t.Fatal("expected malformed payload error")
	}
}
