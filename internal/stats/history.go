package stats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"evoimage/internal/model"
)

var ErrEmptyHistory = errors.New("fitness history is empty")

// Summary condenses a fitness history. Improvement is the fraction of the
// initial difference that was removed.
type Summary struct {
	InitialScore    uint64  `json:"initial_score"`
	FinalScore      uint64  `json:"final_score"`
	FirstGeneration int     `json:"first_generation"`
	LastGeneration  int     `json:"last_generation"`
	Acceptances     int     `json:"acceptances"`
	Improvement     float64 `json:"improvement"`
}

func Summarize(history []model.FitnessPoint) (Summary, error) {
	if len(history) == 0 {
		return Summary{}, ErrEmptyHistory
	}
	first, last := history[0], history[len(history)-1]
	summary := Summary{
		InitialScore:    first.Score,
		FinalScore:      last.Score,
		FirstGeneration: first.Generation,
		LastGeneration:  last.Generation,
		Acceptances:     len(history) - 1,
	}
	if first.Score > 0 && last.Score <= first.Score {
		summary.Improvement = float64(first.Score-last.Score) / float64(first.Score)
	}
	return summary, nil
}

func WriteHistoryCSV(w io.Writer, history []model.FitnessPoint) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"generation", "score"}); err != nil {
		return err
	}
	for _, point := range history {
		if err := writer.Write([]string{
			strconv.Itoa(point.Generation),
			strconv.FormatUint(point.Score, 10),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadHistoryCSV(r io.Reader) ([]model.FitnessPoint, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []model.FitnessPoint{}, nil
		}
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("fitness history header must have at least 2 columns")
	}

	history := make([]model.FitnessPoint, 0, 128)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("fitness history row must have at least 2 columns")
		}
		generation, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("generation %q: %w", record[0], err)
		}
		score, err := strconv.ParseUint(record[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", record[1], err)
		}
		history = append(history, model.FitnessPoint{Generation: generation, Score: score})
	}
	return history, nil
}

func WriteHistoryCSVFile(path string, history []model.FitnessPoint) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteHistoryCSV(file, history); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
