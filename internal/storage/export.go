package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/twosprings/internal/dynamo"
)

type ExportData struct {
	Source  string             `json:"source,omitempty"`
	Steps   int                `json:"steps"`
	Columns []string           `json:"columns"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// ExportJSON writes traj as indented JSON.
func ExportJSON(w io.Writer, source string, traj *dynamo.Trajectory) error {
	data := ExportData{
		Source:  source,
		Steps:   len(traj.Times),
		Columns: []string{"t", "x1", "y1", "x2", "y2"},
		Times:   traj.Times,
		States:  make([][]float64, len(traj.States)),
		Metrics: traj.Metrics,
	}

	for i, s := range traj.States {
		data.States[i] = s
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
