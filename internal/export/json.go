package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/san-kum/spiralarms/internal/orbit"
	"github.com/san-kum/spiralarms/internal/storage"
)

type RunData struct {
	ID         string      `json:"id"`
	Name       string      `json:"name,omitempty"`
	Created    time.Time   `json:"created"`
	Integrator string      `json:"integrator"`
	Dt         float64     `json:"dt"`
	Duration   float64     `json:"duration"`
	Config     string      `json:"config_yaml"`
	Orbits     []OrbitData `json:"orbits"`
}

type OrbitData struct {
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Vxvv    [][6]float64       `json:"vxvv"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
}

// NewRunData assembles a stored run for export. Vxvv holds every state as
// [R, vR, vT, z, vz, phi].
func NewRunData(run *storage.Run, trajs []storage.Trajectory) (*RunData, error) {
	metrics, err := run.Metrics()
	if err != nil {
		return nil, err
	}
	if len(metrics) != 0 && len(metrics) != len(trajs) {
		return nil, fmt.Errorf("run %s: %d metric sets for %d orbits", run.ID, len(metrics), len(trajs))
	}

	data := &RunData{
		ID:         run.ID,
		Name:       run.Name,
		Created:    run.Created().UTC(),
		Integrator: run.Integrator,
		Dt:         run.Dt,
		Duration:   run.Duration,
		Config:     run.ConfigYAML,
		Orbits:     make([]OrbitData, len(trajs)),
	}
	for i, tr := range trajs {
		od := OrbitData{
			Steps:  len(tr.Times),
			Times:  tr.Times,
			States: make([][]float64, len(tr.States)),
			Vxvv:   make([][6]float64, len(tr.States)),
		}
		for j, s := range tr.States {
			od.States[j] = s
			od.Vxvv[j] = orbit.ToCylindrical(s)
		}
		if len(metrics) != 0 {
			od.Metrics = metrics[i]
		}
		data.Orbits[i] = od
	}
	return data, nil
}

func WriteJSON(w io.Writer, data *RunData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
