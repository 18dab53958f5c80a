package export

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/san-kum/spiralarms/internal/dynamo"
	"github.com/san-kum/spiralarms/internal/orbit"
	"github.com/san-kum/spiralarms/internal/storage"
)

func TestRunJSON(t *testing.T) {
	run := &storage.Run{
		ID:          "abc",
		Integrator:  "rk4",
		Dt:          0.1,
		Duration:    0.2,
		CreatedUnix: 1700000000,
		MetricsJSON: `[{"z_max":0.5}]`,
		ConfigYAML:  "spiral:\n  n: 2\n",
	}
	x0 := orbit.FromCylindrical([6]float64{1, 0.1, 1, 0.2, 0, math.Pi / 2})
	trajs := []storage.Trajectory{{
		Times:  []float64{0, 0.1},
		States: []dynamo.State{x0, x0},
	}}

	data, err := NewRunData(run, trajs)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}

	var back RunData
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if back.ID != "abc" || len(back.Orbits) != 1 || back.Orbits[0].Steps != 2 {
		t.Fatalf("unexpected export: %+v", back)
	}
	if back.Orbits[0].Metrics["z_max"] != 0.5 {
		t.Errorf("metrics = %v", back.Orbits[0].Metrics)
	}
	vxvv := back.Orbits[0].Vxvv[0]
	want := [6]float64{1, 0.1, 1, 0.2, 0, math.Pi / 2}
	for i := range want {
		if math.Abs(vxvv[i]-want[i]) > 1e-12 {
			t.Errorf("vxvv[%d] = %v, want %v", i, vxvv[i], want[i])
		}
	}
}

func TestRunJSONMetricCountMismatch(t *testing.T) {
	run := &storage.Run{ID: "x", MetricsJSON: `[{}, {}]`}
	if _, err := NewRunData(run, []storage.Trajectory{{}}); err == nil {
		t.Error("expected error for mismatched metric sets")
	}
}
