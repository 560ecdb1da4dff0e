package sim

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Point is one sample of a completed (or aborted) run: the simulation state
// plus the concentration that drove it.
type Point struct {
	Time          float64 `json:"time"`          // hours
	Concentration float64 `json:"concentration"` // mg/L
	Sensitive     float64 `json:"sensitive"`     // CFU/mL
	Resistant     float64 `json:"resistant"`     // CFU/mL
}

// Total returns the combined bacterial load at this point.
func (p Point) Total() float64 { return p.Sensitive + p.Resistant }

// Trajectory is the full time series produced by one simulation run. The
// engine produces it; callers evaluate, persist or discard it.
type Trajectory struct {
	Points []Point
}

// Final returns the last recorded point. ok is false for an empty trajectory.
func (tr *Trajectory) Final() (p Point, ok bool) {
	if len(tr.Points) == 0 {
		return Point{}, false
	}
	return tr.Points[len(tr.Points)-1], true
}

// PeakConcentration returns the maximum concentration over the run.
func (tr *Trajectory) PeakConcentration() float64 {
	peak := 0.0
	for _, p := range tr.Points {
		if p.Concentration > peak {
			peak = p.Concentration
		}
	}
	return peak
}

// WriteCSV serializes the trajectory to the tabular form consumed by
// downstream reports: columns time, concentration, sensitive, resistant.
func (tr *Trajectory) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "concentration", "sensitive", "resistant"}); err != nil {
		return fmt.Errorf("writing trajectory header: %w", err)
	}
	for _, p := range tr.Points {
		row := []string{
			strconv.FormatFloat(p.Time, 'g', -1, 64),
			strconv.FormatFloat(p.Concentration, 'g', -1, 64),
			strconv.FormatFloat(p.Sensitive, 'g', -1, 64),
			strconv.FormatFloat(p.Resistant, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing trajectory row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSONL serializes the trajectory as one JSON object per line with the
// same four columns as WriteCSV.
func (tr *Trajectory) WriteJSONL(w io.Writer) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, p := range tr.Points {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("writing trajectory line: %w", err)
		}
	}
	return bw.Flush()
}
