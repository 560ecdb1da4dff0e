package sim

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTrajectory() *Trajectory {
	return &Trajectory{Points: []Point{
		{Time: 0, Concentration: 2.65, Sensitive: 1e8, Resistant: 1e4},
		{Time: 0.5, Concentration: 2.44, Sensitive: 8.2e7, Resistant: 1.01e4},
	}}
}

func TestWriteCSV_TabularShape(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleTrajectory().WriteCSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "time,concentration,sensitive,resistant", lines[0])
	assert.Equal(t, "0,2.65,1e+08,10000", lines[1])
}

func TestWriteJSONL_OneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleTrajectory().WriteJSONL(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)

	var p Point
	if err := json.Unmarshal([]byte(lines[0]), &p); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	assert.Equal(t, sampleTrajectory().Points[0], p)
}

func TestTrajectory_FinalAndPeak(t *testing.T) {
	tr := sampleTrajectory()
	final, ok := tr.Final()
	assert.True(t, ok)
	assert.Equal(t, 0.5, final.Time)
	assert.Equal(t, 2.65, tr.PeakConcentration())

	_, ok = (&Trajectory{}).Final()
	assert.False(t, ok)
}
