package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkpd-sim/pkpd-sim/sim"
)

func sampleTrajectory() *sim.Trajectory {
	return &sim.Trajectory{Points: []sim.Point{
		{Time: 0, Concentration: 2.65, Sensitive: 1e8, Resistant: 1e4},
		{Time: 0.1, Concentration: 2.61, Sensitive: 9.9e7, Resistant: 1e4},
	}}
}

func TestWriteTrajectory_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traj.csv")
	if err := writeTrajectory(sampleTrajectory(), path, "csv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,concentration,sensitive,resistant" {
		t.Errorf("unexpected header: %s", lines[0])
	}
}

func TestWriteTrajectory_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", "traj.csv")
	if err := writeTrajectory(sampleTrajectory(), path, "csv"); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestWriteTrajectory_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traj.out")
	if err := writeTrajectory(sampleTrajectory(), path, "tsv"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
