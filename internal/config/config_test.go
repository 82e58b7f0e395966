package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s != Default() {
		t.Errorf("Expected defaults, got %+v", s)
	}
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physics.yaml")
	writeFile(t, path, "max_substeps: 3\ngravity: [0, 0, -1.62]\n")

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.MaxSubsteps != 3 {
		t.Errorf("Expected 3 substeps, got %d", s.MaxSubsteps)
	}
	if s.Gravity != [3]float32{0, 0, -1.62} {
		t.Errorf("Expected lunar gravity, got %v", s.Gravity)
	}
	if s.DefaultDensity != 1000 || s.FixedTimestep != Default().FixedTimestep {
		t.Errorf("Absent keys should keep defaults, got %+v", s)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physics.yaml")
	writeFile(t, path, "max_substeps: [oops\n")

	s, err := Load(path)
	if err == nil {
		t.Fatal("Expected a parse error")
	}
	if s != Default() {
		t.Error("A failed load should still return defaults")
	}
}

func TestNormalize(t *testing.T) {
	s := Settings{
		FixedTimestep:    -1,
		MaxSubsteps:      0,
		WorkerThreads:    1000,
		SolverIterations: -4,
		DefaultDensity:   0,
		DefaultMaterial:  Material{StaticFriction: -1, Restitution: 3},
		Sleep:            Sleep{Time: -2},
	}
	s.Normalize()

	if s.FixedTimestep != Default().FixedTimestep {
		t.Errorf("Expected default timestep, got %v", s.FixedTimestep)
	}
	if s.MaxSubsteps != 1 || s.WorkerThreads != 64 || s.SolverIterations != 1 {
		t.Errorf("Expected clamped counts, got %d %d %d", s.MaxSubsteps, s.WorkerThreads, s.SolverIterations)
	}
	if s.DefaultDensity != 1000 {
		t.Errorf("Expected default density, got %v", s.DefaultDensity)
	}
	if s.DefaultMaterial.StaticFriction != 0 || s.DefaultMaterial.Restitution != 1 {
		t.Errorf("Expected clamped material, got %+v", s.DefaultMaterial)
	}
	if s.Sleep.Time != 0 {
		t.Errorf("Expected sleep time 0, got %v", s.Sleep.Time)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "physics.yaml")
	want := Default()
	want.MaxSubsteps = 5
	want.Gravity = [3]float32{1, 2, 3}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physics.yaml")
	writeFile(t, path, "max_substeps: 2\n")

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	writeFile(t, path, "max_substeps: 6\n")

	select {
	case s := <-w.Settings:
		if s.MaxSubsteps != 6 {
			t.Errorf("Expected reloaded max_substeps 6, got %d", s.MaxSubsteps)
		}
	case err := <-w.Errors:
		t.Fatalf("Unexpected watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "physics.yaml")
	writeFile(t, path, "max_substeps: 2\n")

	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	writeFile(t, filepath.Join(dir, "other.yaml"), "max_substeps: 9\n")

	select {
	case s := <-w.Settings:
		t.Errorf("Unexpected reload %+v", s)
	case <-time.After(300 * time.Millisecond):
	}
}
