package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashflowd.pid")
	if err := writePID(path, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(path)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v", pid, err)
	}

	if err := os.WriteFile(path, []byte("garbage\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(path); err == nil {
		t.Error("garbage pid accepted")
	}
}

func TestEnsureServerNotRunningClearsStalePID(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "cashflowd.pid")

	if err := ensureServerNotRunning(pidFile); err != nil {
		t.Fatalf("missing pid file: %v", err)
	}

	if err := writePID(pidFile, os.Getpid()); err != nil {
		t.Fatal(err)
	}
	if err := ensureServerNotRunning(pidFile); err == nil {
		t.Error("live pid not reported")
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := statePath(filepath.Join(t.TempDir(), "cashflowd.pid"))
	in := serverRuntimeState{PID: 7, Addr: "127.0.0.1:8631", StartedAt: time.Unix(1700000000, 0).UTC(), DBPath: "/tmp/x.db"}
	if err := writeState(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := readState(path)
	if err != nil {
		t.Fatal(err)
	}
	if !out.StartedAt.Equal(in.StartedAt) || out.Addr != in.Addr || out.DBPath != in.DBPath || out.PID != in.PID {
		t.Errorf("state = %+v, want %+v", out, in)
	}
}
