package logging

import (
	"strings"
	"testing"
)

func TestParseLevelPanicsOnUnknownLevel(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("parseLevel accepted an unknown level")
		}
	}()
	parseLevel("verbose")
}

func TestNewWithDestRespectsGlobalLevel(t *testing.T) {
	SetLogLevel("info")
	var buf strings.Builder
	lg := NewWithDest(&buf, "quorum")

	lg.Debugf("hidden %d", 1)
	lg.Infof("visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message written at info level")
	}
	if !strings.Contains(out, "visible 2") {
		t.Errorf("info message missing from output:\n%s", out)
	}
	if !strings.Contains(out, "quorum") {
		t.Errorf("logger name missing from output:\n%s", out)
	}
}

// Must precede the tests that register package overrides; an override entry
// makes every subsequent call re-evaluate the level.
func TestNewWithDestSnapshotsLevelAtConstruction(t *testing.T) {
	SetLogLevel("debug")
	var early strings.Builder
	lg := NewWithDest(&early, "early")

	SetLogLevel("error")
	lg.Debugf("still written")
	if !strings.Contains(early.String(), "still written") {
		t.Error("level change after construction silenced an existing logger")
	}

	var late strings.Builder
	NewWithDest(&late, "late").Debugf("filtered")
	if late.Len() != 0 {
		t.Errorf("logger built at error level wrote: %s", late.String())
	}

	SetLogLevel("info")
}

func TestPackageLevelOverridesGlobal(t *testing.T) {
	SetLogLevel("error")
	SetPackageLogLevel("logging", "debug")
	defer func() {
		SetPackageLogLevel("logging", "error")
		SetLogLevel("info")
	}()

	var buf strings.Builder
	lg := NewWithDest(&buf, "override")
	lg.Debugf("scoped debug")
	if !strings.Contains(buf.String(), "scoped debug") {
		t.Error("package override did not lower the level for this package")
	}
}

func BenchmarkInnerLogger(b *testing.B) {
	SetLogLevel("error")
	sugar := New("bench").(*logger).sugar

	for i := 0; i < b.N; i++ {
		sugar.Info("bench")
	}
}

func BenchmarkWrappedLogger(b *testing.B) {
	SetLogLevel("error")
	lg := New("bench")

	for i := 0; i < b.N; i++ {
		lg.Info("bench")
	}
}

func BenchmarkWrappedLoggerWithPackages(b *testing.B) {
	SetLogLevel("error")
	SetPackageLogLevel("quorum", "error")
	SetPackageLogLevel("gossip", "error")
	SetPackageLogLevel("raft", "error")
	lg := New("bench")

	for i := 0; i < b.N; i++ {
		lg.Info("bench")
	}
}
