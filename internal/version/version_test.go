package version

import (
	"runtime"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.Date == "" {
		t.Errorf("build fields should never be empty: %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %q, want %q", info.Platform, want)
	}
	if Dirty == "false" && info.Dirty {
		t.Error("Dirty should convert to false")
	}
}

func TestString(t *testing.T) {
	clean := Info{Version: "1.2.3", Commit: "abc1234", Date: "2026-01-15", Dirty: false}
	if got, want := clean.String(), "1.2.3 (abc1234) built 2026-01-15"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	dirty := clean
	dirty.Dirty = true
	if got, want := dirty.String(), "1.2.3 (abc1234-dirty) built 2026-01-15"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "1.2.3"}, "1.2.3"},
		{Info{Version: "1.2.3", Dirty: true}, "1.2.3-dirty"},
		{Info{Version: "0.0.0-dev"}, "0.0.0-dev"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}
