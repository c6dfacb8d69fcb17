package app

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/jot/internal/config"
	"github.com/five82/jot/internal/devserver"
	"github.com/five82/jot/internal/state"
	"github.com/five82/jot/internal/todoapi"
)

// testOptions points jot at a fresh dev server with logs in a temp dir.
func testOptions(t *testing.T) (Options, *bytes.Buffer, string) {
	t.Helper()
	t.Setenv(config.EnvAPIURL, "")

	srv := httptest.NewServer(devserver.New("", nil, devserver.NewMemoryStore()).Handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	logFile := filepath.Join(dir, "jot.log")
	cfgPath := filepath.Join(dir, "config.toml")
	content := "log_file = \"" + logFile + "\"\nlog_level = \"debug\"\nmax_description_length = 20\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out := &bytes.Buffer{}
	return Options{
		ConfigPath: cfgPath,
		PrefsPath:  filepath.Join(dir, "prefs.toml"),
		APIURL:     srv.URL,
		Out:        out,
	}, out, logFile
}

func TestList_Empty(t *testing.T) {
	opts, out, _ := testOptions(t)

	if err := List(context.Background(), opts); err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := out.String(); got != "No todos yet.\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestAdd_CreatesAndLists(t *testing.T) {
	opts, out, logFile := testOptions(t)
	ctx := context.Background()

	if err := Add(ctx, opts, "  Buy milk "); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := Add(ctx, opts, "Walk dog"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, `Added "Buy milk"`) || !strings.Contains(got, "• Walk dog  (") {
		t.Fatalf("output = %q", got)
	}

	out.Reset()
	if err := List(ctx, opts); err != nil {
		t.Fatalf("List: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "• Walk dog") || !strings.HasPrefix(lines[1], "• Buy milk") {
		t.Fatalf("list = %q, want newest first", lines)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"message"`) {
		t.Fatalf("log missing structured entries: %s", data)
	}
}

func TestAdd_ValidationMakesNoRequest(t *testing.T) {
	opts, out, _ := testOptions(t)
	ctx := context.Background()

	tests := []struct {
		name string
		desc string
		want string
	}{
		{name: "blank", desc: "   ", want: state.MessageEmptyDescription},
		{name: "too long", desc: strings.Repeat("a", 21), want: "Description cannot exceed 20 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Add(ctx, opts, tt.desc)
			var verr *state.ValidationError
			if !errors.As(err, &verr) || verr.Message != tt.want {
				t.Fatalf("Add(%q) error = %v, want %q", tt.desc, err, tt.want)
			}
		})
	}

	if err := List(ctx, opts); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !strings.Contains(out.String(), "No todos yet.") {
		t.Fatalf("validation failures created todos: %q", out.String())
	}
}

func TestList_UnreachableServer(t *testing.T) {
	opts, _, _ := testOptions(t)
	srv := httptest.NewServer(nil)
	opts.APIURL = srv.URL
	srv.Close()

	err := List(context.Background(), opts)
	apiErr, ok := todoapi.AsAPIError(err)
	if !ok || apiErr.Kind != todoapi.KindNetwork || apiErr.Message != todoapi.MessageNetwork {
		t.Fatalf("List error = %#v, want network error", err)
	}
}

func TestSetup_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("request_timeout = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err := List(context.Background(), Options{ConfigPath: path, Out: &bytes.Buffer{}})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("List error = %v, want load config failure", err)
	}
}

func TestLogs(t *testing.T) {
	opts, out, logFile := testOptions(t)

	if err := Logs(opts, 10, false); err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if !strings.Contains(out.String(), "No log entries") {
		t.Fatalf("output = %q", out.String())
	}

	if err := Add(context.Background(), opts, "log me"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	out.Reset()
	if err := Logs(opts, 1, true); err != nil {
		t.Fatalf("Logs raw: %v", err)
	}
	raw := strings.TrimSpace(out.String())
	if strings.Count(raw, "\n") != 0 || !strings.HasPrefix(raw, "{") {
		t.Fatalf("raw output = %q, want one JSON line", raw)
	}

	out.Reset()
	if err := Logs(opts, 0, false); err != nil {
		t.Fatalf("Logs: %v", err)
	}
	if strings.Contains(out.String(), `"level"`) {
		t.Fatalf("formatted output still JSON: %q", out.String())
	}
	if _, err := os.Stat(logFile); err != nil {
		t.Fatalf("log file: %v", err)
	}
}
