package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_DIR", "")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCmd_JSON(t *testing.T) {
	out, err := execute(t, "run", "--price0", "100", "--eps0", "5", "--mean-growth", "0.1",
		"--sigma-growth", "0.05", "--mean-pe", "20", "--sigma-pe", "3", "-n", "1000", "--seed", "9")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, float64(9), body["seed"])
	assert.Equal(t, []any{}, body["warnings"])
	params := body["inputParams"].(map[string]any)
	assert.Equal(t, float64(1000), params["numSimulations"])
	assert.Equal(t, float64(20), params["pe0"])
}

func TestRunCmd_CSVToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trials.csv")

	_, err := execute(t, "run", "--price0", "50", "--eps0", "2", "-n", "250", "--format", "csv", "--out", path)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 251)
	assert.Equal(t, "SimulationIndex", records[0][0])
	assert.Equal(t, "250", records[250][0])
}

func TestRunCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"run", "--price0", "1", "--eps0", "1", "--format", "xml"}},
		{name: "no inputs", args: []string{"run"}},
		{name: "negative eps", args: []string{"run", "--price0", "10", "--eps0", "-1"}},
		{name: "stock without ticker", args: []string{"stock"}},
		{name: "warm without ticker", args: []string{"warm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestWarmCmd_RequiresRedis(t *testing.T) {
	t.Setenv("REDIS_HOST", "")

	_, err := execute(t, "warm", "AAPL")
	assert.ErrorContains(t, err, "REDIS_HOST")
}

func TestWarmCmd_ReportsFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/test/getcrumb", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("crumb"))
	})
	mux.HandleFunc("/", http.NotFound)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	t.Setenv("REDIS_HOST", mr.Host())
	t.Setenv("REDIS_PORT", mr.Port())
	t.Setenv("YAHOO_BASE_URL", srv.URL)
	t.Setenv("YAHOO_COOKIE_URL", srv.URL+"/cookie")

	out, err := execute(t, "warm", "NOPE")
	require.NoError(t, err)

	var report struct {
		Warmed []string          `json:"warmed"`
		Failed map[string]string `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Empty(t, report.Warmed)
	assert.Contains(t, report.Failed["NOPE"], "stock not found")
	assert.NotEmpty(t, mr.Keys(), "crumb should be shared through redis")
}
