package e2e_test

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangsom/minime/internal/api"
	"github.com/sangsom/minime/internal/config"
	"github.com/sangsom/minime/internal/factory"
	"github.com/sangsom/minime/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "minimectl-test")
	require.NoError(t, os.MkdirAll(filepath.Dir(binaryPath), 0o755))
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/minimectl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	addr     string
	app      *factory.App
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := testutil.NopLogger()

	settings := config.Default()
	settings.Persistence.SaveFile = filepath.Join(t.TempDir(), "profiles.json")
	settings.Autosave.Interval = time.Hour

	app, err := factory.New(factory.Config{
		Settings: settings,
		Logger:   logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:    logger,
		Settings:  app.Settings,
		Store:     app.Store,
		Sessions:  app.Sessions,
		Rewards:   app.Rewards,
		Scheduler: app.Scheduler,
		Hub:       app.Hub,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		app:  app,
		shutdown: func() {
			_ = server.Close()
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response shapes for JSON parsing
type profileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
	Mood        string `json:"mood"`
	Level       int    `json:"level"`
	Stats       struct {
		Coins             int     `json:"coins"`
		Experience        int     `json:"experience"`
		Happiness         float64 `json:"happiness"`
		HomeworkCompleted int     `json:"homework_completed"`
	} `json:"stats"`
}

type statusResponse struct {
	Profiles int    `json:"profiles"`
	Dirty    bool   `json:"dirty"`
	Backend  string `json:"backend"`
}

func TestCLIFullFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	server := startTestServer(t)
	defer server.shutdown()

	cli := newCLIRunner(t, server.addr)

	// Health check
	out, err := cli.run("health")
	require.NoError(t, err, out)

	// Register a profile
	out, err = cli.run("profile", "register", "--id", "alice", "--name", "Alice")
	require.NoError(t, err, out)

	var profile profileResponse
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, "alice", profile.ID)
	assert.Equal(t, 100, profile.Stats.Coins)
	assert.Equal(t, "happy", profile.Mood)

	// Duplicate registration fails, case-insensitively
	out, err = cli.run("profile", "register", "--id", "ALICE", "--name", "Impostor")
	require.Error(t, err, out)

	// Log in and complete homework
	out, err = cli.run("session", "login", "alice")
	require.NoError(t, err, out)

	out, err = cli.run("rewards", "homework")
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, 105, profile.Stats.Coins)
	assert.Equal(t, 10, profile.Stats.Experience)
	assert.Equal(t, 1, profile.Stats.HomeworkCompleted)

	// Spending more than the balance is rejected
	out, err = cli.run("rewards", "spend", "--amount", "9999")
	require.Error(t, err, out)

	// Status reflects the unsaved mutations
	out, err = cli.run("status")
	require.NoError(t, err, out)
	var status statusResponse
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, 1, status.Profiles)
	assert.True(t, status.Dirty)
	assert.Equal(t, "file", status.Backend)

	// Force a save, then the store settles clean
	out, err = cli.run("save")
	require.NoError(t, err, out)
	require.NoError(t, server.app.Writer.Flush())

	out, err = cli.run("status")
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.False(t, status.Dirty)

	// Deactivate and verify the record survives but blocks login
	out, err = cli.run("profile", "deactivate", "alice")
	require.NoError(t, err, out)

	out, err = cli.run("session", "login", "alice")
	require.Error(t, err, out)

	out, err = cli.run("profile", "get", "alice")
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.False(t, profile.Active)
}
