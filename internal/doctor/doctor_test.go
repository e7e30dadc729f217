package doctor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/gesturelab/gestured/internal/config"
)

func TestReportOKAndString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "one", Pass: true, Message: "good"},
		{Name: "two", Pass: false, Message: "bad"},
	}}

	require.False(t, report.OK())
	text := report.String()
	require.Contains(t, text, "[OK] one: good")
	require.Contains(t, text, "[FAIL] two: bad")
}

func TestReportOKAllPassing(t *testing.T) {
	report := Report{Checks: []Check{{Name: "one", Pass: true}, {Name: "two", Pass: true}}}
	require.True(t, report.OK())
}

func TestCheckEnv(t *testing.T) {
	t.Setenv("TEST_DOCTOR_ENV", "/run/user/1000")

	check := checkEnv(
		"TEST_DOCTOR_ENV",
		func(v string) bool { return strings.TrimSpace(v) != "" },
		"looks good",
		"unexpected",
	)

	require.True(t, check.Pass)
	require.Equal(t, "looks good", check.Message)
}

func TestCheckBridgeReachableSuccess(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Hold until the client drops.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Bridge.Endpoint = "ws" + strings.TrimPrefix(server.URL, "http")

	check := checkBridgeReachable(cfg)
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "gateway reachable")
}

func TestCheckBridgeReachableDialFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Bridge.Endpoint = "ws://127.0.0.1:1/uart"

	check := checkBridgeReachable(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "dial")
}

func TestCheckBridgeReachableEmptyEndpoint(t *testing.T) {
	cfg := config.Default()
	cfg.Bridge.Endpoint = ""

	check := checkBridgeReachable(cfg)
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "bridge.endpoint is empty")
}

func TestRunIncludesCoreChecks(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	cfg := config.Default()
	cfg.Bridge.Endpoint = "ws://127.0.0.1:1/uart"

	report := Run(config.Loaded{Path: "/tmp/config.yaml", Config: cfg, Exists: true})
	require.NotEmpty(t, report.Checks)

	names := map[string]bool{}
	for _, check := range report.Checks {
		names[check.Name] = true
	}
	require.True(t, names["config"])
	require.True(t, names["XDG_RUNTIME_DIR"])
	require.True(t, names["gestures"])
	require.True(t, names["bridge.endpoint"])
}

func TestRunReportsMissingConfigFile(t *testing.T) {
	cfg := config.Default()
	report := Run(config.Loaded{
		Path:     "/tmp/absent.yaml",
		Config:   cfg,
		Warnings: []config.Warning{{Message: `config file "/tmp/absent.yaml" not found; using defaults`}},
		Exists:   false,
	})

	var configCheck Check
	for _, check := range report.Checks {
		if check.Name == "config" {
			configCheck = check
			break
		}
	}
	require.True(t, configCheck.Pass)
	require.Contains(t, configCheck.Message, "not found")
}
