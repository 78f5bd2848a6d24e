package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/sangsom/minime/internal/api"
	"github.com/sangsom/minime/internal/api/apierr"
	"github.com/sangsom/minime/internal/api/response"
	"github.com/sangsom/minime/internal/config"
	"github.com/sangsom/minime/internal/factory"
	"github.com/sangsom/minime/internal/testutil"
)

type APISuite struct {
	suite.Suite

	app    *factory.App
	server *httptest.Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	settings := config.Default()
	settings.Persistence.SaveFile = filepath.Join(s.T().TempDir(), "profiles.json")
	settings.Autosave.Interval = time.Hour

	app, err := factory.New(factory.Config{
		Settings: settings,
		Logger:   testutil.NopLogger(),
	})
	s.Require().NoError(err)
	s.app = app

	router := api.NewRouter(api.RouterConfig{
		Logger:    testutil.NopLogger(),
		Settings:  app.Settings,
		Store:     app.Store,
		Sessions:  app.Sessions,
		Rewards:   app.Rewards,
		Scheduler: app.Scheduler,
		Hub:       app.Hub,
	})
	s.server = httptest.NewServer(router)
}

func (s *APISuite) TearDownTest() {
	s.server.Close()
	s.Require().NoError(s.app.Close())
}

func (s *APISuite) do(method, path string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.server.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *APISuite) decode(resp *http.Response, out any) {
	defer resp.Body.Close()
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
}

func (s *APISuite) errorCode(resp *http.Response) string {
	var body apierr.ErrorResponse
	s.decode(resp, &body)
	return body.Error.Code
}

func (s *APISuite) register(id, name string) response.Profile {
	resp := s.do(http.MethodPost, "/api/v1/profiles", map[string]string{
		"id": id, "display_name": name,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	var profile response.Profile
	s.decode(resp, &profile)
	return profile
}

func (s *APISuite) login(id string) {
	resp := s.do(http.MethodPost, "/api/v1/session/login", map[string]string{"id": id})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *APISuite) TestRegisterAppliesDefaults() {
	profile := s.register("alice", "Alice")

	s.Equal("alice", profile.ID)
	s.Equal("Alice", profile.DisplayName)
	s.True(profile.Active)
	s.Equal(100, profile.Stats.Coins)
	s.Equal(75.0, profile.Stats.Happiness)
	s.Equal("default", profile.Customization.Outfit)
	s.Equal(1.0, profile.Customization.EyeScale)
	s.Equal("happy", profile.Mood)
	s.Equal(1, profile.Level)
}

func (s *APISuite) TestRegisterGeneratesIDWhenOmitted() {
	resp := s.do(http.MethodPost, "/api/v1/profiles", map[string]string{
		"display_name": "Anon",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var profile response.Profile
	s.decode(resp, &profile)
	s.NotEmpty(profile.ID)
}

func (s *APISuite) TestRegisterDuplicateConflicts() {
	s.register("bob", "Bob")

	resp := s.do(http.MethodPost, "/api/v1/profiles", map[string]string{
		"id": "BOB", "display_name": "Other Bob",
	})
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal(apierr.CodeDuplicateID, s.errorCode(resp))
}

func (s *APISuite) TestRegisterRequiresDisplayName() {
	resp := s.do(http.MethodPost, "/api/v1/profiles", map[string]string{"id": "carol"})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *APISuite) TestGetUnknownProfile() {
	resp := s.do(http.MethodGet, "/api/v1/profiles/nobody", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(apierr.CodeProfileNotFound, s.errorCode(resp))
}

func (s *APISuite) TestListPreservesRegistrationOrder() {
	s.register("carol", "Carol")
	s.register("alice", "Alice")

	resp := s.do(http.MethodGet, "/api/v1/profiles", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var list response.ProfileList
	s.decode(resp, &list)
	s.Require().Equal(2, list.Count)
	s.Equal("carol", list.Profiles[0].ID)
	s.Equal("alice", list.Profiles[1].ID)
}

func (s *APISuite) TestSessionLifecycle() {
	s.register("alice", "Alice")

	resp := s.do(http.MethodGet, "/api/v1/session", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(apierr.CodeNoSession, s.errorCode(resp))

	s.login("alice")

	resp = s.do(http.MethodGet, "/api/v1/session", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var profile response.Profile
	s.decode(resp, &profile)
	s.Equal("alice", profile.ID)

	resp = s.do(http.MethodPost, "/api/v1/session/logout", nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/api/v1/session", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *APISuite) TestHomeworkRewards() {
	s.register("alice", "Alice")
	s.login("alice")

	resp := s.do(http.MethodPost, "/api/v1/rewards/homework", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var profile response.Profile
	s.decode(resp, &profile)
	s.Equal(105, profile.Stats.Coins)
	s.Equal(10, profile.Stats.Experience)
	s.Equal(80.0, profile.Stats.Happiness)
	s.Equal(1, profile.Stats.HomeworkCompleted)
}

func (s *APISuite) TestRewardsRequireSession() {
	resp := s.do(http.MethodPost, "/api/v1/rewards/homework", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal(apierr.CodeNoSession, s.errorCode(resp))
}

func (s *APISuite) TestSpendBeyondBalance() {
	s.register("alice", "Alice")
	s.login("alice")

	resp := s.do(http.MethodPost, "/api/v1/rewards/coins/spend", map[string]int{"amount": 500})
	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal(apierr.CodeInsufficientCoins, s.errorCode(resp))

	// Balance untouched by the rejected spend
	resp = s.do(http.MethodGet, "/api/v1/session", nil)
	var profile response.Profile
	s.decode(resp, &profile)
	s.Equal(100, profile.Stats.Coins)
}

func (s *APISuite) TestDecayRunsMetersDown() {
	s.register("alice", "Alice")
	s.login("alice")

	resp := s.do(http.MethodPost, "/api/v1/rewards/decay", map[string]float64{"hours": 2})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var profile response.Profile
	s.decode(resp, &profile)
	s.InDelta(92.0, profile.Stats.Hunger, 1e-9)
	s.InDelta(96.0, profile.Stats.Energy, 1e-9)
	s.InDelta(73.0, profile.Stats.Happiness, 1e-9)
}

func (s *APISuite) TestCustomizationClamped() {
	s.register("alice", "Alice")
	s.login("alice")

	resp := s.do(http.MethodPatch, "/api/v1/profile/customization", map[string]any{
		"eye_scale": 5.0,
		"outfit":    "wizard",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var profile response.Profile
	s.decode(resp, &profile)
	s.Equal(2.0, profile.Customization.EyeScale)
	s.Equal("wizard", profile.Customization.Outfit)
}

func (s *APISuite) TestCustomizationRequiresFields() {
	s.register("alice", "Alice")
	s.login("alice")

	resp := s.do(http.MethodPatch, "/api/v1/profile/customization", map[string]any{})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func (s *APISuite) TestRename() {
	s.register("alice", "Alice")
	s.login("alice")

	resp := s.do(http.MethodPatch, "/api/v1/profile", map[string]string{"display_name": "Alicia"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var profile response.Profile
	s.decode(resp, &profile)
	s.Equal("Alicia", profile.DisplayName)
}

func (s *APISuite) TestDeactivateBlocksLogin() {
	s.register("alice", "Alice")

	resp := s.do(http.MethodDelete, "/api/v1/profiles/alice", nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/api/v1/session/login", map[string]string{"id": "alice"})
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The record itself is retained
	resp = s.do(http.MethodGet, "/api/v1/profiles/alice", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var profile response.Profile
	s.decode(resp, &profile)
	s.False(profile.Active)
}

func (s *APISuite) TestSaveAndStatus() {
	s.register("alice", "Alice")

	resp := s.do(http.MethodPost, "/api/v1/save", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var saved response.SaveResult
	s.decode(resp, &saved)
	s.True(saved.Saved)

	s.Require().NoError(s.app.Writer.Flush())

	resp = s.do(http.MethodGet, "/api/v1/status", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var status response.Status
	s.decode(resp, &status)
	s.Equal(1, status.Profiles)
	s.False(status.Dirty)
	s.Equal(config.BackendFile, status.Backend)

	// Nothing dirty, so a second save is a no-op
	resp = s.do(http.MethodPost, "/api/v1/save", nil)
	s.decode(resp, &saved)
	s.False(saved.Saved)
}

func (s *APISuite) TestHealth() {
	resp := s.do(http.MethodGet, "/api/v1/health", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (s *APISuite) TestEventStreamDeliversLogin() {
	s.register("alice", "Alice")

	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/api/v1/events", nil)
	s.Require().NoError(err)
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	s.login("alice")

	// Read until the login event arrives or the buffer runs out
	buf := make([]byte, 4096)
	deadline := time.Now().Add(2 * time.Second)
	var seen string
	for time.Now().Before(deadline) {
		n, readErr := resp.Body.Read(buf)
		seen += string(buf[:n])
		if readErr != nil {
			break
		}
		if bytes.Contains([]byte(seen), []byte("event: login")) {
			break
		}
	}
	s.Contains(seen, "event: login")
}

func TestRouterUnknownRoute(t *testing.T) {
	settings := config.Default()
	settings.Persistence.SaveFile = filepath.Join(t.TempDir(), "profiles.json")

	app, err := factory.New(factory.Config{Settings: settings, Logger: testutil.NopLogger()})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = app.Close() }()

	router := api.NewRouter(api.RouterConfig{
		Logger:    testutil.NopLogger(),
		Settings:  app.Settings,
		Store:     app.Store,
		Sessions:  app.Sessions,
		Rewards:   app.Rewards,
		Scheduler: app.Scheduler,
		Hub:       app.Hub,
	})

	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := server.Client().Get(fmt.Sprintf("%s/api/v1/nope", server.URL))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
