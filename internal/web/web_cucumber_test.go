//go:build cucumber

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"mcquiz/internal/game"
	"mcquiz/internal/quiz"
	"mcquiz/internal/store/memory"
)

// TestWebQuizScenarios runs the browser quiz feature scenarios.
func TestWebQuizScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "features", "web-quiz.feature")
	suite := godog.TestSuite{
		Name:                "web-quiz",
		ScenarioInitializer: InitializeWebScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeWebScenario wires steps for browser quiz scenarios.
func InitializeWebScenario(ctx *godog.ScenarioContext) {
	state := &webScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		state.close()
		return ctx, nil
	})

	ctx.Step(`^a running quiz server$`, state.givenServer)
	ctx.Step(`^I paste the questions:$`, state.whenIPaste)
	ctx.Step(`^I choose "([^"]+)"$`, state.whenIChoose)
	ctx.Step(`^I press "([^"]+)"$`, state.whenIPress)
	ctx.Step(`^the page shows "([^"]+)"$`, state.thenPageShows)
	ctx.Step(`^the state phase is "([^"]+)"$`, state.thenPhase)
}

type webScenarioState struct {
	server *httptest.Server
	client *http.Client
	page   string
}

func (s *webScenarioState) reset() {
	s.close()
	s.client = nil
	s.page = ""
}

func (s *webScenarioState) close() {
	if s.server != nil {
		s.server.Close()
		s.server = nil
	}
}

// givenServer starts a handler backed by the memory store.
func (s *webScenarioState) givenServer() error {
	logger := log.New(io.Discard, "", 0)
	svc, err := game.New(game.Config{Store: memory.New(time.Hour), Logger: logger})
	if err != nil {
		return err
	}
	handler, err := NewHandler(Config{Game: svc, Logger: logger})
	if err != nil {
		return err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	s.server = httptest.NewServer(handler)
	s.client = &http.Client{Jar: jar}
	return nil
}

func (s *webScenarioState) post(path string, values url.Values) error {
	resp, err := s.client.PostForm(s.server.URL+path, values)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("POST %s: status %d", path, resp.StatusCode)
	}
	s.page = string(body)
	return nil
}

func (s *webScenarioState) whenIPaste(doc *godog.DocString) error {
	return s.post("/load", url.Values{"text": {doc.Content}})
}

func (s *webScenarioState) whenIChoose(option string) error {
	return s.post("/submit", url.Values{"option": {option}})
}

func (s *webScenarioState) whenIPress(action string) error {
	return s.post("/"+action, url.Values{})
}

func (s *webScenarioState) thenPageShows(text string) error {
	if !strings.Contains(s.page, text) {
		return fmt.Errorf("expected page to contain %q", text)
	}
	return nil
}

func (s *webScenarioState) thenPhase(expected string) error {
	resp, err := s.client.Get(s.server.URL + "/api/state")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	var snap quiz.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return err
	}
	if string(snap.Phase) != expected {
		return fmt.Errorf("expected phase %q, got %q", expected, snap.Phase)
	}
	return nil
}
