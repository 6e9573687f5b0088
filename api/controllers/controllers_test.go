package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/reactmeals-backend/internal/meals"
	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
	"github.com/angelmondragon/reactmeals-backend/pkg/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubLister struct {
	list []meals.Meal
	err  error
}

func (s stubLister) List(ctx context.Context) ([]meals.Meal, error) { return s.list, s.err }

func testConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "dev"}}
}

func TestHealthLive(t *testing.T) {
	resp := httptest.NewRecorder()
	HealthLive(testConfig()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get(envHeader); got != "dev" {
		t.Fatalf("expected env header, got %q", got)
	}
}

func TestHealthReadySkipsUnconfiguredDependencies(t *testing.T) {
	handler := HealthReady(testConfig(), nil, map[string]Pinger{"db": stubPinger{}, "redis": nil})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Data struct {
			Checks map[string]string `json:"checks"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Checks["db"] != "ok" {
		t.Fatalf("expected db ok, got %v", body.Data.Checks)
	}
	if _, ok := body.Data.Checks["redis"]; ok {
		t.Fatalf("nil dependency must be skipped")
	}
}

func TestHealthReadyReportsFailures(t *testing.T) {
	handler := HealthReady(testConfig(), nil, map[string]Pinger{"db": stubPinger{err: errors.New("down")}})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}

func TestMealsList(t *testing.T) {
	lister := stubLister{list: []meals.Meal{
		{ID: "m2", Name: "Schnitzel", Description: "A german specialty!", Price: decimal.RequireFromString("16.5")},
	}}
	resp := httptest.NewRecorder()
	MealsList(lister, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/meals", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Data []mealResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Price != "16.50" || body.Data[0].Formatted != "$16.50" {
		t.Fatalf("unexpected meals %+v", body.Data)
	}
}

func TestMealsListPropagatesDependencyErrors(t *testing.T) {
	lister := stubLister{err: pkgerrors.New(pkgerrors.CodeDependency, "Something went wrong!")}
	resp := httptest.NewRecorder()
	MealsList(lister, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/meals", nil))

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
