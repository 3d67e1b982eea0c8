package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func postJSON(target string, body interface{}) *http.Request {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNewApp_HealthEndpoint(t *testing.T) {
	viper.Set("JWT_SECRET", "test-secret")
	app := NewApp(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestNewApp_ProtectedRoutesRequireAuth(t *testing.T) {
	viper.Set("JWT_SECRET", "test-secret")
	app := NewApp(nil)

	for _, target := range []string{
		"/api/v1/exercises/",
		"/api/v1/workouts/",
		"/api/v1/reports/volume",
		"/api/v1/reports/records",
	} {
		resp, err := app.Test(httptest.NewRequest("GET", target, nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, target)
		resp.Body.Close()
	}
}

func TestNewApp_RegisterAndListSeededCatalogue(t *testing.T) {
	viper.Set("JWT_SECRET", "test-secret")
	app := NewApp(nil)

	resp, err := app.Test(postJSON("/api/v1/auth/register", fiber.Map{
		"username": "newcomer",
		"email":    "newcomer@example.com",
		"password": "secret123",
	}))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(postJSON("/api/v1/auth/login", fiber.Map{
		"username": "newcomer",
		"password": "secret123",
	}))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	resp.Body.Close()
	assert.NotEmpty(t, login.Token)

	// The seeded public catalogue is visible to the fresh viewer.
	req := httptest.NewRequest("GET", "/api/v1/exercises/", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var catalogue []map[string]interface{}
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&catalogue))
	resp.Body.Close()
	assert.Len(t, catalogue, 4)
}
