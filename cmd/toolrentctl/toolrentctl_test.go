package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"toolrent/internal/availability"
	"toolrent/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogTOML = `
owner_id = "owner-1"
owner_phone = "+16502530000"
currency = "EUR"
city = "Lisbon"

[[tools]]
name = "Cordless drill"
category = "power_tools"
daily_rate = 1200

[[tools]]
name = "Ladder"
category = "ladders"
city = "Porto"
daily_rate = 800
owner_id = "owner-2"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCatalog(t *testing.T) {
	catalog, err := LoadCatalog(writeFile(t, "catalog.toml", catalogTOML))
	require.NoError(t, err)

	tools := catalog.Models()
	require.Len(t, tools, 2)

	assert.Equal(t, "owner-1", tools[0].OwnerID)
	assert.Equal(t, "Lisbon", tools[0].City)
	assert.Equal(t, "EUR", tools[0].Currency)
	assert.Equal(t, int64(1200), tools[0].DailyRate)

	assert.Equal(t, "owner-2", tools[1].OwnerID)
	assert.Equal(t, "Porto", tools[1].City)
	assert.Equal(t, "+16502530000", tools[1].OwnerPhone)
}

func TestLoadCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", `owner_id = "owner-1"`},
		{"unknown key", "[[tools]]\nname = \"Saw\"\ncolour = \"red\"\n"},
		{"malformed", "[[tools]\nname = "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeFile(t, "catalog.toml", tt.content))
			assert.Error(t, err)
		})
	}

	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

type fakeCreator struct {
	fail map[string]bool
}

func (f fakeCreator) CreateTool(_ context.Context, tool model.Tool) (*model.Tool, error) {
	if f.fail[tool.Name] {
		return nil, errors.New("rejected")
	}
	tool.ID = "507f1f77bcf86cd799439011"
	return &tool, nil
}

func TestSeedCatalog(t *testing.T) {
	tools := []model.Tool{{Name: "Drill"}, {Name: "Ladder"}}

	var out bytes.Buffer
	require.NoError(t, seedCatalog(context.Background(), &out, fakeCreator{}, tools))
	assert.Contains(t, out.String(), "OK   507f1f77bcf86cd799439011 Drill")

	out.Reset()
	err := seedCatalog(context.Background(), &out, fakeCreator{fail: map[string]bool{"Ladder": true}}, tools)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out.String(), "FAIL Ladder: rejected")
}

func bookingsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/bookings/availability", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		result := model.AvailabilityResult{
			ToolID:    q.Get("tool_id"),
			StartDate: q.Get("start_date"),
			EndDate:   q.Get("end_date"),
			Conflict:  &availability.Period{StartDate: "2026-08-02", EndDate: "2026-08-04"},
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": result})
	})
	mux.HandleFunc("/api/v1/bookings/blocked-dates", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tool_id") == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "tool_id is required", "code": "VALIDATION_ERROR"})
			return
		}
		blocked := model.BlockedDates{ToolID: "t1", Dates: []string{"2026-08-02", "2026-08-03"}}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": blocked})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("JWT_SECRET", "")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	server := bookingsServer(t)

	out, err := runCLI(t, "check", "--bookings-url", server.URL, "--tool", "t1", "--start", "2026-08-01", "--end", "2026-08-03")
	require.NoError(t, err)
	assert.Equal(t, "unavailable: conflicts with 2026-08-02..2026-08-04\n", out)
}

func TestCheckCommand_RequiresFlags(t *testing.T) {
	_, err := runCLI(t, "check", "--tool", "t1")
	assert.Error(t, err)
}

func TestBlockedDatesCommand(t *testing.T) {
	server := bookingsServer(t)

	out, err := runCLI(t, "blocked-dates", "--bookings-url", server.URL, "--tool", "t1")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-02\n2026-08-03\n", out)
}

func TestPrintAvailability(t *testing.T) {
	var out bytes.Buffer
	printAvailability(&out, &model.AvailabilityResult{StartDate: "2026-08-01", EndDate: "2026-08-03", Available: true})
	assert.Equal(t, "available 2026-08-01..2026-08-03\n", out.String())
}

func TestTokenIssuedWhenSecretSet(t *testing.T) {
	opts := &rootOptions{subject: "ops"}

	t.Setenv("JWT_SECRET", "")
	token, err := opts.token()
	require.NoError(t, err)
	assert.Empty(t, token)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	token, err = opts.token()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
