//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"toolrent/pkg/client"
	"toolrent/pkg/middleware"
)

const (
	DefaultHealthCheckTimeout = 30 * time.Second
	TokenTTL                  = 10 * time.Minute
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	BookingsURL  string
	ToolsURL     string
	JWTSecret    string
	JWTIssuer    string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		BookingsURL:  getEnv("TEST_BOOKINGS_URL", "http://localhost:8080"),
		ToolsURL:     getEnv("TEST_TOOLS_URL", "http://localhost:8081"),
		JWTSecret:    os.Getenv("TEST_JWT_SECRET"),
		JWTIssuer:    getEnv("TEST_JWT_ISSUER", "toolrent-identity"),
	}
}

// Setup resets the database and waits for both services.
func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)
	mongo.Migrate(t)

	ctx := context.Background()
	for _, url := range []string{e.BookingsURL, e.ToolsURL} {
		if err := client.NewHttpClient(url).WaitForHealthy(ctx, DefaultHealthCheckTimeout); err != nil {
			t.Fatalf("service at %s not healthy: %v", url, err)
		}
	}
	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

// Token returns a bearer token for subject, or "" when the services run
// without authentication.
func (e *TestEnv) Token(t *testing.T, subject string) string {
	t.Helper()
	if e.JWTSecret == "" {
		return ""
	}
	token, err := middleware.IssueToken([]byte(e.JWTSecret), e.JWTIssuer, subject, TokenTTL)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func (e *TestEnv) Bookings(t *testing.T, subject string) *client.BookingClient {
	t.Helper()
	return client.NewBookingClient(e.BookingsURL).WithToken(e.Token(t, subject))
}

func (e *TestEnv) Tools(t *testing.T, subject string) *client.ToolClient {
	t.Helper()
	return client.NewToolClient(e.ToolsURL).WithToken(e.Token(t, subject))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
