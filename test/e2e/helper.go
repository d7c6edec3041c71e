package e2e

import (
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/lib/pq"

	"github.com/vakildesk/dwarpal/internal/handlers"
	"github.com/vakildesk/dwarpal/internal/infrastructure/config"
	"github.com/vakildesk/dwarpal/internal/infrastructure/database"
	"github.com/vakildesk/dwarpal/internal/infrastructure/metrics"
	"github.com/vakildesk/dwarpal/internal/repositories/postgres"
	"github.com/vakildesk/dwarpal/internal/services"
	"github.com/vakildesk/dwarpal/internal/services/access"
	"github.com/vakildesk/dwarpal/pkg/cache/memorycache"
)

// TestServer hosts the full HTTP stack over a real database.
type TestServer struct {
	Server *httptest.Server
	DB     *sql.DB
}

// SetupE2ETest wires repositories, services and handlers against the
// test database and serves them over httptest. Tests are skipped when
// no test database is reachable.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	if err := config.InitConfig("test"); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Skipf("skipping: test database not configured: %v", err)
	}

	pg, err := database.NewPostgres(&cfg.Database)
	if err != nil {
		t.Skipf("skipping: test database not reachable: %v", err)
	}

	if err := pg.RunMigrations("../../internal/infrastructure/database/migrations/postgres"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	employeeRepo := postgres.NewPostgresEmployeeRepository(pg.DB)
	grantRepo := postgres.NewPostgresGrantRepository(pg.DB)

	decisionCache, err := memorycache.New(&memorycache.Config{
		MaxSizeBytes: 16 * 1024 * 1024,
		DefaultTTL:   time.Minute,
	})
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	directoryService := services.NewDirectoryServiceWithCache(employeeRepo, decisionCache, time.Minute)
	policyService := services.NewPolicyServiceWithCache(grantRepo, decisionCache, time.Minute)
	mapper := access.NewRoleMapper()
	// Decision caching trades freshness for speed; scenarios here mutate
	// grants and employees, so the checker evaluates uncached.
	checker := access.NewChecker(directoryService, policyService, mapper)
	resolver := access.NewScopeResolver(directoryService)

	collector := metrics.NewCollector()
	router := handlers.NewRouter(
		handlers.NewAccessHandler(checker, resolver, collector, nil),
		handlers.NewDirectoryHandler(directoryService),
		handlers.NewPolicyHandler(policyService),
		collector,
		nil,
		pg.HealthCheck,
	)

	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		decisionCache.Close()
		for _, table := range []string{"role_grants", "employees"} {
			if _, err := pg.DB.Exec("DELETE FROM " + table); err != nil {
				t.Logf("warning: failed to clean up table %s: %v", table, err)
			}
		}
		if err := pg.Close(); err != nil {
			t.Logf("warning: failed to close database: %v", err)
		}
	})

	return &TestServer{Server: server, DB: pg.DB}
}
