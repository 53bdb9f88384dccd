//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"review_demand/internal/domain"
	mysqlrepo "review_demand/internal/storage/mysql"
)

// migrationsDir honours MIGRATIONS_DIR and falls back to the repo's migrations/.
func migrationsDir(t *testing.T) string {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "..", "migrations")
	}
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("migrations dir %s is not a directory or missing", dir)
	}
	return dir
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir(t)

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// startMySQL runs an isolated MySQL; Docker picks a free host port.
func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=demand",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/demand?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func TestRepo_MySQL_ReportsAndMisses(t *testing.T) {
	repo := mysqlrepo.New(startMySQL(t))
	ctx := context.Background()

	if _, err := repo.LatestReport(ctx, "parks", "Berlin"); err != domain.ErrNotFound {
		t.Fatalf("LatestReport on empty table: want ErrNotFound, got %v", err)
	}

	older := sampleRecord()
	newer := sampleRecord()
	newer.ID = "6f1c2b1e-0000-4000-8000-000000000002"
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	newer.Report.Analysis.TotalReviewsAnalyzed = 9

	for _, rec := range []domain.ReportRecord{older, newer} {
		if err := repo.SaveReport(ctx, rec); err != nil {
			t.Fatalf("SaveReport: %v", err)
		}
	}

	got, err := repo.LatestReport(ctx, "parks", "Berlin")
	if err != nil {
		t.Fatalf("LatestReport: %v", err)
	}
	if got.ID != newer.ID || got.Report.Analysis.TotalReviewsAnalyzed != 9 {
		t.Fatalf("unexpected latest report: %+v", got)
	}
	if len(got.Report.Analysis.UnmetNeeds) != 1 || got.Report.Analysis.UnmetNeeds[0].Term != "toilets" {
		t.Fatalf("payload round trip lost unmet needs: %+v", got.Report.Analysis.UnmetNeeds)
	}

	list, err := repo.ListReports(ctx, 10)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Fatalf("unexpected list order: %+v", list)
	}

	if err := repo.LogMiss(ctx, "gone", 404, "not_found"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}
	if err := repo.LogMiss(ctx, "gone", 403, "forbidden"); err != nil {
		t.Fatalf("LogMiss again: %v", err)
	}
	status, reason, err := repo.Miss(ctx, "gone")
	if err != nil {
		t.Fatalf("Miss: %v", err)
	}
	if status != 403 || reason != "forbidden" {
		t.Fatalf("latest miss should win, got %d %s", status, reason)
	}
}
