// Command testenv starts a throwaway postgres container, creates the userconf
// schema in it and runs `go test` against it with PGDB_DSN set.
//
//	go run ./testenv -pkg ./persistent/...
package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base32"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/buzkaaclicker/userconf/persistent"
	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	_ "github.com/uptrace/bun/driver/pgdriver"
)

var (
	pkgFlag     = flag.String("pkg", "./...", "package pattern passed to go test")
	pgTagFlag   = flag.String("pg-tag", "14.1", "postgres image tag")
	maxWaitFlag = flag.Duration("max-wait", 10*time.Second, "how long to wait for postgres to accept connections")
	verboseFlag = flag.Bool("v", false, "verbose go test output")
)

func main() {
	flag.Parse()

	logrus.WithField("tag", *pgTagFlag).Println("Starting postgres container.")
	pgDsn, shutdownPg, err := startPostgres(*pgTagFlag, *maxWaitFlag)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not start test database.")
	}
	persistent.SetTestEnvDsn(pgDsn)

	logrus.WithField("pkg", *pkgFlag).Println("Running tests...")
	code := runTests(*pkgFlag, *verboseFlag)

	logrus.Println("Tests done. Shutting down test db.")
	shutdownPg()
	os.Exit(code)
}

func runTests(pkg string, verbose bool) int {
	args := []string{"test", "-count=1"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, pkg)

	c := exec.Command("go", args...)
	c.Env = os.Environ()
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		logrus.WithError(err).Errorln("Could not run test command.")
		return 1
	}
	return 0
}

// startPostgres runs a postgres container with a random password and waits
// until the schema can be created. Returns the dsn and a purge func.
func startPostgres(tag string, maxWait time.Duration) (string, func(), error) {
	passBytes := make([]byte, 30)
	if _, err := rand.Read(passBytes); err != nil {
		return "", nil, fmt.Errorf("password generate: %w", err)
	}
	password := base32.StdEncoding.EncodeToString(passBytes)

	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", nil, fmt.Errorf("docker connect: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        tag,
		Env:        []string{"POSTGRES_PASSWORD=" + password},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", nil, fmt.Errorf("resource start: %w", err)
	}
	resource.Expire(120)
	purge := func() {
		if err := pool.Purge(resource); err != nil {
			logrus.WithError(err).Warningln("Could not purge resource.")
		}
	}

	pgDsn := fmt.Sprintf("postgresql://postgres:%s@localhost:%s/postgres?sslmode=disable",
		password, resource.GetPort("5432/tcp"))
	pool.MaxWait = maxWait
	err = pool.Retry(func() error {
		return prepareSchema(pgDsn)
	})
	if err != nil {
		purge()
		return "", nil, fmt.Errorf("database connect: %w", err)
	}
	return pgDsn, purge, nil
}

func prepareSchema(pgDsn string) error {
	sqldb, err := sql.Open("pg", pgDsn)
	if err != nil {
		return fmt.Errorf("sql open: %w", err)
	}
	bdb := bun.NewDB(sqldb, pgdialect.New())
	defer bdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := bdb.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := persistent.CreateSchema(ctx, bdb); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
