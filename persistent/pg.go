package persistent

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"reflect"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	_ "github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

func PgOpen(ctx context.Context, pgDsn string, verbose bool) *bun.DB {
	sqldb, err := sql.Open("pg", pgDsn)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not open pg database.")
	}
	err = sqldb.PingContext(ctx)
	if err != nil {
		logrus.WithError(err).Fatalln("Could not ping pg database.")
	}

	bdb := bun.NewDB(sqldb, pgdialect.New())
	if verbose {
		bdb.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return bdb
}

// Models lists every table the persistent stores use.
func Models() []interface{} {
	return []interface{}{
		(*ProfileDump)(nil),
		(*ActivityLog)(nil),
	}
}

func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		modelType := reflect.TypeOf(model)
		logrus.WithField("model", modelType).Debugln("Creating table.")
		_, err := db.NewCreateTable().IfNotExists().Model(model).Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table %s: %w", modelType, err)
		}
	}
	return nil
}

// Running integration tests requires real pg db instance, but we
// don't have enought time to start db for every test so we will start db once
// (see testenv) and then pass datasource to as many tests as we want.

func PgOpenTest(ctx context.Context) *bun.DB {
	db := PgOpen(ctx, TestEnvDsn(), os.Getenv("DB_VERBOSE") == "true")
	if err := CreateSchema(ctx, db); err != nil {
		logrus.WithError(err).Fatalln("Could not create test schema.")
	}
	return db
}

func TestEnvDsn() string {
	return os.Getenv("PGDB_DSN")
}

func SetTestEnvDsn(dsn string) {
	os.Setenv("PGDB_DSN", dsn)
}
