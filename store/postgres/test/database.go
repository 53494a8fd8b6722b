package test

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/careprofiles/store/postgres"
)

const DSNEnvName = "CAREPROFILES_TEST_POSTGRES_DSN"

var pool *pgxpool.Pool

// SetupPool connects to the database named by CAREPROFILES_TEST_POSTGRES_DSN.
// Suites are skipped when it is not set.
func SetupPool() {
	dsn := os.Getenv(DSNEnvName)
	if dsn == "" {
		ginkgo.Skip(DSNEnvName + " is not set")
	}

	var err error
	pool, err = postgres.NewPool(context.Background(), &postgres.Config{DSN: dsn, MaxConns: 4, ApplicationName: "careprofiles-test"})
	Expect(err).ToNot(HaveOccurred())
	Expect(pool.Ping(context.Background())).To(Succeed())
}

func TeardownPool() {
	if pool != nil {
		pool.Close()
		pool = nil
	}
}

func GetTestPool() *pgxpool.Pool {
	if pool == nil {
		ginkgo.Skip(DSNEnvName + " is not set")
	}
	return pool
}
