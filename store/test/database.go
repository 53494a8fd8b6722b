package test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tidepool-org/careprofiles/store"
	"github.com/tidepool-org/careprofiles/test"
)

const (
	HostEnvName     = "CAREPROFILES_TEST_MONGO_HOST"
	defaultTestHost = "mongodb://127.0.0.1:27017"
	mongoTimeout    = time.Second * 5
)

var database *mongo.Database

func testHost() string {
	if host := os.Getenv(HostEnvName); host != "" {
		return host
	}
	return defaultTestHost
}

// SetupDatabase connects to the test server and selects a database unique to
// the ginkgo process, so parallel suites never share collections.
func SetupDatabase() {
	client, err := store.NewClient(testHost())
	Expect(err).ToNot(HaveOccurred())

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	Expect(client.Ping(ctx, nil)).To(Succeed())

	name := fmt.Sprintf("careprofiles_test_%s_%d", test.Faker.Lorem().Word(), ginkgo.GinkgoParallelProcess())
	database, err = store.NewDatabase(client, &store.Config{DatabaseName: name})
	Expect(err).ToNot(HaveOccurred())
}

func TeardownDatabase() {
	Expect(database).ToNot(BeNil())
	Expect(database.Drop(context.Background())).To(Succeed())

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	Expect(database.Client().Disconnect(ctx)).To(Succeed())
	database = nil
}

func GetTestDatabase() *mongo.Database {
	Expect(database).ToNot(BeNil())
	return database
}
