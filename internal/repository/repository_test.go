package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/umalmyha/customer-records/internal/model"
	"github.com/umalmyha/customer-records/internal/testkit/customerfakes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectionTimeout = 3 * time.Second

const (
	pgTestUser     = "test"
	pgTestPassword = "test"
	pgTestDB       = "customers"
)

const (
	mongoTestUser     = "test"
	mongoTestPassword = "test"
	mongoTestDB       = "customers"
)

var pgPool *pgxpool.Pool
var mongoDB *mongo.Database

func TestMain(m *testing.M) {
	// build docker pool
	dockerPool, err := dockertest.NewPool("")
	if err == nil {
		err = dockerPool.Client.Ping()
	}
	if err != nil {
		logrus.Warnf("docker is unavailable, datasource tests are skipped - %v", err)
		os.Exit(m.Run())
	}

	// start postgres
	postgres, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "14-alpine",
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", pgTestUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", pgTestPassword),
			fmt.Sprintf("POSTGRES_DB=%s", pgTestDB),
		},
	}, autoRemove)
	if err != nil {
		logrus.Fatalf("failed to start postgresql - %v", err)
	}

	// start mongo
	mongodb, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5",
		Env: []string{
			fmt.Sprintf("MONGO_INITDB_ROOT_USERNAME=%s", mongoTestUser),
			fmt.Sprintf("MONGO_INITDB_ROOT_PASSWORD=%s", mongoTestPassword),
		},
	}, autoRemove)
	if err != nil {
		purge(dockerPool, postgres)
		logrus.Fatalf("failed to start mongodb - %v", err)
	}

	code := func() int {
		defer purge(dockerPool, postgres, mongodb)

		if err := connectPostgres(dockerPool, postgres); err != nil {
			logrus.Errorf("failed to prepare postgresql - %v", err)
			return 1
		}
		defer pgPool.Close()

		if err := connectMongo(dockerPool, mongodb); err != nil {
			logrus.Errorf("failed to prepare mongodb - %v", err)
			return 1
		}
		defer mongoDB.Client().Disconnect(context.Background()) //nolint:errcheck // containers are purged anyway

		return m.Run()
	}()

	os.Exit(code)
}

func autoRemove(config *docker.HostConfig) {
	config.AutoRemove = true
	config.RestartPolicy = docker.RestartPolicy{Name: "no"}
}

func purge(dockerPool *dockertest.Pool, resources ...*dockertest.Resource) {
	for _, r := range resources {
		if err := dockerPool.Purge(r); err != nil {
			logrus.Errorf("failed to purge container - %v", err)
		}
	}
}

func connectPostgres(dockerPool *dockertest.Pool, postgres *dockertest.Resource) error {
	pgURI := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", pgTestUser, pgTestPassword, postgres.GetPort("5432/tcp"), pgTestDB)
	err := dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		var err error
		pgPool, err = pgxpool.Connect(ctx, pgURI)
		if err != nil {
			return err
		}
		return pgPool.Ping(ctx)
	})
	if err != nil {
		return err
	}

	// run migrations
	migration, err := os.ReadFile(filepath.Join("..", "..", "migrations", "V1__create_customers.sql"))
	if err != nil {
		return fmt.Errorf("failed to read migrations - %w", err)
	}

	_, err = pgPool.Exec(context.Background(), string(migration))
	return err
}

func connectMongo(dockerPool *dockertest.Pool, mongodb *dockertest.Resource) error {
	mongoURI := fmt.Sprintf("mongodb://%s:%s@localhost:%s/?maxPoolSize=10", mongoTestUser, mongoTestPassword, mongodb.GetPort("27017/tcp"))
	err := dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			return err
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return err
		}
		mongoDB = client.Database(mongoTestDB)
		return nil
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()
	return EnsureMongoCustomerIndexes(ctx, mongoDB)
}

func TestPostgresCustomerRps(t *testing.T) {
	if pgPool == nil {
		t.Skip("postgres is not available")
	}

	customerRps := NewPostgresCustomerRepository(pgPool)
	t.Log("running tests for postgres")
	testCustomerRps(t, customerRps)
}

func TestMongoCustomerRps(t *testing.T) {
	if mongoDB == nil {
		t.Skip("mongo is not available")
	}

	customerRps := NewMongoCustomerRepository(mongoDB)
	t.Log("running tests for mongo")
	testCustomerRps(t, customerRps)
}

func strPtr(s string) *string {
	return &s
}

//nolint:funlen // function contains a lot of inlined tests
func testCustomerRps(t *testing.T, customerRps CustomerRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	customers := []*model.Customer{
		{
			ID:        "53b9062b-0f45-4671-8c01-52fce0d8c750",
			FirstName: strPtr("John"),
			LastName:  strPtr("Norman"),
			Gender:    strPtr("Male"),
			Email:     strPtr("johnnorman@somemal.com"),
			Phone:     strPtr("+1-202-555-0100"),
			City:      strPtr("Boston"),
		},
		{
			ID:        "48fa2e4f-7937-4257-ac61-a42ef9f45f69",
			FirstName: strPtr("Albert"),
			LastName:  strPtr("Peers"),
			Gender:    strPtr("Male"),
			Email:     strPtr("albertpeers@somemal.com"),
			Phone:     strPtr("+1-202-555-0101"),
			City:      strPtr("Boston"),
			Country:   strPtr("USA"),
		},
		{
			ID:        "3b9974de-ed71-4a5d-9121-42213e526234",
			FirstName: strPtr("Andrea"),
			Gender:    strPtr("Female"),
			Email:     strPtr("andreawallet@somemal.com"),
			Phone:     strPtr("+1-202-555-0102"),
			City:      strPtr("Denver"),
			Avatar:    strPtr("https://avatars.example.com/andrea.png"),
		},
		{
			ID:        "f917ab49-55f3-4b92-8abd-1f1124630cd9",
			FirstName: strPtr("Oliver"),
			Gender:    strPtr("Male"),
			City:      strPtr("Boston"),
		},
		{
			ID:        "0583d7f3-5ae1-416a-92fa-120851905551",
			FirstName: strPtr("Henry"),
			Gender:    strPtr("Male"),
			City:      strPtr("Denver"),
		},
	}

	boston := "Boston"
	customerJohn := customers[0]

	t.Logf("create %d customers", len(customers))
	{
		for _, c := range customers {
			err := customerRps.Create(ctx, c)
			require.NoError(t, err, "failed to create customer %s", c.ID)
		}
	}

	t.Log("customers with duplicated email or phone are rejected")
	{
		err := customerRps.Create(ctx, &model.Customer{ID: "dup-email", Email: customerJohn.Email})
		require.Error(t, err, "aimed to create customer with duplicated email but no error raised")

		err = customerRps.Create(ctx, &model.Customer{ID: "dup-phone", Phone: customerJohn.Phone})
		require.Error(t, err, "aimed to create customer with duplicated phone but no error raised")

		count, err := customerRps.Count(ctx, model.CustomerFilter{})
		require.NoError(t, err, "failed to count customers")
		require.Equal(t, len(customers), count, "duplicates must not be stored")
	}

	t.Log("second page of size 2 holds third and fourth customers")
	{
		page, err := customerRps.FindAll(ctx, model.CustomerFilter{}, 2, 2)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, page, 2)
		require.Equal(t, customers[2], page[0])
		require.Equal(t, customers[3], page[1])
	}

	t.Logf("filter customers by city %s", boston)
	{
		filter := model.CustomerFilter{City: &boston}

		filtered, err := customerRps.FindAll(ctx, filter, 10, 0)
		require.NoError(t, err, "failed to read customers")
		require.Len(t, filtered, 3)
		for _, c := range filtered {
			require.Equal(t, boston, *c.City)
		}

		count, err := customerRps.Count(ctx, filter)
		require.NoError(t, err, "failed to count customers")
		require.Equal(t, 3, count)
	}

	t.Log("find customer by email and phone")
	{
		c, err := customerRps.FindByEmail(ctx, *customerJohn.Email)
		require.NoError(t, err, "failed to read customer by email")
		require.Equal(t, customerJohn, c)

		c, err = customerRps.FindByPhone(ctx, *customers[1].Phone)
		require.NoError(t, err, "failed to read customer by phone")
		require.Equal(t, customers[1], c)

		c, err = customerRps.FindByEmail(ctx, "nobody@somemail.com")
		require.NoError(t, err, "failed to read customer by email")
		require.Nil(t, c, "no customer has such email")
	}

	t.Logf("patch customer %s", customerJohn.ID)
	{
		patch := model.CustomerPatch{City: model.Some("Chicago"), Address: model.Some("1 Main St"), Phone: model.Null()}

		c, err := customerRps.Update(ctx, customerJohn.ID, patch)
		require.NoError(t, err, "failed to update customer")

		expected := customerfakes.Patched(*customerJohn, patch)
		require.Equal(t, &expected, c, "only patched fields must be changed")

		dbCustomer, err := customerRps.FindByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to read customer")
		require.Equal(t, &expected, dbCustomer, "customer is in database, but wasn't updated correctly")
	}

	t.Log("patch leading to duplicated email is rejected")
	{
		_, err := customerRps.Update(ctx, customers[1].ID, model.CustomerPatch{Email: model.Some(*customers[2].Email)})
		require.Error(t, err, "aimed to duplicate email but no error raised")
	}

	t.Log("patch unknown customer")
	{
		c, err := customerRps.Update(ctx, "unknown-id", model.CustomerPatch{City: model.Some("Chicago")})
		require.NoError(t, err, "no error must be raised")
		require.Nil(t, c, "customer must not be found")
	}

	t.Logf("delete customer by id %s", customerJohn.ID)
	{
		deleted, err := customerRps.DeleteByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to delete customer")
		require.True(t, deleted, "customer must be deleted")

		dbCustomer, err := customerRps.FindByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to read customer by id")
		require.Nil(t, dbCustomer, "customer was deleted, but still present in database")

		deleted, err = customerRps.DeleteByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to delete customer")
		require.False(t, deleted, "customer is already deleted")
	}

	t.Logf("verify %d entries left", len(customers)-1)
	{
		count, err := customerRps.Count(ctx, model.CustomerFilter{})
		require.NoError(t, err, "failed to count customers")
		require.Equal(t, len(customers)-1, count, "there must be %d customers in database, but got %d", len(customers)-1, count)
	}
}
