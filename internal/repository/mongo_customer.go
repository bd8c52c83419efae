package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/umalmyha/customer-records/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	customersCollection = "customers"
	countersCollection  = "counters"
)

type mongoCustomer struct {
	model.Customer `bson:",inline"`
	Seq            int64 `bson:"seq"`
}

type mongoCustomerRepository struct {
	customers *mongo.Collection
	counters  *mongo.Collection
}

// NewMongoCustomerRepository builds mongo customer repository
func NewMongoCustomerRepository(db *mongo.Database) CustomerRepository {
	return &mongoCustomerRepository{
		customers: db.Collection(customersCollection),
		counters:  db.Collection(countersCollection),
	}
}

// EnsureMongoCustomerIndexes creates unique indexes for email and phone, documents where they are null are skipped
func EnsureMongoCustomerIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
			Options: options.Index().
				SetName(fmt.Sprintf("customers_%s_key", field)).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{field: bson.M{"$type": "string"}}),
		}
	}

	_, err := db.Collection(customersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		unique("email"),
		unique("phone"),
		{Keys: bson.D{{Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
	})
	return err
}

func (r *mongoCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoCustomerRepository) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *mongoCustomerRepository) FindAll(ctx context.Context, filter model.CustomerFilter, limit, offset int) ([]*model.Customer, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.customers.Find(ctx, r.filter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	customers := make([]*model.Customer, 0)
	for cursor.Next(ctx) {
		var c model.Customer
		if err := cursor.Decode(&c); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}

	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *mongoCustomerRepository) Count(ctx context.Context, filter model.CustomerFilter) (int, error) {
	count, err := r.customers.CountDocuments(ctx, r.filter(filter))
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *mongoCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return err
	}

	if _, err := r.customers.InsertOne(ctx, &mongoCustomer{Customer: *c, Seq: seq}); err != nil {
		return r.translateErr(err)
	}
	return nil
}

func (r *mongoCustomerRepository) Update(ctx context.Context, id string, patch model.CustomerPatch) (*model.Customer, error) {
	fields := patch.Fields()
	if len(fields) == 0 {
		return r.FindByID(ctx, id)
	}

	set := bson.M{}
	for _, f := range fields {
		set[f.Name] = f.Value
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	res := r.customers.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts)

	var c model.Customer
	if err := res.Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, r.translateErr(err)
	}
	return &c, nil
}

func (r *mongoCustomerRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := r.customers.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *mongoCustomerRepository) findOne(ctx context.Context, filter bson.M) (*model.Customer, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "seq", Value: 1}})

	var c model.Customer
	if err := r.customers.FindOne(ctx, filter, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// nextSeq allocates insertion sequence number used for stable ordering
func (r *mongoCustomerRepository) nextSeq(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	res := r.counters.FindOneAndUpdate(ctx, bson.M{"_id": customersCollection}, bson.M{"$inc": bson.M{"value": int64(1)}}, opts)

	var counter struct {
		Value int64 `bson:"value"`
	}
	if err := res.Decode(&counter); err != nil {
		return 0, fmt.Errorf("failed to allocate customer sequence - %w", err)
	}
	return counter.Value, nil
}

func (r *mongoCustomerRepository) filter(filter model.CustomerFilter) bson.M {
	f := bson.M{}
	if filter.City != nil {
		f["city"] = *filter.City
	}
	return f
}

func (r *mongoCustomerRepository) translateErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("customer violates unique index - %w", err)
	}
	return err
}
