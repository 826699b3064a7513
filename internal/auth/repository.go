package auth

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CitizenRepository handles DB operations for citizen accounts.
type CitizenRepository struct {
	collection *mongo.Collection
}

func NewCitizenRepository(db *mongo.Database) *CitizenRepository {
	return &CitizenRepository{collection: db.Collection("citizens")}
}

func (r *CitizenRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Citizen, error) {
	var citizen Citizen
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&citizen)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &citizen, nil
}

func (r *CitizenRepository) FindByEmail(ctx context.Context, email string) (*Citizen, error) {
	var citizen Citizen
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&citizen)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &citizen, nil
}

func (r *CitizenRepository) FindByCPF(ctx context.Context, cpf string) (*Citizen, error) {
	var citizen Citizen
	err := r.collection.FindOne(ctx, bson.M{"cpf": cpf}).Decode(&citizen)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &citizen, nil
}

func (r *CitizenRepository) Insert(ctx context.Context, citizen *Citizen) error {
	_, err := r.collection.InsertOne(ctx, citizen)
	return err
}

// UpdateProfile applies a partial profile edit built by the service.
func (r *CitizenRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// RecordConfirmedDonation increments the citizen's running totals in place so
// concurrent confirmations never lose an update.
func (r *CitizenRepository) RecordConfirmedDonation(ctx context.Context, id primitive.ObjectID, liters float64, co2 float64) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{
		"total_liters": liters,
		"co2_saved":    co2,
	}})
	return err
}

func (r *CitizenRepository) CountBeneficiaries(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"has_benefit": true})
}

func (r *CitizenRepository) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return listIDs(ctx, r.collection, bson.M{})
}

// SchoolRepository handles DB operations for school accounts.
type SchoolRepository struct {
	collection *mongo.Collection
}

func NewSchoolRepository(db *mongo.Database) *SchoolRepository {
	return &SchoolRepository{collection: db.Collection("schools")}
}

func (r *SchoolRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*School, error) {
	var school School
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&school)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &school, nil
}

func (r *SchoolRepository) FindByEmail(ctx context.Context, email string) (*School, error) {
	var school School
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&school)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &school, nil
}

func (r *SchoolRepository) FindByCNPJ(ctx context.Context, cnpj string) (*School, error) {
	var school School
	err := r.collection.FindOne(ctx, bson.M{"cnpj": cnpj}).Decode(&school)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &school, nil
}

func (r *SchoolRepository) Insert(ctx context.Context, school *School) error {
	_, err := r.collection.InsertOne(ctx, school)
	return err
}

func (r *SchoolRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// RecordConfirmedDonation bumps the school's intake totals and storage fill.
func (r *SchoolRepository) RecordConfirmedDonation(ctx context.Context, id primitive.ObjectID, liters float64, capacityGain int) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{
		"total_liters": liters,
		"capacity":     capacityGain,
	}})
	return err
}

// RecordCompletedCollection credits the awarded points, counts the pickup and
// empties the reservoir.
func (r *SchoolRepository) RecordCompletedCollection(ctx context.Context, id primitive.ObjectID, liters float64, points int) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{
			"collection_count": 1,
			"points":           points,
			"total_liters":     liters,
		},
		"$set": bson.M{"capacity": 0},
	})
	return err
}

func (r *SchoolRepository) DeductPoints(ctx context.Context, id primitive.ObjectID, points int) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"points": -points}})
	return err
}

// TopByPoints returns active schools ordered by points descending.
func (r *SchoolRepository) TopByPoints(ctx context.Context, limit int64) ([]*School, error) {
	opts := options.Find().SetSort(bson.M{"points": -1}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	var schools []*School
	if err := cursor.All(ctx, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

// ListActive returns active schools for the public map, optionally filtered
// by city or neighborhood, sorted by name.
func (r *SchoolRepository) ListActive(ctx context.Context, city, neighborhood string) ([]*School, error) {
	filter := bson.M{"is_active": true}
	if city != "" {
		filter["city"] = city
	}
	if neighborhood != "" {
		filter["neighborhood"] = neighborhood
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	var schools []*School
	if err := cursor.All(ctx, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

// List is the government's school roster, newest first.
func (r *SchoolRepository) List(ctx context.Context, city string, isActive *bool) ([]*School, error) {
	filter := bson.M{}
	if city != "" {
		filter["city"] = city
	}
	if isActive != nil {
		filter["is_active"] = *isActive
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, err
	}
	var schools []*School
	if err := cursor.All(ctx, &schools); err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *SchoolRepository) CountActive(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"is_active": true})
}

func (r *SchoolRepository) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return listIDs(ctx, r.collection, bson.M{})
}

// GovernmentRepository handles DB operations for the administrative account.
type GovernmentRepository struct {
	collection *mongo.Collection
}

func NewGovernmentRepository(db *mongo.Database) *GovernmentRepository {
	return &GovernmentRepository{collection: db.Collection("governments")}
}

func (r *GovernmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Government, error) {
	var government Government
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&government)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &government, nil
}

func (r *GovernmentRepository) FindByEmail(ctx context.Context, email string) (*Government, error) {
	var government Government
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&government)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			log.Println("Government account not found")
			return nil, nil
		}
		return nil, err
	}
	return &government, nil
}

func listIDs(ctx context.Context, collection *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}
