package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

const inpatientsCollection = "inpatients"

type InpatientRepository struct {
	col *mongo.Collection
}

func NewInpatientRepository(db *mongo.Database) *InpatientRepository {
	return &InpatientRepository{col: db.Collection(inpatientsCollection)}
}

func (r *InpatientRepository) List(ctx context.Context) ([]domain.Inpatient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list inpatients: %w", err)
	}
	defer cur.Close(ctx)

	var inpatients []domain.Inpatient
	if err := cur.All(ctx, &inpatients); err != nil {
		return nil, fmt.Errorf("decode inpatients: %w", err)
	}
	return inpatients, nil
}

func (r *InpatientRepository) FindByID(ctx context.Context, id string) (*domain.Inpatient, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Inpatient
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInpatientNotFound
		}
		return nil, fmt.Errorf("find inpatient: %w", err)
	}
	return &p, nil
}

func (r *InpatientRepository) Create(ctx context.Context, p *domain.Inpatient) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert inpatient: %w", err)
	}
	return nil
}

func (r *InpatientRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete inpatient: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInpatientNotFound
	}
	return nil
}

func (r *InpatientRepository) UpdateStatus(ctx context.Context, id string, status domain.InpatientStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update inpatient status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInpatientNotFound
	}
	return nil
}

func (r *InpatientRepository) UpdateMedicalRecord(ctx context.Context, id string, record domain.MedicalRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"medical_record": record}})
	if err != nil {
		return fmt.Errorf("update inpatient record: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInpatientNotFound
	}
	return nil
}
