package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospitalops/portal-system/internal/core/domain"
	"github.com/hospitalops/portal-system/internal/core/ports"
)

const (
	stockCollection         = "pharmacy_stock"
	prescriptionsCollection = "prescriptions"
)

// PharmacyRepository covers both the stock inventory and the prescriptions
// issued against it.
type PharmacyRepository struct {
	stock         *mongo.Collection
	prescriptions *mongo.Collection
}

func NewPharmacyRepository(db *mongo.Database) *PharmacyRepository {
	return &PharmacyRepository{
		stock:         db.Collection(stockCollection),
		prescriptions: db.Collection(prescriptionsCollection),
	}
}

func (r *PharmacyRepository) ListStock(ctx context.Context) ([]domain.PharmacyItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.stock.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer cur.Close(ctx)

	var items []domain.PharmacyItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode stock: %w", err)
	}
	return items, nil
}

// UpdateStock applies each adjustment individually. Stock updates are not a
// cross-item transaction; a mid-batch failure leaves earlier items applied.
func (r *PharmacyRepository) UpdateStock(ctx context.Context, updates []ports.StockUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	for _, u := range updates {
		_, err := r.stock.UpdateOne(ctx, bson.M{"_id": u.ItemID}, bson.M{"$set": bson.M{
			"quantity":   u.Quantity,
			"updated_at": now,
		}})
		if err != nil {
			return fmt.Errorf("update stock %s: %w", u.ItemID, err)
		}
	}
	return nil
}

func (r *PharmacyRepository) ListPrescriptions(ctx context.Context) ([]domain.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.prescriptions.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Prescription
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode prescriptions: %w", err)
	}
	return out, nil
}

func (r *PharmacyRepository) FindPrescription(ctx context.Context, id string) (*domain.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Prescription
	if err := r.prescriptions.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("find prescription: %w", err)
	}
	return &p, nil
}

func (r *PharmacyRepository) UpdatePrescriptionStatus(ctx context.Context, id string, status domain.PrescriptionStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.prescriptions.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("update prescription: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrescriptionNotFound
	}
	return nil
}
