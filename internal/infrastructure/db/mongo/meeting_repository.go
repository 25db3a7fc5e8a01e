package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hospitalops/portal-system/internal/core/domain"
)

const (
	meetingsCollection  = "board_meetings"
	schedulesCollection = "schedules"
)

// MeetingRepository covers board meetings and appointment schedules.
type MeetingRepository struct {
	meetings  *mongo.Collection
	schedules *mongo.Collection
}

func NewMeetingRepository(db *mongo.Database) *MeetingRepository {
	return &MeetingRepository{
		meetings:  db.Collection(meetingsCollection),
		schedules: db.Collection(schedulesCollection),
	}
}

func (r *MeetingRepository) ListMeetings(ctx context.Context) ([]domain.BoardMeeting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.meetings.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.BoardMeeting
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode meetings: %w", err)
	}
	return out, nil
}

func (r *MeetingRepository) CreateMeeting(ctx context.Context, m *domain.BoardMeeting) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.meetings.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (r *MeetingRepository) DeleteMeeting(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.meetings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}

func (r *MeetingRepository) ListSchedules(ctx context.Context) ([]domain.ScheduleItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.schedules.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.ScheduleItem
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode schedules: %w", err)
	}
	return out, nil
}

func (r *MeetingRepository) CreateSchedule(ctx context.Context, s *domain.ScheduleItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.schedules.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}
