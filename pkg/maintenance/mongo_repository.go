package maintenance

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultMachinesCollection holds machine documents.
const DefaultMachinesCollection = "machines"

type alarmDoc struct {
	ID               string     `bson:"id"`
	Title            string     `bson:"title"`
	IntervalHours    int        `bson:"interval_hours"`
	AccumulatedHours int        `bson:"accumulated_hours"`
	IsActive         bool       `bson:"is_active"`
	LastTriggeredAt  *time.Time `bson:"last_triggered_at,omitempty"`
	TimesTriggered   int        `bson:"times_triggered"`
}

type machineDoc struct {
	ID             string     `bson:"_id"`
	OwnerAccountID string     `bson:"owner_account_id"`
	Name           string     `bson:"name"`
	DailyHours     int        `bson:"daily_hours"`
	OperatingDays  []int      `bson:"operating_days"`
	Alarms         []alarmDoc `bson:"alarms"`
}

func (d machineDoc) machine() Machine {
	m := Machine{
		ID:             d.ID,
		OwnerAccountID: d.OwnerAccountID,
		Name:           d.Name,
		DailyHours:     d.DailyHours,
		OperatingDays:  make([]time.Weekday, len(d.OperatingDays)),
		Alarms:         make([]Alarm, len(d.Alarms)),
	}
	for i, day := range d.OperatingDays {
		m.OperatingDays[i] = time.Weekday(day)
	}
	for i, a := range d.Alarms {
		m.Alarms[i] = Alarm{
			ID:               a.ID,
			Title:            a.Title,
			IntervalHours:    a.IntervalHours,
			AccumulatedHours: a.AccumulatedHours,
			IsActive:         a.IsActive,
			LastTriggeredAt:  a.LastTriggeredAt,
			TimesTriggered:   a.TimesTriggered,
		}
	}
	return m
}

// MongoRepository reads machines with embedded alarms. Operating days are
// stored as weekday numbers, Sunday = 0.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ Repository = (*MongoRepository)(nil)

// NewMongoRepository uses db.Collection(DefaultMachinesCollection).
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(DefaultMachinesCollection)}
}

// EnsureIndexes creates the operating-days index used by FindEligibleForDay.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "operating_days", Value: 1}},
		Options: options.Index().SetName("operating_days"),
	})
	if err != nil {
		return fmt.Errorf("create machines index: %w", err)
	}
	return nil
}

// Insert stores a new machine document.
func (r *MongoRepository) Insert(ctx context.Context, m Machine) error {
	doc := machineDoc{
		ID:             m.ID,
		OwnerAccountID: m.OwnerAccountID,
		Name:           m.Name,
		DailyHours:     m.DailyHours,
		OperatingDays:  make([]int, len(m.OperatingDays)),
		Alarms:         make([]alarmDoc, len(m.Alarms)),
	}
	for i, day := range m.OperatingDays {
		doc.OperatingDays[i] = int(day)
	}
	for i, a := range m.Alarms {
		doc.Alarms[i] = alarmDoc(a)
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert machine: %w", err)
	}
	return nil
}

// FindEligibleForDay implements Repository.
func (r *MongoRepository) FindEligibleForDay(ctx context.Context, day time.Weekday) ([]Machine, error) {
	cur, err := r.coll.Find(ctx,
		bson.D{{Key: "operating_days", Value: int(day)}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find machines: %w", err)
	}

	var docs []machineDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode machines: %w", err)
	}

	out := make([]Machine, len(docs))
	for i, d := range docs {
		out[i] = d.machine()
	}
	return out, nil
}

// SaveAlarm implements Repository. Only the scheduler-owned fields are
// written; title, interval and active flag are left to the machine owner.
func (r *MongoRepository) SaveAlarm(ctx context.Context, machineID string, alarm Alarm) error {
	set := bson.D{
		{Key: "alarms.$.accumulated_hours", Value: alarm.AccumulatedHours},
		{Key: "alarms.$.times_triggered", Value: alarm.TimesTriggered},
	}
	if alarm.LastTriggeredAt != nil {
		set = append(set, bson.E{Key: "alarms.$.last_triggered_at", Value: alarm.LastTriggeredAt.UTC()})
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: machineID}, {Key: "alarms.id", Value: alarm.ID}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return fmt.Errorf("update alarm: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: machine %s alarm %s", ErrAlarmNotFound, machineID, alarm.ID)
	}
	return nil
}
