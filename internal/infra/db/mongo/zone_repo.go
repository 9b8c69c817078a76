package mongo

import (
	"context"
	"errors"

	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/domain/model"
	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repository.ZoneRepository = (*zoneRepo)(nil)

type zoneRepo struct {
	col *mongo.Collection
}

func NewZoneRepo(db *mongo.Database) *zoneRepo {
	return &zoneRepo{col: db.Collection("demand_zones")}
}

func (r *zoneRepo) Save(ctx context.Context, zone *model.DemandZone) error {
	if zone.ID == "" {
		res, err := r.col.InsertOne(ctx, zone)
		if err != nil {
			return err
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			zone.ID = oid.Hex()
		}
		return nil
	}
	return r.setFields(ctx, zone.ID, bson.M{
		"zone_id":         zone.ZoneID,
		"ticker":          zone.Ticker,
		"proximal_line":   zone.ProximalLine,
		"distal_line":     zone.DistalLine,
		"freshness":       zone.Freshness,
		"trade_score":     zone.TradeScore,
		"zone_alert_sent": zone.ZoneAlertSent,
		"zone_entry_sent": zone.ZoneEntrySent,
	})
}

func (r *zoneRepo) FindFresh(ctx context.Context) ([]*model.DemandZone, error) {
	cur, err := r.col.Find(ctx, bson.M{"freshness": bson.M{"$gt": 0}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.DemandZone
	for cur.Next(ctx) {
		var doc zoneDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, doc.toModel())
	}
	return out, cur.Err()
}

func (r *zoneRepo) MarkAlertSent(ctx context.Context, id string) error {
	return r.setFields(ctx, id, bson.M{"zone_alert_sent": true})
}

func (r *zoneRepo) MarkEntrySent(ctx context.Context, id string) error {
	return r.setFields(ctx, id, bson.M{"zone_entry_sent": true})
}

func (r *zoneRepo) Invalidate(ctx context.Context, id string) error {
	return r.setFields(ctx, id, bson.M{"freshness": 0, "trade_score": 0})
}

func (r *zoneRepo) CountFresh(ctx context.Context) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"freshness": bson.M{"$gt": 0}})
	return int(n), err
}

func (r *zoneRepo) setFields(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// zoneDoc mirrors the stored document; _id decodes as ObjectID and is
// surfaced as its hex form on the model.
type zoneDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	ZoneID        string             `bson:"zone_id"`
	Ticker        string             `bson:"ticker"`
	ProximalLine  float64            `bson:"proximal_line"`
	DistalLine    float64            `bson:"distal_line"`
	Freshness     int                `bson:"freshness"`
	TradeScore    float64            `bson:"trade_score"`
	ZoneAlertSent bool               `bson:"zone_alert_sent"`
	ZoneEntrySent bool               `bson:"zone_entry_sent"`
}

func (d zoneDoc) toModel() *model.DemandZone {
	return &model.DemandZone{
		ID:            d.ID.Hex(),
		ZoneID:        d.ZoneID,
		Ticker:        d.Ticker,
		ProximalLine:  d.ProximalLine,
		DistalLine:    d.DistalLine,
		Freshness:     d.Freshness,
		TradeScore:    d.TradeScore,
		ZoneAlertSent: d.ZoneAlertSent,
		ZoneEntrySent: d.ZoneEntrySent,
	}
}

func translateErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}
