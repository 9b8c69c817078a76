package mongo

import (
	"context"

	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/domain/model"
	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ repository.TradeRepository = (*tradeRepo)(nil)

type tradeRepo struct {
	col *mongo.Collection
}

func NewTradeRepo(db *mongo.Database) *tradeRepo {
	return &tradeRepo{col: db.Collection("trades")}
}

func (r *tradeRepo) Save(ctx context.Context, trade *model.Trade) error {
	if trade.ID == "" {
		res, err := r.col.InsertOne(ctx, trade)
		if err != nil {
			return err
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			trade.ID = oid.Hex()
		}
		return nil
	}
	return r.setFields(ctx, trade.ID, bson.M{
		"symbol":           trade.Symbol,
		"entry_price":      trade.EntryPrice,
		"stop_loss":        trade.StopLoss,
		"target":           trade.Target,
		"status":           trade.Status,
		"alert_sent":       trade.AlertSent,
		"entry_alert_sent": trade.EntryAlertSent,
	})
}

func (r *tradeRepo) FindOpen(ctx context.Context) ([]*model.Trade, error) {
	cur, err := r.col.Find(ctx, bson.M{"status": model.TradeStatusOpen})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Trade
	for cur.Next(ctx) {
		var doc tradeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, doc.toModel())
	}
	return out, cur.Err()
}

func (r *tradeRepo) SetAlertSent(ctx context.Context, id string, sent bool) error {
	return r.setFields(ctx, id, bson.M{"alert_sent": sent})
}

func (r *tradeRepo) MarkEntryAlertSent(ctx context.Context, id string) error {
	return r.setFields(ctx, id, bson.M{"entry_alert_sent": true})
}

func (r *tradeRepo) CountOpen(ctx context.Context) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"status": model.TradeStatusOpen})
	return int(n), err
}

func (r *tradeRepo) setFields(ctx context.Context, id string, fields bson.M) error {
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

type tradeDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	Symbol         string             `bson:"symbol"`
	EntryPrice     float64            `bson:"entry_price"`
	StopLoss       float64            `bson:"stop_loss"`
	Target         float64            `bson:"target"`
	Status         string             `bson:"status"`
	AlertSent      bool               `bson:"alert_sent"`
	EntryAlertSent bool               `bson:"entry_alert_sent"`
}

func (d tradeDoc) toModel() *model.Trade {
	return &model.Trade{
		ID:             d.ID.Hex(),
		Symbol:         d.Symbol,
		EntryPrice:     d.EntryPrice,
		StopLoss:       d.StopLoss,
		Target:         d.Target,
		Status:         model.TradeStatus(d.Status),
		AlertSent:      d.AlertSent,
		EntryAlertSent: d.EntryAlertSent,
	}
}
