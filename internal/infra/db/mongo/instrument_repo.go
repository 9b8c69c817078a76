package mongo

import (
	"context"
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain"
	"github.com/annuu1/StockAlertBot/internal/domain/model"
	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ repository.InstrumentRepository = (*instrumentRepo)(nil)

type instrumentRepo struct {
	col *mongo.Collection
}

func NewInstrumentRepo(db *mongo.Database) *instrumentRepo {
	return &instrumentRepo{col: db.Collection("instruments")}
}

// Save upserts by trading symbol: re-importing the instrument dump must not
// duplicate listings.
func (r *instrumentRepo) Save(ctx context.Context, instr *model.Instrument) error {
	filter := bson.M{"tradingsymbol": instr.TradingSymbol}
	update := bson.M{"$set": bson.M{
		"tradingsymbol": instr.TradingSymbol,
		"name":          instr.Name,
		"exchange":      instr.Exchange,
		"illiquid":      instr.Illiquid,
		"illiquid_note": instr.IlliquidNote,
		"screened_at":   instr.ScreenedAt,
	}, "$setOnInsert": bson.M{
		"imported_at": time.Now(),
	}}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *instrumentRepo) SaveBatch(ctx context.Context, instrs []*model.Instrument) (int, error) {
	n := 0
	for _, in := range instrs {
		if err := r.Save(ctx, in); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *instrumentRepo) ListSymbols(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"tradingsymbol": 1}).
		SetSort(bson.M{"imported_at": 1})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc struct {
			TradingSymbol string `bson:"tradingsymbol"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, doc.TradingSymbol)
	}
	return out, cur.Err()
}

func (r *instrumentRepo) FindBySymbol(ctx context.Context, tradingSymbol string) (*model.Instrument, error) {
	var doc instrumentDoc
	err := r.col.FindOne(ctx, bson.M{"tradingsymbol": tradingSymbol}).Decode(&doc)
	if err != nil {
		return nil, translateErr(err)
	}
	return doc.toModel(), nil
}

func (r *instrumentRepo) CountIlliquid(ctx context.Context) (int, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"illiquid": true})
	return int(n), err
}

type instrumentDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	TradingSymbol string             `bson:"tradingsymbol"`
	Name          string             `bson:"name"`
	Exchange      string             `bson:"exchange"`
	Illiquid      bool               `bson:"illiquid"`
	IlliquidNote  string             `bson:"illiquid_note"`
	ScreenedAt    time.Time          `bson:"screened_at"`
	ImportedAt    time.Time          `bson:"imported_at"`
}

func (d instrumentDoc) toModel() *model.Instrument {
	return &model.Instrument{
		ID:            d.ID.Hex(),
		TradingSymbol: d.TradingSymbol,
		Name:          d.Name,
		Exchange:      d.Exchange,
		Illiquid:      d.Illiquid,
		IlliquidNote:  d.IlliquidNote,
		ScreenedAt:    d.ScreenedAt,
		ImportedAt:    d.ImportedAt,
	}
}
