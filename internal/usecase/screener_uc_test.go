// File: internal/usecase/screener_uc_test.go
package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/annuu1/StockAlertBot/internal/domain/model"
)

func seedInstrument(t *testing.T, repo *memInstrumentRepo, symbol string) {
	t.Helper()
	in, err := model.NewInstrument(symbol, "", "NSE")
	if err != nil {
		t.Fatalf("seed instrument: %v", err)
	}
	if err := repo.Save(context.Background(), in); err != nil {
		t.Fatalf("save instrument: %v", err)
	}
}

// healthyHistory builds a year of ordinary bars that trip no liquidity rule.
func healthyHistory(days int) []model.Candle {
	out := make([]model.Candle, 0, days)
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < days; i++ {
		price += 0.5
		out = append(out, model.Candle{
			Date:   day.AddDate(0, 0, i),
			Open:   price,
			High:   price + 2,
			Low:    price - 2,
			Close:  price + 1,
			Volume: 10000,
		})
	}
	return out
}

func newScreenerFixture(t *testing.T) (*memInstrumentRepo, *memCheckpointStore, *mockMarket, *screenerUC) {
	t.Helper()
	instrs := newMemInstrumentRepo()
	cps := newMemCheckpointStore()
	market := newMockMarket()
	uc := NewScreenerUseCase(instrs, cps, market, ".NS", newTestLogger())
	uc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return instrs, cps, market, uc
}

func TestScreenerUC_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("Healthy instrument stays liquid", func(t *testing.T) {
		// Arrange
		instrs, _, market, uc := newScreenerFixture(t)
		seedInstrument(t, instrs, "TCS")
		market.history["TCS.NS"] = healthyHistory(250)

		// Act
		report, err := uc.Run(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.Processed != 1 || report.Flagged != 0 {
			t.Errorf("Processed=%d Flagged=%d, want 1/0", report.Processed, report.Flagged)
		}
		in, _ := instrs.FindBySymbol(ctx, "TCS")
		if in.Illiquid {
			t.Errorf("instrument flagged: %q", in.IlliquidNote)
		}
	})

	t.Run("No data flags the instrument", func(t *testing.T) {
		// Arrange
		instrs, _, _, uc := newScreenerFixture(t)
		seedInstrument(t, instrs, "GHOST")

		// Act
		report, err := uc.Run(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if report.Flagged != 1 {
			t.Fatalf("Flagged = %d, want 1", report.Flagged)
		}
		in, _ := instrs.FindBySymbol(ctx, "GHOST")
		if !in.Illiquid || in.IlliquidNote != reasonNoData {
			t.Errorf("note = %q, want %q", in.IlliquidNote, reasonNoData)
		}
	})

	t.Run("Too many flat sessions flag the instrument", func(t *testing.T) {
		// Arrange
		instrs, _, market, uc := newScreenerFixture(t)
		seedInstrument(t, instrs, "SLEEPY")
		hist := healthyHistory(250)
		for i := 0; i < maxFlatDays+1; i++ {
			p := 50.0 + float64(i)
			hist[i*10] = model.Candle{Date: hist[i*10].Date, Open: p, High: p, Low: p, Close: p}
		}
		market.history["SLEEPY.NS"] = hist

		// Act
		_, err := uc.Run(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		in, _ := instrs.FindBySymbol(ctx, "SLEEPY")
		if !in.Illiquid || !strings.Contains(in.IlliquidNote, reasonFlatDays) {
			t.Errorf("note = %q, want it to contain %q", in.IlliquidNote, reasonFlatDays)
		}
	})

	t.Run("Penny price flags the instrument", func(t *testing.T) {
		// Arrange
		instrs, _, market, uc := newScreenerFixture(t)
		seedInstrument(t, instrs, "PENNY")
		hist := healthyHistory(250)
		hist[len(hist)-1].Close = 8.0
		market.history["PENNY.NS"] = hist

		// Act
		_, err := uc.Run(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		in, _ := instrs.FindBySymbol(ctx, "PENNY")
		if !in.Illiquid || !strings.Contains(in.IlliquidNote, reasonPriceLow) {
			t.Errorf("note = %q, want it to contain %q", in.IlliquidNote, reasonPriceLow)
		}
	})

	t.Run("Unchanged high over the window flags the instrument", func(t *testing.T) {
		// Arrange
		instrs, _, market, uc := newScreenerFixture(t)
		seedInstrument(t, instrs, "STUCK")
		hist := healthyHistory(250)
		for i := 100; i < 100+sameHighWindow; i++ {
			hist[i].High = 77.7
		}
		market.history["STUCK.NS"] = hist

		// Act
		_, err := uc.Run(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		in, _ := instrs.FindBySymbol(ctx, "STUCK")
		if !in.Illiquid || !strings.Contains(in.IlliquidNote, reasonStuckHighs) {
			t.Errorf("note = %q, want it to contain %q", in.IlliquidNote, reasonStuckHighs)
		}
	})

	t.Run("Screener resumes from the checkpoint", func(t *testing.T) {
		// Arrange
		instrs, cps, market, uc := newScreenerFixture(t)
		for _, s := range []string{"AAA", "BBB", "CCC"} {
			seedInstrument(t, instrs, s)
			market.history[s+".NS"] = healthyHistory(250)
		}
		if err := cps.SetLastProcessed(ctx, "screener", "AAA"); err != nil {
			t.Fatal(err)
		}

		// Act
		report, err := uc.Run(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if !report.Resumed {
			t.Error("report.Resumed should be true")
		}
		if report.Processed != 2 {
			t.Errorf("Processed = %d, want 2 (AAA already done)", report.Processed)
		}
		if last, _ := cps.LastProcessed(ctx, "screener"); last != "" {
			t.Errorf("checkpoint should be cleared after a full pass, got %q", last)
		}
	})

	t.Run("Later run clears an earlier verdict", func(t *testing.T) {
		// Arrange
		instrs, _, market, uc := newScreenerFixture(t)
		seedInstrument(t, instrs, "RECOVERED")
		in, _ := instrs.FindBySymbol(ctx, "RECOVERED")
		in.MarkIlliquid(reasonPriceLow)
		if err := instrs.Save(ctx, in); err != nil {
			t.Fatal(err)
		}
		market.history["RECOVERED.NS"] = healthyHistory(250)

		// Act
		_, err := uc.Run(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		got, _ := instrs.FindBySymbol(ctx, "RECOVERED")
		if got.Illiquid || got.IlliquidNote != "" {
			t.Errorf("verdict should be cleared, got illiquid=%v note=%q", got.Illiquid, got.IlliquidNote)
		}
	})
}

func TestHasConstantHigh(t *testing.T) {
	mk := func(highs ...float64) []model.Candle {
		out := make([]model.Candle, len(highs))
		for i, h := range highs {
			out[i] = model.Candle{High: h}
		}
		return out
	}

	if hasConstantHigh(mk(1, 1, 2, 2, 2), 3) != true {
		t.Error("run of 3 equal highs should match window 3")
	}
	if hasConstantHigh(mk(1, 2, 1, 2, 1), 3) {
		t.Error("alternating highs should not match")
	}
	if hasConstantHigh(mk(5, 5), 3) {
		t.Error("series shorter than the window should not match")
	}
}
