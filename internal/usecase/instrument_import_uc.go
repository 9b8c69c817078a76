// File: internal/usecase/instrument_import_uc.go
package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/annuu1/StockAlertBot/internal/domain/model"
	"github.com/annuu1/StockAlertBot/internal/domain/ports/repository"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ImportUseCase = (*importUC)(nil)

// ImportReport summarizes one CSV import.
type ImportReport struct {
	Imported int
	Skipped  int // rows filtered out (digit-heavy symbols, blanks)
}

type ImportUseCase interface {
	// ImportCSV loads an exchange instrument dump. The file must have a
	// header row containing a "tradingsymbol" column; "name" and
	// "exchange" columns are picked up when present.
	ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error)
}

type importUC struct {
	instruments repository.InstrumentRepository
	log         *zerolog.Logger
}

func NewImportUseCase(instruments repository.InstrumentRepository, logger *zerolog.Logger) *importUC {
	compLog := logger.With().Str("component", "ImportUC").Logger()
	return &importUC{instruments: instruments, log: &compLog}
}

func (uc *importUC) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := columnIndex(header)
	symCol, ok := cols["tradingsymbol"]
	if !ok {
		return nil, fmt.Errorf("csv has no tradingsymbol column")
	}

	report := &ImportReport{}
	var batch []*model.Instrument
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, fmt.Errorf("read csv row: %w", err)
		}
		if symCol >= len(rec) {
			report.Skipped++
			continue
		}
		symbol := strings.TrimSpace(rec[symCol])
		// Symbols carrying 4+ digits are series/derivative listings
		// (bonds, partly-paid, rights), not screenable equities.
		if symbol == "" || DigitCount(symbol) >= 4 {
			report.Skipped++
			continue
		}

		instr, err := model.NewInstrument(symbol, pick(rec, cols, "name"), pick(rec, cols, "exchange"))
		if err != nil {
			report.Skipped++
			continue
		}
		batch = append(batch, instr)
	}

	n, err := uc.instruments.SaveBatch(ctx, batch)
	report.Imported = n
	if err != nil {
		return report, err
	}
	uc.log.Info().Int("imported", report.Imported).Int("skipped", report.Skipped).Msg("instrument import finished")
	return report, nil
}

// DigitCount returns how many numeric characters the symbol contains.
func DigitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func columnIndex(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, h := range header {
		out[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return out
}

func pick(rec []string, cols map[string]int, name string) string {
	if i, ok := cols[name]; ok && i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}
