// File: internal/usecase/instrument_import_uc_test.go
package usecase

import (
	"context"
	"strings"
	"testing"
)

func TestImportUC_ImportCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("Imports plain equity symbols and skips series listings", func(t *testing.T) {
		// Arrange
		repo := newMemInstrumentRepo()
		uc := NewImportUseCase(repo, newTestLogger())
		csv := strings.NewReader(
			"instrument_token,tradingsymbol,name,exchange\n" +
				"1,TCS,Tata Consultancy Services,NSE\n" +
				"2,SBIN,State Bank of India,NSE\n" +
				"3,725GS2026,GOI Bond,NSE\n" + // 4+ digits: filtered
				"4,,blank,NSE\n")

		// Act
		report, err := uc.ImportCSV(ctx, csv)

		// Assert
		if err != nil {
			t.Fatalf("ImportCSV() error = %v", err)
		}
		if report.Imported != 2 || report.Skipped != 2 {
			t.Errorf("Imported=%d Skipped=%d, want 2/2", report.Imported, report.Skipped)
		}
		syms, _ := repo.ListSymbols(ctx)
		if len(syms) != 2 || syms[0] != "TCS" || syms[1] != "SBIN" {
			t.Errorf("symbols = %v, want [TCS SBIN]", syms)
		}
	})

	t.Run("Header without tradingsymbol column is rejected", func(t *testing.T) {
		// Arrange
		repo := newMemInstrumentRepo()
		uc := NewImportUseCase(repo, newTestLogger())
		csv := strings.NewReader("symbol,name\nTCS,Tata\n")

		// Act
		_, err := uc.ImportCSV(ctx, csv)

		// Assert
		if err == nil {
			t.Fatal("expected an error for a missing tradingsymbol column")
		}
	})

	t.Run("Column lookup is case-insensitive", func(t *testing.T) {
		// Arrange
		repo := newMemInstrumentRepo()
		uc := NewImportUseCase(repo, newTestLogger())
		csv := strings.NewReader("TradingSymbol,Name\nINFY,Infosys\n")

		// Act
		report, err := uc.ImportCSV(ctx, csv)

		// Assert
		if err != nil {
			t.Fatalf("ImportCSV() error = %v", err)
		}
		if report.Imported != 1 {
			t.Errorf("Imported = %d, want 1", report.Imported)
		}
		in, err := repo.FindBySymbol(ctx, "INFY")
		if err != nil {
			t.Fatalf("FindBySymbol() error = %v", err)
		}
		if in.Name != "Infosys" {
			t.Errorf("Name = %q, want Infosys", in.Name)
		}
	})
}

func TestDigitCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"TCS", 0},
		{"3MINDIA", 1},
		{"725GS2026", 7},
		{"", 0},
	}
	for _, tc := range cases {
		if got := DigitCount(tc.in); got != tc.want {
			t.Errorf("DigitCount(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
