package model

import (
	"errors"
	"testing"

	"github.com/annuu1/StockAlertBot/internal/domain"
)

func TestNewTrade(t *testing.T) {
	tr, err := NewTrade("SBIN", 550)
	if err != nil {
		t.Fatalf("NewTrade() error = %v", err)
	}
	if !tr.IsOpen() {
		t.Error("new trade should be open")
	}

	if _, err := NewTrade("", 550); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("empty symbol: err = %v", err)
	}
	if _, err := NewTrade("SBIN", 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("zero entry: err = %v", err)
	}
}

func TestCandle_IsFlat(t *testing.T) {
	flat := Candle{Open: 10, High: 10, Low: 10, Close: 10}
	if !flat.IsFlat() {
		t.Error("O=H=L=C bar should be flat")
	}
	normal := Candle{Open: 10, High: 11, Low: 9, Close: 10.5}
	if normal.IsFlat() {
		t.Error("ranged bar should not be flat")
	}
}
