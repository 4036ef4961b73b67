// Package currency owns the storefront's selected display currency and
// conversion rates. Components pull the current value through Board
// instead of listening for a broadcast, so there is no retry/timeout
// handshake and no default-display fallback timer.
package currency

import (
	"fmt"
	"sync"

	"ritmo-vivo/internal/utils"
)

// Code is an ISO 4217 currency code.
type Code string

const (
	USD Code = "USD"
	MXN Code = "MXN"
	COP Code = "COP"
	ARS Code = "ARS"
	PEN Code = "PEN"
	CLP Code = "CLP"
)

// Board is the single source of truth for the selected currency and the
// rates table. Rates are expressed as units of the currency per 1 USD.
type Board struct {
	mu       sync.RWMutex
	selected Code
	rates    map[Code]float64
}

// DefaultRates is the seed table used when no rates are configured.
var DefaultRates = map[Code]float64{
	USD: 1,
	MXN: 18.50,
	COP: 4100.0,
	ARS: 1350.0,
	PEN: 3.55,
	CLP: 960.0,
}

// NewBoard starts with the given display currency; nil rates fall back to
// DefaultRates.
func NewBoard(selected Code, rates map[Code]float64) (*Board, error) {
	if rates == nil {
		rates = DefaultRates
	}
	if _, ok := rates[selected]; !ok {
		return nil, utils.NewAppError(utils.ErrUnknownCurrency, "Unknown currency: "+string(selected), nil)
	}
	copied := make(map[Code]float64, len(rates))
	for c, r := range rates {
		copied[c] = r
	}
	return &Board{selected: selected, rates: copied}, nil
}

// Current returns the selected display currency.
func (b *Board) Current() Code {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selected
}

// Set switches the display currency for every consumer.
func (b *Board) Set(code Code) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.rates[code]; !ok {
		return utils.NewAppError(utils.ErrUnknownCurrency, "Unknown currency: "+string(code), nil)
	}
	b.selected = code
	return nil
}

// Convert re-expresses amount (denominated in from) in the currently
// selected currency.
func (b *Board) Convert(amount float64, from Code) (float64, Code, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	fromRate, ok := b.rates[from]
	if !ok {
		return 0, "", utils.NewAppError(utils.ErrUnknownCurrency, "Unknown currency: "+string(from), nil)
	}
	toRate := b.rates[b.selected]

	return amount / fromRate * toRate, b.selected, nil
}

// UpdateRate replaces one rate, e.g. from a nightly rate feed.
func (b *Board) UpdateRate(code Code, unitsPerUSD float64) error {
	if unitsPerUSD <= 0 {
		return utils.NewValidationError(fmt.Sprintf("rate for %s", code))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rates[code] = unitsPerUSD
	return nil
}
