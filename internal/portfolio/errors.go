package portfolio

import "errors"

// Errors returned by portfolio operations. Match them with errors.Is.
var (
	ErrDuplicateSymbol     = errors.New("symbol already in portfolio")
	ErrSymbolNotFound      = errors.New("symbol not in portfolio")
	ErrPriceUnavailable    = errors.New("current price unavailable")
	ErrStorageCorrupt      = errors.New("portfolio storage is corrupt")
	ErrStorageWrite        = errors.New("portfolio storage write failed")
	ErrInvalidNumericInput = errors.New("invalid numeric input")
	ErrInvalidSymbol       = errors.New("invalid symbol")
)
