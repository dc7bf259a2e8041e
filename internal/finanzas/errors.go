// Package finanzas holds the dealership's financial computation core: ledger
// reconstruction from raw transaction rows, debt aging, French-system loan
// amortization, statutory interest accrual, inflation indexing and
// refinancing proposals.
//
// Every function here is pure and synchronous. Rows, reference tables and
// exchange rates are handed in already resolved; nothing in this package
// performs I/O.
package finanzas

import "errors"

// ErrEntradaInvalida is returned for out-of-domain input: non-positive
// amounts or period counts, end dates not after start dates, empty option
// lists, unknown periodicities.
var ErrEntradaInvalida = errors.New("entrada invalida")

// ErrSinDatos is returned when the reference data needed for a result is
// missing for the whole requested range.
var ErrSinDatos = errors.New("sin datos de referencia para el periodo")
