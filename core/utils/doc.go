// Package utils provides amount parsing and formatting shared by the ledger,
// the grant importer and the CLI. Amounts are arbitrary-precision integers in
// the smallest indivisible unit (e.g. wei) and never pass through float64.
package utils
