// Package heatmap computes the performance of a stock index basket over named calendar windows.
//
// The computation is a single pass over in-memory data:
//   - a Calendar indexes the trading sessions of an aligned PriceSeries by position,
//   - a Resolver turns a period Tag (1D, 1W, MTD, QTD, YTD, 1Y) into a Window of two positions,
//   - ComputeReturns measures every instrument and the benchmark over that Window,
//   - Join merges returns with Instrument metadata and records data-quality Issues,
//   - Movers and Sectors rank instruments and market-cap weighted sectors.
//
// Engine chains these steps into a Report. It performs no I/O: price histories come from a Market
// (see the store and eodhd packages) and instruments from the reference package.
//
// This package serves as the foundational logic for the `hm` command-line tool.
package heatmap
