// Package engine provides a deterministic, seed-driven synthetic
// enterprise ledger generator for Go applications.
//
// Engine is designed as a library, not a service. Import it directly
// into your Go application and drive one reproducible run end to end:
//
//	import "github.com/synthledger/engine"
//
//	cfg := config.Default()
//	run, err := engine.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := run.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Pipeline
//
// A run passes through six components in strict forward order:
//
//   - C1 Deterministic Random Source: every stream derives from one
//     master seed, a component tag, and a sub-counter, so adding a new
//     generator never perturbs an existing stream.
//   - C2 Temporal Sampler: weights posting dates by business-day,
//     month-end, and fiscal-quarter seasonality.
//   - C3 Master Data: companies, accounts, employees, customers,
//     vendors, and materials, each generated under its own stream.
//   - C4 Ledger Generator: balanced double-entry journal activity,
//     document chains, intercompany matched pairs, opening balances,
//     and FX rates.
//   - C5 Anomaly Injector: labeled fraud/error/process/statistical/
//     relational anomalies layered over the generated population.
//   - C6 Coherence Evaluator: Benford conformance, balance and
//     reconciliation checks, and a config auto-tuner for violated
//     thresholds.
//
// # Determinism
//
// Two runs constructed with the same seed and config produce identical
// business content — amounts, dates, account postings, anomaly
// placement, evaluation metrics — since every stochastic decision draws
// from rng.Source. Entity IDs are globally unique TypeIDs and are not
// part of that determinism contract: they differ run to run by design,
// the same way two inserts into a production database get different
// primary keys.
//
// # Archival
//
// A finished run's provenance — config snapshot, produced-record
// counts, evaluation report, auto-tune patches — can be persisted via
// any store.Store implementation (store/memory, store/postgres,
// store/sqlite, store/mongo). The generation pipeline itself never
// touches a database; only archival does.
package engine
