package postgres

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/synthledger/engine/config"
	"github.com/synthledger/engine/evaluator"
	"github.com/synthledger/engine/id"
	"github.com/synthledger/engine/store"
)

type runModel struct {
	grove.BaseModel `grove:"table:synthledger_runs"`

	ID               string          `grove:"id,pk"`
	Seed             int64           `grove:"seed"`
	Status           string          `grove:"status"`
	StartedAt        time.Time       `grove:"started_at"`
	CompletedAt      time.Time       `grove:"completed_at"`
	Config           json.RawMessage `grove:"config,type:jsonb"`
	EntryCount       int             `grove:"entry_count"`
	AnomalyCount     int             `grove:"anomaly_count"`
	ICPairCount      int             `grove:"ic_pair_count"`
	EliminationCount int             `grove:"elimination_count"`
	Report           json.RawMessage `grove:"report,type:jsonb"`
	Patches          json.RawMessage `grove:"patches,type:jsonb"`
	LabelDigest      string          `grove:"label_digest"`
	FailureReason    string          `grove:"failure_reason"`
}

func toRunModel(r *store.RunRecord) (*runModel, error) {
	cfg, err := json.Marshal(r.Config)
	if err != nil {
		return nil, err
	}
	report, err := json.Marshal(r.Report)
	if err != nil {
		return nil, err
	}
	patches, err := json.Marshal(r.Patches)
	if err != nil {
		return nil, err
	}
	return &runModel{
		ID:               r.RunID.String(),
		Seed:             int64(r.Seed),
		Status:           string(r.Status),
		StartedAt:        r.StartedAt,
		CompletedAt:      r.CompletedAt,
		Config:           cfg,
		EntryCount:       r.EntryCount,
		AnomalyCount:     r.AnomalyCount,
		ICPairCount:      r.ICPairCount,
		EliminationCount: r.EliminationCount,
		Report:           report,
		Patches:          patches,
		LabelDigest:      r.AnomalyLabelDigest,
		FailureReason:    r.FailureReason,
	}, nil
}

func fromRunModel(m *runModel) (*store.RunRecord, error) {
	runID, err := id.ParseWithPrefix(m.ID, id.PrefixRun)
	if err != nil {
		return nil, err
	}

	var cfg config.Config
	if len(m.Config) > 0 {
		if err := json.Unmarshal(m.Config, &cfg); err != nil {
			return nil, err
		}
	}
	var report evaluator.Report
	if len(m.Report) > 0 {
		if err := json.Unmarshal(m.Report, &report); err != nil {
			return nil, err
		}
	}
	var patches []evaluator.ConfigPatch
	if len(m.Patches) > 0 {
		if err := json.Unmarshal(m.Patches, &patches); err != nil {
			return nil, err
		}
	}

	return &store.RunRecord{
		RunID:              runID,
		Seed:               uint64(m.Seed),
		Status:             store.Status(m.Status),
		StartedAt:          m.StartedAt,
		CompletedAt:        m.CompletedAt,
		Config:             cfg,
		EntryCount:         m.EntryCount,
		AnomalyCount:       m.AnomalyCount,
		ICPairCount:        m.ICPairCount,
		EliminationCount:   m.EliminationCount,
		Report:             report,
		Patches:            patches,
		AnomalyLabelDigest: m.LabelDigest,
		FailureReason:      m.FailureReason,
	}, nil
}
