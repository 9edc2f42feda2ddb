package employee

import (
	"testing"

	"github.com/synthledger/engine/rng"
)

func TestGenerateApprovalLimitsMonotone(t *testing.T) {
	source := rng.NewSource(1, rng.TagMasterData, 0)
	pool := Generate(source, DefaultGenerateOptions())

	if pool.ByID == nil {
		t.Fatal("expected pool")
	}
	for _, e := range pool.All() {
		want := defaultApprovalLimits[e.Level]
		if e.ApprovalLimit != want {
			t.Errorf("employee %s level %d: limit %d != %d", e.Name, e.Level, e.ApprovalLimit, want)
		}
	}
}

func TestGenerateTreeRootedAtExecutive(t *testing.T) {
	source := rng.NewSource(2, rng.TagMasterData, 0)
	pool := Generate(source, DefaultGenerateOptions())

	ceo := pool.All()[0]
	if !ceo.ManagerID.IsNil() {
		t.Error("expected CEO to have no manager")
	}
	if ceo.Level != LevelExecutive {
		t.Error("expected root to be Executive level")
	}
	for _, e := range pool.All()[1:] {
		if e.ManagerID.IsNil() {
			t.Errorf("expected non-root employee %s to have a manager", e.Name)
		}
	}
}

func TestDirectReportsInverseOfManagerID(t *testing.T) {
	source := rng.NewSource(3, rng.TagMasterData, 0)
	pool := Generate(source, DefaultGenerateOptions())

	reportCount := make(map[string]int)
	for _, e := range pool.All() {
		if !e.ManagerID.IsNil() {
			reportCount[e.ManagerID.String()]++
		}
	}
	for _, e := range pool.All() {
		if len(e.DirectReports) != reportCount[e.ID.String()] {
			t.Errorf("employee %s: direct reports %d != expected %d",
				e.Name, len(e.DirectReports), reportCount[e.ID.String()])
		}
	}
}

func TestApproversAtOrAboveExcludesCreatorAndUnderLimit(t *testing.T) {
	source := rng.NewSource(4, rng.TagMasterData, 0)
	pool := Generate(source, DefaultGenerateOptions())

	staff := pool.All()[len(pool.All())-1]
	approvers := pool.ApproversAtOrAbove(staff.ApprovalLimit+1, staff.ID, "")
	for _, a := range approvers {
		if a.ID == staff.ID {
			t.Error("approver list must exclude the creator")
		}
		if a.ApprovalLimit < staff.ApprovalLimit+1 {
			t.Error("approver list must only include sufficient limits")
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(rng.NewSource(42, rng.TagMasterData, 0), DefaultGenerateOptions())
	b := Generate(rng.NewSource(42, rng.TagMasterData, 0), DefaultGenerateOptions())

	if len(a.All()) != len(b.All()) {
		t.Fatalf("pool size mismatch: %d != %d", len(a.All()), len(b.All()))
	}
	for i := range a.All() {
		if a.All()[i].Name != b.All()[i].Name {
			t.Fatalf("non-deterministic generation at index %d", i)
		}
	}
}
