package nebula

import (
	"testing"

	"github.com/nebula-contrib/nebula-go/pkg/graph"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

func TestGraphQueryOutputIsSucceed(t *testing.T) {
	out := newGraphQueryOutput(&graph.ExecutionResponse{ErrorCode: ntype.ErrSucceeded}, TimezoneInfo{})
	if !out.IsSucceed() {
		t.Fatalf("IsSucceed() = false, want true")
	}
	if out.IsPartialSucceed() {
		t.Fatalf("IsPartialSucceed() = true, want false")
	}
}

func TestGraphQueryOutputIsPartialSucceed(t *testing.T) {
	out := newGraphQueryOutput(&graph.ExecutionResponse{ErrorCode: ntype.ErrPartialSucceeded}, TimezoneInfo{})
	if out.IsSucceed() {
		t.Fatalf("IsSucceed() = true, want false")
	}
	if !out.IsPartialSucceed() {
		t.Fatalf("IsPartialSucceed() = false, want true")
	}
}

func TestGraphQueryOutputGetLatencyInMs(t *testing.T) {
	out := newGraphQueryOutput(&graph.ExecutionResponse{ErrorCode: ntype.ErrSucceeded, LatencyUs: 2500}, TimezoneInfo{})
	if got := out.GetLatencyInMs(); got != 2.5 {
		t.Fatalf("GetLatencyInMs() = %v, want 2.5", got)
	}
}

func TestGraphQueryOutputIsSetPlanDesc(t *testing.T) {
	without := newGraphQueryOutput(&graph.ExecutionResponse{ErrorCode: ntype.ErrSucceeded}, TimezoneInfo{})
	if without.IsSetPlanDesc() {
		t.Fatalf("IsSetPlanDesc() = true, want false when PlanDesc is nil")
	}

	with := newGraphQueryOutput(&graph.ExecutionResponse{ErrorCode: ntype.ErrSucceeded, PlanDesc: []byte("plan")}, TimezoneInfo{})
	if !with.IsSetPlanDesc() {
		t.Fatalf("IsSetPlanDesc() = false, want true when PlanDesc is set")
	}
}
