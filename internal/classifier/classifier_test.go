package classifier

import (
	"testing"

	"infographica/internal/model"
)

func TestClassifyImagesForceVision(t *testing.T) {
	req := model.GenerateRequest{Prompt: "anything", Images: [][]byte{{1, 2, 3}}}
	if got := Classify(req); got != model.TierVision {
		t.Fatalf("got %v want VISION", got)
	}
}

func TestClassifyProcessFlowHintIsFast(t *testing.T) {
	req := model.GenerateRequest{Prompt: "draw the steps", DiagramHint: "process-flow"}
	if got := Classify(req); got != model.TierFast {
		t.Fatalf("got %v want FAST", got)
	}
}

func TestClassifyProcessFlowHintEscalatesOnEntityCount(t *testing.T) {
	req := model.GenerateRequest{Prompt: "draw the steps", DiagramHint: "process-flow", EntityCountHint: 9}
	if got := Classify(req); got != model.TierStandard {
		t.Fatalf("got %v want STANDARD", got)
	}
}

func TestClassifyMarketectureHintIsPremium(t *testing.T) {
	req := model.GenerateRequest{Prompt: "draw our platform", DiagramHint: "marketecture"}
	if got := Classify(req); got != model.TierPremium {
		t.Fatalf("got %v want PREMIUM", got)
	}
}

func TestClassifyLexiconScanTwoHitsIsPremium(t *testing.T) {
	req := model.GenerateRequest{Prompt: "Show our platform's cross-cutting integration layers"}
	if got := Classify(req); got != model.TierPremium {
		t.Fatalf("got %v want PREMIUM", got)
	}
}

func TestClassifyLexiconScanOneHitIsStandard(t *testing.T) {
	req := model.GenerateRequest{Prompt: "Show our integration approach"}
	if got := Classify(req); got != model.TierStandard {
		t.Fatalf("got %v want STANDARD", got)
	}
}

func TestClassifyLexiconScanNoHitsIsFast(t *testing.T) {
	req := model.GenerateRequest{Prompt: "Show our three product tiers"}
	if got := Classify(req); got != model.TierFast {
		t.Fatalf("got %v want FAST", got)
	}
}
