package entity

import "testing"

// TestCardStageTemplateCounts verifies the per-type stage counts: 8/5/7
func TestCardStageTemplateCounts(t *testing.T) {
	tests := []struct {
		cardType string
		want     int
	}{
		{CardTypeFinished, 8},
		{CardTypeDesign, 5},
		{CardTypeNone, 7},
	}
	for _, tt := range tests {
		stages := CardStageTemplate(tt.cardType)
		if len(stages) != tt.want {
			t.Fatalf("CardStageTemplate(%s): %d stages, want %d", tt.cardType, len(stages), tt.want)
		}
		for i, st := range stages {
			if st.Order != i {
				t.Fatalf("CardStageTemplate(%s): stage %d has order %d", tt.cardType, i, st.Order)
			}
			if st.Status != StageNotStarted {
				t.Fatalf("CardStageTemplate(%s): stage %s starts %s", tt.cardType, st.Key, st.Status)
			}
		}
	}
}

func TestCardStageTemplateUnknownType(t *testing.T) {
	if stages := CardStageTemplate("holographic"); stages != nil {
		t.Fatalf("expected nil template for unknown card type, got %d stages", len(stages))
	}
}

// TestCardStageTemplateSharedHead verifies the 4 common design stages lead every variant
func TestCardStageTemplateSharedHead(t *testing.T) {
	head := []string{CardStageRequirementConfirm, CardStageArtworkDesign, CardStageInternalReview, CardStageDesignFinalize}
	for _, cardType := range []string{CardTypeFinished, CardTypeDesign, CardTypeNone} {
		stages := CardStageTemplate(cardType)
		for i, key := range head {
			if stages[i].Key != key {
				t.Fatalf("%s: stage %d = %s, want %s", cardType, i, stages[i].Key, key)
			}
		}
	}
}

func TestCardProgressRecalculate(t *testing.T) {
	p := CardProgress{Stages: CardStageTemplate(CardTypeDesign)}
	for i := 0; i < 4; i++ {
		p.Stages[i].Status = StageCompleted
	}
	p.Recalculate()

	if p.OverallProgress != 80 {
		t.Fatalf("OverallProgress = %d, want 80", p.OverallProgress)
	}
	if p.CurrentStage != 4 {
		t.Fatalf("CurrentStage = %d, want 4 (completed count when nothing in progress)", p.CurrentStage)
	}

	p.Stages[4].Status = StageInProgress
	p.Recalculate()
	if p.CurrentStage != 4 {
		t.Fatalf("CurrentStage = %d, want 4 (first in_progress index)", p.CurrentStage)
	}
}
