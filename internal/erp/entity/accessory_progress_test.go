package entity

import "testing"

func completedItem(itemType string) AccessoryItem {
	return AccessoryItem{Type: itemType, Status: StageCompleted}
}

func notStartedItem(itemType string) AccessoryItem {
	return AccessoryItem{Type: itemType, Status: StageNotStarted}
}

// TestAccessoryCompletionWeights verifies the 41/41/6/6/6 weight table
func TestAccessoryCompletionWeights(t *testing.T) {
	tests := []struct {
		name  string
		items []AccessoryItem
		want  int
	}{
		{
			name: "nothing completed",
			items: []AccessoryItem{
				notStartedItem(AccessoryBlister), notStartedItem(AccessoryTray),
				notStartedItem(AccessoryCarton), notStartedItem(AccessoryBarcode), notStartedItem(AccessoryLabel),
			},
			want: 0,
		},
		{
			name: "both long-cycle completed",
			items: []AccessoryItem{
				completedItem(AccessoryBlister), completedItem(AccessoryTray),
				notStartedItem(AccessoryCarton), notStartedItem(AccessoryBarcode), notStartedItem(AccessoryLabel),
			},
			want: 82,
		},
		{
			name: "one long one short",
			items: []AccessoryItem{
				completedItem(AccessoryBlister), notStartedItem(AccessoryTray),
				completedItem(AccessoryCarton), notStartedItem(AccessoryBarcode), notStartedItem(AccessoryLabel),
			},
			want: 47,
		},
		{
			name: "short-cycle only",
			items: []AccessoryItem{
				notStartedItem(AccessoryBlister), notStartedItem(AccessoryTray),
				completedItem(AccessoryCarton), completedItem(AccessoryBarcode), completedItem(AccessoryLabel),
			},
			want: 18,
		},
		{
			name: "all completed clamps to 100",
			items: []AccessoryItem{
				completedItem(AccessoryBlister), completedItem(AccessoryTray),
				completedItem(AccessoryCarton), completedItem(AccessoryBarcode), completedItem(AccessoryLabel),
			},
			want: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccessoryCompletion(tt.items); got != tt.want {
				t.Fatalf("AccessoryCompletion() = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestAccessoryItemTemplate verifies the fixed checklist and long-cycle kickoff
func TestAccessoryItemTemplate(t *testing.T) {
	items := AccessoryItemTemplate()
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}

	wantStatus := map[string]string{
		AccessoryBlister: StageInProgress,
		AccessoryTray:    StageInProgress,
		AccessoryCarton:  StageNotStarted,
		AccessoryBarcode: StageNotStarted,
		AccessoryLabel:   StageNotStarted,
	}
	for _, it := range items {
		if it.Status != wantStatus[it.Type] {
			t.Fatalf("item %s: status = %s, want %s", it.Type, it.Status, wantStatus[it.Type])
		}
		if it.Name == "" {
			t.Fatalf("item %s: missing display name", it.Type)
		}
	}
}

// TestAccessoryRecalculateTotalCost verifies cost fields do not affect progress
func TestAccessoryRecalculateTotalCost(t *testing.T) {
	unitCost := 12.5
	moldCost := 300.0
	dieCost := 80.0

	p := AccessoryProgress{
		Items:    AccessoryItemTemplate(),
		MoldCost: &moldCost,
		DieCost:  &dieCost,
	}
	p.Items[0].UnitCost = &unitCost
	p.Recalculate()

	if p.TotalCost != 392.5 {
		t.Fatalf("TotalCost = %v, want 392.5", p.TotalCost)
	}
	if p.OverallProgress != 0 {
		t.Fatalf("OverallProgress = %d, want 0 (costs must not affect progress)", p.OverallProgress)
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		done, total, want int
	}{
		{0, 7, 0},
		{2, 7, 29},
		{4, 5, 80},
		{7, 7, 100},
		{1, 0, 0},
	}
	for _, tt := range tests {
		if got := PercentOf(tt.done, tt.total); got != tt.want {
			t.Fatalf("PercentOf(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}
