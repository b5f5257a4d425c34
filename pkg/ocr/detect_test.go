package ocr

import (
	"image"
	"testing"
)

func TestGroupDetectionsMergesNearbyLines(t *testing.T) {
	// Three stacked lines of one bubble and one distant block.
	dets := []Detection{
		{Box: image.Rect(10, 10, 110, 40), Text: "こんに", Confidence: 90},
		{Box: image.Rect(12, 45, 108, 75), Text: "ちは", Confidence: 85},
		{Box: image.Rect(11, 80, 109, 110), Text: "世界", Confidence: 95},
		{Box: image.Rect(300, 400, 380, 430), Text: "別の", Confidence: 70},
	}

	groups := GroupDetections(dets, DefaultGroupGapPx)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	bubble := groups[0]
	if want := image.Rect(10, 10, 110, 110); bubble.Box != want {
		t.Errorf("group box = %v, want union %v", bubble.Box, want)
	}
	if bubble.Text != "こんに ちは 世界" {
		t.Errorf("group text = %q, want joined reading order", bubble.Text)
	}
	if bubble.Confidence != 85 {
		t.Errorf("group confidence = %v, want lowest member 85", bubble.Confidence)
	}
}

func TestGroupDetectionsSortsIntoReadingOrder(t *testing.T) {
	dets := []Detection{
		{Box: image.Rect(0, 60, 100, 90), Text: "second"},
		{Box: image.Rect(0, 10, 100, 40), Text: "first"},
	}

	groups := GroupDetections(dets, 50)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Text != "first second" {
		t.Errorf("text = %q, want top-to-bottom order", groups[0].Text)
	}
}

func TestGroupDetectionsRespectsGap(t *testing.T) {
	dets := []Detection{
		{Box: image.Rect(0, 0, 50, 30), Text: "a"},
		{Box: image.Rect(0, 100, 50, 130), Text: "b"},
	}

	if got := len(GroupDetections(dets, 50)); got != 2 {
		t.Errorf("gap 70 with threshold 50: got %d groups, want 2", got)
	}
	if got := len(GroupDetections(dets, 80)); got != 1 {
		t.Errorf("gap 70 with threshold 80: got %d groups, want 1", got)
	}
}

func TestGroupDetectionsEmpty(t *testing.T) {
	if got := GroupDetections(nil, 50); got != nil {
		t.Errorf("GroupDetections(nil) = %v, want nil", got)
	}
}

func TestLooksVertical(t *testing.T) {
	if !looksVertical(image.Rect(0, 0, 30, 120)) {
		t.Error("tall narrow box not flagged vertical")
	}
	if looksVertical(image.Rect(0, 0, 120, 40)) {
		t.Error("wide box flagged vertical")
	}
}
