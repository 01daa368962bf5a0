package transfer

import "testing"

func TestPlanFor(t *testing.T) {
	cases := []struct {
		size        int64
		chunked     bool
		totalChunks int
	}{
		{0, false, 0},
		{700_000, false, 0},
		{ChunkSize, false, 0},
		{ChunkSize + 1, true, 2},
		{750_001, true, 2},
		{1_500_000, true, 2},
		{1_500_001, true, 3},
		{25 << 20, true, 35},
	}
	for _, tc := range cases {
		plan := PlanFor(tc.size)
		if plan.Chunked != tc.chunked || plan.TotalChunks != tc.totalChunks {
			t.Errorf("PlanFor(%d) = %+v, want chunked=%v total=%d", tc.size, plan, tc.chunked, tc.totalChunks)
		}
	}
}

func TestNewSession(t *testing.T) {
	s := NewSession("case-1", "contact", "photo.jpg", Plan{Chunked: true, TotalChunks: 3})
	if s.ID == "" {
		t.Fatal("session id should be generated")
	}
	if s.CaseID != "case-1" || s.FormID != "contact" || s.FileName != "photo.jpg" || s.TotalChunks != 3 {
		t.Fatalf("session = %+v", s)
	}
}
