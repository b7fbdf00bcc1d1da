package stage

import "testing"

func TestPipelineOrdering(t *testing.T) {
	t.Parallel()

	prev := 0
	for _, s := range Pipeline {
		if s.Upper <= prev {
			t.Fatalf("stage %s upper bound %d is not increasing (prev %d)", s.Name, s.Upper, prev)
		}
		prev = s.Upper
	}

	if Pipeline[len(Pipeline)-1].Upper != 100 {
		t.Fatalf("final stage must end at 100, got %d", Pipeline[len(Pipeline)-1].Upper)
	}
}

func TestLabelFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		progress int
		want     string
	}{
		{-5, "Init"},
		{0, "Init"},
		{10, "Init"},
		{11, "Fetch"},
		{20, "Fetch"},
		{30, "Extract"},
		{40, "Classify"},
		{55, "Summarize"},
		{75, "Recommend"},
		{90, "Render"},
		{100, "Complete"},
		{250, "Complete"},
	}

	for _, tc := range cases {
		if got := LabelFor(tc.progress); got != tc.want {
			t.Fatalf("LabelFor(%d) = %s, want %s", tc.progress, got, tc.want)
		}
	}
}
