// Package stage holds the single ordered descriptor table for the analysis
// pipeline. The stage runner uses it to know which progress value to report
// after each step, and status rendering uses it to map a percentage back to a
// label, so the two can never drift apart.
package stage

// Stage binds one pipeline step to the upper bound of its progress sub-range.
type Stage struct {
	Name    string
	Upper   int
	Message string
}

// Pipeline is the fixed stage order. Each stage owns the progress range from
// the previous stage's upper bound (exclusive at the lower end, inclusive at
// the upper) up to its own.
var Pipeline = []Stage{
	{Name: "Init", Upper: 10, Message: "Initializing analysis"},
	{Name: "Fetch", Upper: 20, Message: "Fetching source content"},
	{Name: "Extract", Upper: 30, Message: "Extracting reviews"},
	{Name: "Classify", Upper: 40, Message: "Classifying sentiment"},
	{Name: "Summarize", Upper: 60, Message: "Generating AI summaries"},
	{Name: "Recommend", Upper: 75, Message: "Generating recommendations"},
	{Name: "Render", Upper: 90, Message: "Rendering report"},
	{Name: "Complete", Upper: 100, Message: "Analysis complete"},
}

// LabelFor maps a progress percentage to its stage name. Values are clamped
// into 0..100; 0 belongs to Init and 100 to Complete.
func LabelFor(progress int) string {
	if progress <= 0 {
		return Pipeline[0].Name
	}
	for _, s := range Pipeline {
		if progress <= s.Upper {
			return s.Name
		}
	}
	return Pipeline[len(Pipeline)-1].Name
}
