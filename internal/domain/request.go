package domain

import (
	"fmt"
	"strings"
)

// Search methods accepted on an analysis request. Demo needs no source input;
// keywords and urls require one.
const (
	SearchKeywords = "keywords"
	SearchURLs     = "urls"
	SearchDemo     = "demo"
)

// AnalysisRequest carries everything a caller supplies to start a job.
type AnalysisRequest struct {
	Source       string `json:"source,omitempty"`
	HTMLContent  string `json:"htmlContent,omitempty"`
	Email        string `json:"email,omitempty"`
	CustomPrompt string `json:"customPrompt,omitempty"`
	SearchMethod string `json:"searchMethod,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
}

// Normalize fills defaults and trims caller input.
func (r *AnalysisRequest) Normalize() {
	r.Source = strings.TrimSpace(r.Source)
	r.Email = strings.TrimSpace(r.Email)
	r.SearchMethod = strings.ToLower(strings.TrimSpace(r.SearchMethod))
	if r.SearchMethod == "" {
		r.SearchMethod = SearchDemo
	}
}

// Validate rejects submissions without a usable source specifier.
func (r AnalysisRequest) Validate() error {
	switch r.SearchMethod {
	case SearchDemo:
		return nil
	case SearchKeywords, SearchURLs:
		if r.Source == "" && r.HTMLContent == "" {
			return fmt.Errorf("%w: search method %q requires a source", ErrInvalidRequest, r.SearchMethod)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown search method %q", ErrInvalidRequest, r.SearchMethod)
	}
}

// Recipients splits the email field into individual addresses. The field
// accepts a single address or a comma-separated list.
func (r AnalysisRequest) Recipients() []string {
	if r.Email == "" {
		return nil
	}
	parts := strings.Split(r.Email, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
