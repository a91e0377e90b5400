package request

import "strconv"

const (
	DefaultTopN      = 5
	DefaultAnnotateN = 10
	MaxAnnotateGenes = 10 // hard cap on outbound annotation lookups
)

// ReportRequest carries the parsed parameters of one report render.
type ReportRequest struct {
	Session_ID string `json:"session_id"`
	Top_N      int    `json:"top_n"`      // rows shown in the top up/down tables
	Annotate_N int    `json:"annotate_n"` // genes sent to the annotation service
}

// ParsePositiveIntFallback returns fallback for anything that is not a
// positive integer.
func ParsePositiveIntFallback(v string, fallback int) int {
	num, err := strconv.Atoi(v)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

// NewReportRequest builds a request from raw query values, clamping the
// annotation count so the lookup cap can never be exceeded.
func NewReportRequest(sessionID, topN, annotateN string) ReportRequest {
	req := ReportRequest{
		Session_ID: sessionID,
		Top_N:      ParsePositiveIntFallback(topN, DefaultTopN),
		Annotate_N: ParsePositiveIntFallback(annotateN, DefaultAnnotateN),
	}
	if req.Annotate_N > MaxAnnotateGenes {
		req.Annotate_N = MaxAnnotateGenes
	}
	return req
}
