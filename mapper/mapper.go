package mapper

import "github.com/w-h-a/semsearch/storer"

// EmailMatch is the flat response shape for search results.
type EmailMatch struct {
	Id         string  `json:"id"`
	Score      float32 `json:"score"`
	EmailID    string  `json:"email_id"`
	Subject    string  `json:"subject"`
	Summary    string  `json:"summary"`
	IssueType  string  `json:"issue_type"`
	IdealReply string  `json:"ideal_reply"`
}

func ToEmailMatch(m storer.Match) EmailMatch {
	email := EmailSupportFromMetadata(m.Metadata)
	return EmailMatch{
		Id:         m.Id,
		Score:      m.Score,
		EmailID:    email.EmailID,
		Subject:    email.Subject,
		Summary:    email.Summary,
		IssueType:  email.IssueType,
		IdealReply: email.IdealReply,
	}
}

// ToEmailMatches always returns a non-nil slice so the response encodes as [].
func ToEmailMatches(matches []storer.Match) []EmailMatch {
	out := make([]EmailMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, ToEmailMatch(m))
	}
	return out
}
