package mapper

import "fmt"

// EmailSupport is the metadata shape for imported support emails.
type EmailSupport struct {
	EmailID    string
	Subject    string
	Summary    string
	IssueType  string
	IdealReply string
}

// EmbedText builds the text that gets embedded. It is never stored as-is.
func (e EmailSupport) EmbedText() string {
	return fmt.Sprintf("%s (Issue Type: %s)", e.Summary, e.IssueType)
}

func (e EmailSupport) Metadata() map[string]string {
	return map[string]string{
		"email_id":      e.EmailID,
		"subject":       e.Subject,
		"email_summary": e.Summary,
		"issue_type":    e.IssueType,
		"ideal_reply":   e.IdealReply,
	}
}

// EmailSupportFromMetadata tolerates missing keys; absent fields come back empty.
func EmailSupportFromMetadata(md map[string]string) EmailSupport {
	return EmailSupport{
		EmailID:    md["email_id"],
		Subject:    md["subject"],
		Summary:    md["email_summary"],
		IssueType:  md["issue_type"],
		IdealReply: md["ideal_reply"],
	}
}

// ReplyThread is the metadata shape for saved customer/AI reply pairs.
type ReplyThread struct {
	ThreadID    string
	CustomerMsg string
	AIReply     string
	Timestamp   string
}

func (r ReplyThread) EmbedText() string {
	return fmt.Sprintf("Customer: %s\nAI: %s", r.CustomerMsg, r.AIReply)
}

func (r ReplyThread) Metadata() map[string]string {
	return map[string]string{
		"threadId":    r.ThreadID,
		"customerMsg": r.CustomerMsg,
		"aiReply":     r.AIReply,
		"timestamp":   r.Timestamp,
	}
}

func ReplyThreadFromMetadata(md map[string]string) ReplyThread {
	return ReplyThread{
		ThreadID:    md["threadId"],
		CustomerMsg: md["customerMsg"],
		AIReply:     md["aiReply"],
		Timestamp:   md["timestamp"],
	}
}
