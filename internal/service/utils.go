package service

import (
	"fmt"
	"strings"

	"github.com/w-h-a/semsearch/mapper"
	"github.com/w-h-a/semsearch/storer"
)

func buildDraftPrompt(customerMsg string, matches []storer.Match) string {
	var b strings.Builder

	b.WriteString("You draft replies for a customer support team. Use the past replies below as guidance for tone and content.\n")

	for _, m := range matches {
		thread := mapper.ReplyThreadFromMetadata(m.Metadata)
		if len(thread.AIReply) > 0 {
			fmt.Fprintf(&b, "\nPast case: %s\nReply: %s\n", thread.CustomerMsg, thread.AIReply)
			continue
		}

		email := mapper.EmailSupportFromMetadata(m.Metadata)
		if len(email.IdealReply) > 0 {
			fmt.Fprintf(&b, "\nPast case: %s\nReply: %s\n", email.Summary, email.IdealReply)
		}
	}

	fmt.Fprintf(&b, "\nCustomer: %s\n\nDraft the reply:", customerMsg)

	return b.String()
}
