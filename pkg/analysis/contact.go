package analysis

import (
	"regexp"
	"strings"

	"github.com/artem13815/skillverge/pkg/nlp"
)

var (
	reEmail    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	rePhone    = regexp.MustCompile(`(?:\+91|91)?[\s-]?[6-9]\d{9}`)
	reLinkedIn = regexp.MustCompile(`linkedin\.com/in/[A-Za-z0-9-]+`)
)

// ExtractContact returns the first email, Indian mobile number and LinkedIn
// profile URL found in the original-case text. Missing fields are omitted.
func ExtractContact(t nlp.Text) Contact {
	c := Contact{}
	if m := reEmail.FindString(t.Raw); m != "" {
		c[ContactEmail] = m
	}
	if m := strings.TrimSpace(rePhone.FindString(t.Raw)); m != "" {
		c[ContactPhone] = m
	}
	if m := reLinkedIn.FindString(t.Raw); m != "" {
		c[ContactLinkedIn] = m
	}
	return c
}
