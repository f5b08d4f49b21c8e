package email

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nurpe/amc-manager/internal/format"
	"github.com/nurpe/amc-manager/internal/model"
)

const DefaultSubject = "AMC Renewal Reminder"

var subjectLine = regexp.MustCompile(`Subject: (.*)`)

// Template is the reminder used whenever the provider cannot produce one.
func Template(contract model.Contract, customer model.Customer) string {
	return fmt.Sprintf(`Subject: Regarding Your Upcoming Annual Maintenance Contract Renewal

Dear %s,

We hope this email finds you well.

This is a friendly reminder that your Annual Maintenance Contract (AMC) with us is due for renewal soon.

Here are the details of your previous contract:
- Original Deal Amount: %s
- Agreed AMC Amount: %s
- Renewal Date: %s

Please let us know if you would like to proceed with the renewal. We value your business and look forward to continuing our partnership.

Best regards,

The Service Team`,
		customerName(customer),
		format.Money(contract.DealAmount),
		format.Money(contract.AMCAmount),
		format.Date(contract.RenewalDate),
	)
}

// Prompt is the instruction sent to the text-generation provider.
func Prompt(contract model.Contract, customer model.Customer) string {
	return fmt.Sprintf(`Generate a professional and friendly reminder email to a client about their upcoming Annual Maintenance Contract (AMC) renewal.

**Client Details:**
- Company Name: %s

**Contract Details:**
- Previous Deal Closed Amount: %s
- Agreed AMC Renewal Amount: %s
- Renewal Date: %s

**Instructions:**
- The tone should be polite and professional.
- Clearly state the purpose of the email.
- Include the key contract details provided above.
- End with a call to action, asking them to confirm the renewal.
- Do not include placeholders like "[Your Company Name]". Assume the sender is "The Service Team".
- The output should be only the email content (including a subject line), without any preamble or explanation. Start with "Subject: ...".`,
		customerName(customer),
		format.Money(contract.DealAmount),
		format.Money(contract.AMCAmount),
		format.Date(contract.RenewalDate),
	)
}

// ParseDraft splits email text into subject and body. The subject comes from
// the first "Subject: " line; the body is everything after the first blank
// line.
func ParseDraft(text string) (subject, body string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	subject = DefaultSubject
	if m := subjectLine.FindStringSubmatch(text); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			subject = s
		}
	}

	parts := strings.Split(text, "\n\n")
	if len(parts) > 1 {
		body = strings.Join(parts[1:], "\n\n")
	}
	return subject, body
}

func customerName(c model.Customer) string {
	if strings.TrimSpace(c.Name) == "" {
		return model.UnknownCustomerName
	}
	return c.Name
}
