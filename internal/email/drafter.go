// Package email drafts AMC renewal reminder emails. Drafting never fails:
// without a provider, or when the provider errors, a fixed template is used.
package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/nurpe/amc-manager/internal/model"
)

const DefaultTimeout = 20 * time.Second

type Source string

const (
	SourceProvider Source = "provider"
	SourceTemplate Source = "template"
)

// Provider generates free text for a prompt.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Recorder counts drafts by source.
type Recorder interface {
	ObserveDraft(source string)
}

type Draft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Text    string `json:"text"`
	Source  Source `json:"source"`
}

type Drafter struct {
	provider Provider
	timeout  time.Duration
	recorder Recorder
	log      zerolog.Logger
	group    singleflight.Group
}

// NewDrafter builds a Drafter. A nil provider means no credential is
// configured and every draft comes from the template.
func NewDrafter(provider Provider, timeout time.Duration, recorder Recorder, log zerolog.Logger) *Drafter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Drafter{
		provider: provider,
		timeout:  timeout,
		recorder: recorder,
		log:      log.With().Str("component", "email_drafter").Logger(),
	}
}

// Draft returns a reminder for the contract. Concurrent calls for the same
// contract share one provider request. The request is detached from ctx
// cancellation and bounded by the drafter timeout instead, so a caller that
// goes away does not abort a draft other callers are waiting on.
func (d *Drafter) Draft(ctx context.Context, contract model.Contract, customer model.Customer) Draft {
	key := contract.ID + "|" + customer.ID
	v, _, _ := d.group.Do(key, func() (interface{}, error) {
		return d.draft(ctx, contract, customer), nil
	})
	return v.(Draft)
}

func (d *Drafter) draft(ctx context.Context, contract model.Contract, customer model.Customer) Draft {
	if d.provider == nil {
		return d.fallback(contract, customer)
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	text, err := d.provider.Generate(callCtx, Prompt(contract, customer))
	if err != nil {
		d.log.Warn().Err(err).Str("contract_id", contract.ID).Msg("provider draft failed, using template")
		return d.fallback(contract, customer)
	}

	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "Subject:") {
		d.log.Warn().Str("contract_id", contract.ID).Msg("provider draft has no subject line, using template")
		return d.fallback(contract, customer)
	}

	draft := newDraft(text, SourceProvider)
	if strings.TrimSpace(draft.Body) == "" {
		d.log.Warn().Str("contract_id", contract.ID).Msg("provider draft has no body after the subject line, using template")
		return d.fallback(contract, customer)
	}

	d.observe(SourceProvider)
	return draft
}

func (d *Drafter) fallback(contract model.Contract, customer model.Customer) Draft {
	d.observe(SourceTemplate)
	return newDraft(Template(contract, customer), SourceTemplate)
}

func (d *Drafter) observe(source Source) {
	if d.recorder != nil {
		d.recorder.ObserveDraft(string(source))
	}
}

func newDraft(text string, source Source) Draft {
	subject, body := ParseDraft(text)
	return Draft{Subject: subject, Body: body, Text: text, Source: source}
}
