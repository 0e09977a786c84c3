// Package ai extracts lead records from conversation text using the
// Anthropic API. It is the primary extraction path; callers fall back
// to local pattern extraction when it fails or is disabled.
package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/stratevo/lead-engine/internal/lead"
	"github.com/stratevo/lead-engine/internal/resilience"
	"github.com/stratevo/lead-engine/pkg/anthropic"
)

const systemPrompt = `Você é um extrator de dados de leads B2B para um CRM brasileiro.
Extraia do texto da conversa os dados da empresa e do contato e responda
APENAS com um objeto JSON com os campos: companyName, companyLegalName,
cnpj, cnae, companySize, capitalSocial, companyWebsite, companyRegion,
companySector, contactName, contactTitle, contactEmail, contactPhone,
contactLinkedIn, totvsProducts, olvSolutions, interestArea, urgency,
budget, timeline. Use null para campos ausentes e listas vazias para
totvsProducts/olvSolutions. Nunca invente produtos de um fornecedor que
não foi mencionado no texto.`

// Extractor calls the Anthropic API to build a LeadB2B from free text.
type Extractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	retry     resilience.Policy
}

// New builds an Extractor. requestsPerMin throttles API calls across
// concurrent batch workers.
func New(client anthropic.Client, model string, maxTokens int, requestsPerMin float64) *Extractor {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	if requestsPerMin <= 0 {
		requestsPerMin = 50
	}
	return &Extractor{
		client:    client,
		model:     model,
		maxTokens: int64(maxTokens),
		limiter:   rate.NewLimiter(rate.Limit(requestsPerMin/60), 1),
		retry:     resilience.DefaultPolicy(),
	}
}

// ExtractLead runs one extraction call. The tenant context, when
// present, is given to the model as vocabulary hints. The returned
// record always carries Source "ai".
func (e *Extractor) ExtractLead(ctx context.Context, text string, tctx *lead.TenantContext) (*lead.LeadB2B, error) {
	if strings.TrimSpace(text) == "" {
		return nil, eris.New("ai: empty conversation text")
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "ai: rate limit wait")
	}

	resp, err := resilience.Do(ctx, e.retry, "ai.extract", func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return e.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     e.model,
			MaxTokens: e.maxTokens,
			System:    systemPrompt + tenantHints(tctx),
			Messages: []anthropic.Message{
				{Role: "user", Content: text},
			},
		})
	})
	if err != nil {
		return nil, eris.Wrap(err, "ai: extract lead")
	}
	resp.Usage.LogCost(e.model, "extract")

	parsed, err := parseLead(resp.Text())
	if err != nil {
		return nil, err
	}
	parsed.Source = lead.SourceAI
	if parsed.ConversationSummary == "" {
		parsed.ConversationSummary = summarize(text)
	}

	zap.L().Debug("ai: extraction complete",
		zap.Bool("has_company", parsed.HasCompany()),
		zap.Bool("has_contact", parsed.HasContact()),
	)
	return parsed, nil
}

func tenantHints(tctx *lead.TenantContext) string {
	if tctx == nil {
		return ""
	}
	var b strings.Builder
	if len(tctx.SolutionKeywords) > 0 {
		b.WriteString("\nSoluções do tenant: " + strings.Join(tctx.SolutionKeywords, ", ") + ".")
	}
	if len(tctx.VendorKeywords) > 0 {
		b.WriteString("\nFornecedores do tenant: " + strings.Join(tctx.VendorKeywords, ", ") + ".")
	}
	if len(tctx.InterestKeywords) > 0 {
		b.WriteString("\nÁreas de interesse do tenant: " + strings.Join(tctx.InterestKeywords, ", ") + ".")
	}
	return b.String()
}

// parseLead unmarshals the model output, tolerating markdown fences
// and surrounding prose.
func parseLead(text string) (*lead.LeadB2B, error) {
	var parsed lead.LeadB2B
	if err := json.Unmarshal([]byte(cleanJSON(text)), &parsed); err != nil {
		return nil, eris.Wrap(err, "ai: parse lead JSON")
	}
	if parsed.TotvsProducts == nil {
		parsed.TotvsProducts = []string{}
	}
	if parsed.OlvSolutions == nil {
		parsed.OlvSolutions = []string{}
	}
	return &parsed, nil
}

// cleanJSON extracts a JSON object from text that may contain markdown
// code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

const summaryLimit = 500

func summarize(text string) string {
	r := []rune(text)
	if len(r) <= summaryLimit {
		return text
	}
	return string(r[:summaryLimit]) + "..."
}
