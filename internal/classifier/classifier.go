package classifier

import (
	"strings"
	"time"

	"github.com/xaenox/vida-bot/internal/models"
)

type Classifier interface {
	Classify(text string) models.Intent
}

// KeywordClassifier maps free text to an intent by case-insensitive
// substring matching against a fixed keyword table. Precedence order is
// fixed so overlapping keywords ("agendar" contains "agenda") resolve
// deterministically.
type KeywordClassifier struct {
	now func() time.Time
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{now: time.Now}
}

// NewKeywordClassifierWithClock pins the reference time used to resolve
// relative dates ("hoje", "amanhã", bare clock times).
func NewKeywordClassifierWithClock(now func() time.Time) *KeywordClassifier {
	return &KeywordClassifier{now: now}
}

func (c *KeywordClassifier) Classify(text string) models.Intent {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "agendar"):
		return models.Intent{
			Kind:   models.IntentScheduleAppointment,
			Params: c.extractEvent(lower, "agendar"),
		}
	case strings.Contains(lower, "lembrete"):
		return models.Intent{
			Kind:   models.IntentCreateReminder,
			Params: c.extractEvent(lower, "lembrete"),
		}
	case strings.Contains(lower, "despesa") || strings.Contains(lower, "receita"):
		return models.Intent{
			Kind:   models.IntentRecordTransaction,
			Params: c.extractTransaction(lower),
		}
	case strings.Contains(lower, "próximos") || strings.Contains(lower, "proximos") ||
		strings.Contains(lower, "agenda"):
		return models.Intent{Kind: models.IntentQueryUpcoming}
	default:
		return models.Intent{Kind: models.IntentUnrecognized}
	}
}

// extractEvent pulls the date/time and leftover title out of an agendar or
// lembrete command. Extraction is best effort: a missing timestamp leaves
// When nil and the dispatcher decides what to do about it.
func (c *KeywordClassifier) extractEvent(lower, keyword string) models.IntentParams {
	params := models.IntentParams{}
	params.When = extractWhen(lower, c.now())
	params.Title = extractTitle(lower, keyword)
	return params
}

func (c *KeywordClassifier) extractTransaction(lower string) models.IntentParams {
	params := models.IntentParams{}
	params.When = extractWhen(lower, c.now())

	// Date and time tokens are stripped first so "10/09" cannot be read as
	// an amount. "receita" defaults positive, "despesa" negative; an
	// explicit sign on the number wins over the keyword default.
	amountText := stripTemporalTokens(lower)
	negative := strings.Contains(lower, "despesa")
	if amount, ok := extractAmount(amountText, negative); ok {
		params.Amount = &amount
	}

	params.Category = inferCategory(lower)
	params.Title = extractTitle(lower, "despesa", "receita")
	return params
}

var categoryKeywords = map[string][]string{
	"Transporte":  {"gasolina", "combustível", "combustivel", "ônibus", "onibus", "metrô", "metro", "estacionamento"},
	"Alimentação": {"mercado", "restaurante", "almoço", "almoco", "jantar", "lanche", "padaria"},
	"Moradia":     {"aluguel", "condomínio", "condominio", "luz", "água", "agua", "internet"},
	"Saúde":       {"farmácia", "farmacia", "médico", "medico", "consulta", "remédio", "remedio"},
	"Lazer":       {"cinema", "show", "viagem", "passeio"},
	"Salário":     {"salário", "salario", "pagamento", "freela"},
}

// inferCategory returns the first category whose keyword appears in the
// text, or empty when none match. Iteration over the map would be
// nondeterministic, so categories are checked in a fixed order.
var categoryOrder = []string{"Transporte", "Alimentação", "Moradia", "Saúde", "Lazer", "Salário"}

func inferCategory(lower string) string {
	for _, category := range categoryOrder {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lower, keyword) {
				return category
			}
		}
	}
	return ""
}
