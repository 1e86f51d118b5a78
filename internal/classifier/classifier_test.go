package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/vida-bot/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
}

func TestClassifyPrecedence(t *testing.T) {
	c := NewKeywordClassifierWithClock(fixedClock)

	tests := []struct {
		name string
		text string
		want models.IntentKind
	}{
		{"agendar", "agendar dentista 12/09 14:00", models.IntentScheduleAppointment},
		{"agendar uppercase", "AGENDAR reunião amanhã 10h", models.IntentScheduleAppointment},
		{"agendar beats lembrete", "agendar lembrete da consulta 12/09 14:00", models.IntentScheduleAppointment},
		{"lembrete", "lembrete pagar conta 10/09", models.IntentCreateReminder},
		{"lembrete beats despesa", "lembrete despesa do aluguel 05/09", models.IntentCreateReminder},
		{"despesa", "despesa 45.80 uber", models.IntentRecordTransaction},
		{"receita", "receita 1500 salario", models.IntentRecordTransaction},
		{"despesa beats proximos", "despesa 20 nos próximos dias", models.IntentRecordTransaction},
		{"proximos", "próximos compromissos", models.IntentQueryUpcoming},
		{"proximos without accent", "proximos compromissos", models.IntentQueryUpcoming},
		{"agenda", "qual a minha agenda?", models.IntentQueryUpcoming},
		{"unrecognized", "bom dia, tudo bem?", models.IntentUnrecognized},
		{"empty", "", models.IntentUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := NewKeywordClassifierWithClock(fixedClock)

	texts := []string{
		"agendar dentista 12/09 14:00",
		"despesa 45,80 mercado",
		"qualquer outra coisa",
		"",
	}
	for _, text := range texts {
		first := c.Classify(text)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, c.Classify(text), "text %q", text)
		}
	}
}

func TestClassifyTransactionSign(t *testing.T) {
	c := NewKeywordClassifierWithClock(fixedClock)

	tests := []struct {
		name string
		text string
		want string // StringFixed(2)
	}{
		{"despesa defaults negative", "despesa 45.80 uber", "-45.80"},
		{"comma separator", "despesa 45,80 mercado", "-45.80"},
		{"receita defaults positive", "receita 1500 salario", "1500.00"},
		{"explicit plus overrides despesa", "despesa +50 estorno", "50.00"},
		{"explicit minus overrides receita", "receita -30 ajuste", "-30.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := c.Classify(tt.text)
			require.Equal(t, models.IntentRecordTransaction, intent.Kind)
			require.NotNil(t, intent.Params.Amount)
			assert.Equal(t, tt.want, intent.Params.Amount.StringFixed(2))
		})
	}
}

func TestClassifyTransactionCategory(t *testing.T) {
	c := NewKeywordClassifierWithClock(fixedClock)

	intent := c.Classify("despesa 45,80 mercado")
	require.Equal(t, models.IntentRecordTransaction, intent.Kind)
	assert.Equal(t, "Alimentação", intent.Params.Category)

	// No category keyword: left empty, the dispatcher stores Uncategorized.
	intent = c.Classify("despesa 45.80 uber")
	require.Equal(t, models.IntentRecordTransaction, intent.Kind)
	assert.Equal(t, "", intent.Params.Category)
}

func TestClassifyTransactionWithDate(t *testing.T) {
	c := NewKeywordClassifierWithClock(fixedClock)

	// The date must not be mistaken for the amount.
	intent := c.Classify("despesa 50 mercado 12/09")
	require.Equal(t, models.IntentRecordTransaction, intent.Kind)
	require.NotNil(t, intent.Params.Amount)
	assert.Equal(t, "-50.00", intent.Params.Amount.StringFixed(2))
	require.NotNil(t, intent.Params.When)
	assert.Equal(t, time.Date(2025, 9, 12, 9, 0, 0, 0, time.UTC), *intent.Params.When)
}

func TestClassifyKeepsIntentWhenExtractionFails(t *testing.T) {
	c := NewKeywordClassifierWithClock(fixedClock)

	// Matched keyword with nothing extractable must not fall through to
	// Unrecognized.
	intent := c.Classify("agendar")
	assert.Equal(t, models.IntentScheduleAppointment, intent.Kind)
	assert.Nil(t, intent.Params.When)
	assert.Equal(t, "", intent.Params.Title)

	intent = c.Classify("despesa")
	assert.Equal(t, models.IntentRecordTransaction, intent.Kind)
	assert.Nil(t, intent.Params.Amount)
}

func TestClassifyEventParams(t *testing.T) {
	c := NewKeywordClassifierWithClock(fixedClock)

	intent := c.Classify("agendar dentista 12/09 às 14:00")
	require.Equal(t, models.IntentScheduleAppointment, intent.Kind)
	require.NotNil(t, intent.Params.When)
	assert.Equal(t, time.Date(2025, 9, 12, 14, 0, 0, 0, time.UTC), *intent.Params.When)
	assert.Equal(t, "dentista", intent.Params.Title)

	intent = c.Classify("lembrete pagar conta 10/09")
	require.Equal(t, models.IntentCreateReminder, intent.Kind)
	require.NotNil(t, intent.Params.When)
	assert.Equal(t, time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC), *intent.Params.When)
	assert.Equal(t, "pagar conta", intent.Params.Title)
}
