package classifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		defaultNegative bool
		want            string
		found           bool
	}{
		{"plain expense", "despesa 45.80 uber", true, "-45.80", true},
		{"comma decimal", "despesa 45,80 mercado", true, "-45.80", true},
		{"integer income", "receita 1500 salario", false, "1500.00", true},
		{"explicit plus", "despesa +50 estorno", true, "50.00", true},
		{"explicit minus", "receita -30 ajuste", false, "-30.00", true},
		{"no number", "despesa mercado", true, "", false},
		{"empty", "", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := extractAmount(tt.text, tt.defaultNegative)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, amount.StringFixed(2))
			}
		})
	}
}

func TestExtractWhen(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want *time.Time
	}{
		{
			"date and time",
			"agendar dentista 12/09 14:00",
			timePtr(time.Date(2025, 9, 12, 14, 0, 0, 0, time.UTC)),
		},
		{
			"full date",
			"agendar revisão 05/01/2026 09:30",
			timePtr(time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)),
		},
		{
			"two digit year",
			"agendar revisão 05/01/26 09:30",
			timePtr(time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)),
		},
		{
			"date without time defaults morning",
			"lembrete pagar conta 10/09",
			timePtr(time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC)),
		},
		{
			"hour shorthand",
			"agendar reunião amanhã 10h",
			timePtr(time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)),
		},
		{
			"hoje",
			"lembrete comprar pão hoje",
			timePtr(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		},
		{
			"time only later today",
			"agendar ligação 15:30",
			timePtr(time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)),
		},
		{
			"time only already past rolls to tomorrow",
			"agendar ligação 07:00",
			timePtr(time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC)),
		},
		{
			"nothing resolvable",
			"agendar dentista",
			nil,
		},
		{
			"invalid month ignored",
			"agendar dentista 12/13",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractWhen(tt.text, now)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     string
	}{
		{"strips keyword date and time", "agendar dentista 12/09 às 14:00", []string{"agendar"}, "dentista"},
		{"strips amount", "despesa 45,80 mercado", []string{"despesa", "receita"}, "mercado"},
		{"strips relative words", "lembrete pagar conta amanhã", []string{"lembrete"}, "pagar conta"},
		{"nothing left", "agendar 12/09 14:00", []string{"agendar"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTitle(tt.text, tt.keywords...))
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
