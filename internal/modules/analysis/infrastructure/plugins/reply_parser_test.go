package plugins

import (
	"strings"
	"testing"

	"MaintLens/internal/modules/analysis/domain/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    analysis.Result
		matched bool
	}{
		{
			name: "well formed",
			raw:  "Score: 85\nProbleme:\n- Missing root cause\n- No batch number\nZusammenfassung: Adequate but incomplete.",
			want: analysis.Result{
				Score:   85,
				Issues:  []string{"Missing root cause", "No batch number"},
				Summary: "Adequate but incomplete.",
			},
			matched: true,
		},
		{
			name:    "empty issues block",
			raw:     "Score: 95\nProbleme:\nZusammenfassung: Excellent.",
			want:    analysis.Result{Score: 95, Issues: []string{}, Summary: "Excellent."},
			matched: true,
		},
		{
			name:    "case insensitive headings and extra whitespace",
			raw:     "  SCORE:   70  \n\n  probleme:\n   -  Vague wording  \n\nZUSAMMENFASSUNG:\n  Needs detail.  \n",
			want:    analysis.Result{Score: 70, Issues: []string{"Vague wording"}, Summary: "Needs detail."},
			matched: true,
		},
		{
			name:    "non bullet lines in issues block are dropped",
			raw:     "Score: 40\nProbleme:\nHere are the problems\n- First\n* Second\n-Third\n- Fourth\nZusammenfassung: Poor.",
			want:    analysis.Result{Score: 40, Issues: []string{"First", "Fourth"}, Summary: "Poor."},
			matched: true,
		},
		{
			name:    "out of range score passes through",
			raw:     "Score: 150\nProbleme:\n- Too good to be true\nZusammenfassung: Drift.",
			want:    analysis.Result{Score: 150, Issues: []string{"Too good to be true"}, Summary: "Drift."},
			matched: true,
		},
		{
			name:    "negative score passes through",
			raw:     "Score: -5\nProbleme:\nZusammenfassung: ",
			want:    analysis.Result{Score: -5, Issues: []string{}, Summary: ""},
			matched: true,
		},
		{
			name:    "crlf line endings",
			raw:     "Score: 60\r\nProbleme:\r\n- One\r\n- Two\r\nZusammenfassung: Ok.\r\n",
			want:    analysis.Result{Score: 60, Issues: []string{"One", "Two"}, Summary: "Ok."},
			matched: true,
		},
		{
			name:    "preamble before score is ignored",
			raw:     "Hier ist die Bewertung:\nScore: 55\nProbleme:\n- A\nZusammenfassung: B",
			want:    analysis.Result{Score: 55, Issues: []string{"A"}, Summary: "B"},
			matched: true,
		},
		{
			name:    "score word inside summary does not move the split",
			raw:     "Score: 80\nProbleme:\n- Score: not justified\nZusammenfassung: The Score: 10 mentioned above is wrong.",
			want:    analysis.Result{Score: 80, Issues: []string{"Score: not justified"}, Summary: "The Score: 10 mentioned above is wrong."},
			matched: true,
		},
		{
			name:    "earliest summary heading ends the issues block",
			raw:     "Score: 30\nProbleme:\n- Zusammenfassung: missing\nZusammenfassung: Weak.",
			want:    analysis.Result{Score: 30, Issues: []string{}, Summary: "missing\nZusammenfassung: Weak."},
			matched: true,
		},
		{
			name:    "earliest score heading wins",
			raw:     "Score: 20\nScore: 90\nProbleme:\n- X\nZusammenfassung: Y",
			want:    analysis.Result{Score: 20, Issues: []string{"X"}, Summary: "Y"},
			matched: true,
		},
		{
			name:    "no headings",
			raw:     "I cannot analyze this.",
			want:    analysis.FallbackResult(),
			matched: false,
		},
		{
			name:    "empty reply",
			raw:     "",
			want:    analysis.FallbackResult(),
			matched: false,
		},
		{
			name:    "missing summary heading",
			raw:     "Score: 50\nProbleme:\n- A",
			want:    analysis.FallbackResult(),
			matched: false,
		},
		{
			name:    "non numeric score",
			raw:     "Score: high\nProbleme:\n- A\nZusammenfassung: B",
			want:    analysis.FallbackResult(),
			matched: false,
		},
		{
			name:    "score overflows int",
			raw:     "Score: 99999999999999999999999\nProbleme:\nZusammenfassung: B",
			want:    analysis.FallbackResult(),
			matched: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseReply(tc.raw)
			assert.Equal(t, tc.matched, ok)
			assert.Equal(t, tc.want, got)
			assert.NotNil(t, got.Issues)
		})
	}
}

func TestParseReplyFallbackIsStable(t *testing.T) {
	first, _ := ParseReply("garbage")
	first.Issues[0] = "mutated"

	second, ok := ParseReply("garbage")
	require.False(t, ok)
	assert.True(t, second.IsFallback())
	assert.Equal(t, []string{analysis.FallbackIssueUnprocessed, analysis.FallbackIssueFormat}, second.Issues)
}

func TestParseReplyNeverPanics(t *testing.T) {
	inputs := []string{
		"Score:",
		"Score: 1 Probleme: Zusammenfassung:",
		strings.Repeat("Probleme:\n- x\n", 100),
		"Zusammenfassung: a Probleme: b Score: 3",
		"\x00\xff\xfe",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { ParseReply(in) })
	}

	got, ok := ParseReply("Score: 1 Probleme: Zusammenfassung:")
	require.True(t, ok)
	assert.Equal(t, analysis.Result{Score: 1, Issues: []string{}, Summary: ""}, got)
}
