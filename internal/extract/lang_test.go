package extract

import "testing"

func TestLanguageHint(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantHint bool
	}{
		{
			name:     "portuguese text",
			text:     "O governo anuncia que o programa de incentivo para a pesquisa com bolsas começa em março.",
			wantHint: false,
		},
		{
			name:     "english text",
			text:     "The government announced a new research incentive program for federal universities today.",
			wantHint: true,
		},
		{
			name:     "too short to judge",
			text:     "curto",
			wantHint: false,
		},
		{
			name:     "short english is not flagged",
			text:     "Breaking news from the capital city",
			wantHint: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, got := LanguageHint(tt.text)
			if got != tt.wantHint {
				t.Errorf("LanguageHint() hint = %v, want %v", got, tt.wantHint)
			}
			if got && msg != LanguageHintMessage {
				t.Errorf("Unexpected message %q", msg)
			}
		})
	}
}
