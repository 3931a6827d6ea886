package conversation

import "testing"

func TestIsFlightQuery(t *testing.T) {
	c := NewRegexClassifier()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"destination phrase", "quero ir para Lisboa saindo de São Paulo", true},
		{"ticket keyword", "qual o preço da passagem?", true},
		{"round trip", "procuro ida e volta para o Rio", true},
		{"one way", "pode ser só ida", true},
		{"price question", "quanto custa pra Salvador?", true},
		{"uppercase", "TEM VOO para Recife?", true},
		{"travel wish", "quero viajar em julho", true},
		{"greeting", "oi, bom dia", false},
		{"small talk", "me conta uma curiosidade sobre Portugal", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsFlightQuery(tt.text); got != tt.want {
				t.Errorf("IsFlightQuery(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractFlightDetails(t *testing.T) {
	c := NewRegexClassifier()

	tests := []struct {
		name   string
		text   string
		want   FlightQuery
		wantOK bool
	}{
		{
			name:   "textual date",
			text:   "quero ir para Lisboa, saindo de São Paulo dia 10 de maio",
			want:   FlightQuery{Destination: "Lisboa", Origin: "São Paulo", Date: "10 de maio"},
			wantOK: true,
		},
		{
			name:   "no date",
			text:   "quero ir para Lisboa saindo de São Paulo",
			want:   FlightQuery{Destination: "Lisboa", Origin: "São Paulo"},
			wantOK: true,
		},
		{
			name:   "numeric date",
			text:   "passagem para Recife saindo de Lisboa 10/05/2026",
			want:   FlightQuery{Destination: "Recife", Origin: "Lisboa", Date: "10/05/2026"},
			wantOK: true,
		},
		{
			name:   "tem voo phrasing",
			text:   "tem voo para Salvador saindo de Curitiba?",
			want:   FlightQuery{Destination: "Salvador", Origin: "Curitiba?"},
			wantOK: true,
		},
		{
			name:   "procuro voo phrasing",
			text:   "procuro voo para Miami saindo de Guarulhos dia 2 de janeiro",
			want:   FlightQuery{Destination: "Miami", Origin: "Guarulhos", Date: "2 de janeiro"},
			wantOK: true,
		},
		{
			name:   "keyword without extraction shape",
			text:   "quanto custa uma passagem?",
			wantOK: false,
		},
		{
			name:   "reordered clauses miss",
			text:   "saindo de São Paulo quero ir para Lisboa",
			wantOK: false,
		},
		{
			name:   "plain chat",
			text:   "oi, tudo bem?",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.ExtractFlightDetails(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ExtractFlightDetails(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got != tt.want {
				t.Errorf("ExtractFlightDetails(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
