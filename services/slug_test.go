package services

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "accented title",
			input: "Defesa de TCC: Privacidade em Blockchain",
			want:  "defesa-de-tcc-privacidade-em-blockchain",
		},
		{
			name:  "portuguese diacritics",
			input: "Edital de Seleção — Iniciação Científica",
			want:  "edital-de-selecao-iniciacao-cientifica",
		},
		{
			name:  "cedilla and tilde",
			input: "Graduação e Pós",
			want:  "graduacao-e-pos",
		},
		{
			name:  "existing hyphens survive",
			input: "Covid-19 na UFRPE",
			want:  "covid-19-na-ufrpe",
		},
		{
			name:  "hyphen surrounded by spaces",
			input: "Covid - 19",
			want:  "covid-19",
		},
		{
			name:  "leading hyphen",
			input: "- Edital Aberto",
			want:  "edital-aberto",
		},
		{
			name:  "trailing hyphen",
			input: "Workshop -",
			want:  "workshop",
		},
		{
			name:  "spaced hyphen run",
			input: "a  -  b",
			want:  "a-b",
		},
		{
			name:  "consecutive hyphens",
			input: "antes--depois",
			want:  "antes-depois",
		},
		{
			name:  "surrounding whitespace",
			input: "  Nova   Notícia  ",
			want:  "nova-noticia",
		},
		{
			name:  "all symbols yields empty",
			input: "???!!!",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyCharset(t *testing.T) {
	inputs := []string{
		"Grupo de Segurança da Informação e Privacidade",
		"15º Workshop (edição especial)",
		"título com\ttabs\ne quebras",
		"Covid - 19",
		"- Edital Aberto -",
		"a  -  b -- c",
		"--- ---",
	}
	for _, in := range inputs {
		got := Slugify(in)
		for _, r := range got {
			valid := r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			if !valid {
				t.Errorf("Slugify(%q) produced invalid rune %q in %q", in, r, got)
			}
		}
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Slugify(%q) = %q has a leading or trailing hyphen", in, got)
		}
		if strings.Contains(got, "--") {
			t.Errorf("Slugify(%q) = %q contains a repeated hyphen", in, got)
		}
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	in := "Defesa de Mestrado: Análise de Malware"
	if a, b := Slugify(in), Slugify(in); a != b {
		t.Errorf("Slugify not deterministic: %q vs %q", a, b)
	}
}
