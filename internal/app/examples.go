package app

import "fmt"

// ExampleKind tells whether an example is expected to score as fake or true
type ExampleKind string

const (
	ExampleFake ExampleKind = "fake"
	ExampleTrue ExampleKind = "true"
)

const exampleButtonChars = 60

// Example is a canned text the user can load with one click
type Example struct {
	Kind   ExampleKind `json:"kind"`
	Text   string      `json:"text"`
	Button string      `json:"button"`
	Badge  string      `json:"badge"`
}

var exampleTexts = []struct {
	kind ExampleKind
	text string
}{
	{ExampleFake, "Estudo comprova que vacinas alteram DNA humano permanentemente"},
	{ExampleTrue, "Governo anuncia novo programa de incentivo à pesquisa científica nas universidades federais"},
	{ExampleFake, "ALERTA: Nova variante do vírus é 500% mais contagiosa, dizem cientistas"},
}

// Examples returns the quick examples in display order
func Examples() []Example {
	out := make([]Example, len(exampleTexts))
	for i, e := range exampleTexts {
		out[i] = Example{
			Kind:   e.kind,
			Text:   e.text,
			Button: exampleButton(e.text),
			Badge:  exampleBadge(e.kind),
		}
	}
	return out
}

// ExampleAt returns example i, counting from zero
func ExampleAt(i int) (Example, error) {
	all := Examples()
	if i < 0 || i >= len(all) {
		return Example{}, fmt.Errorf("example %d out of range [0,%d)", i, len(all))
	}
	return all[i], nil
}

func exampleButton(text string) string {
	runes := []rune(text)
	if len(runes) > exampleButtonChars {
		runes = runes[:exampleButtonChars]
	}
	return string(runes) + "..."
}

func exampleBadge(kind ExampleKind) string {
	if kind == ExampleTrue {
		return "Exemplo Verdadeiro"
	}
	return "Exemplo Falso"
}
