package extract

import (
	"strings"
	"testing"
)

func TestVisibleText_SkipsScriptsAndStyles(t *testing.T) {
	doc := `
	<html>
	<head>
		<title>Governo anuncia programa</title>
		<style>body { color: red; }</style>
		<script>var urgente = "não mostrar";</script>
	</head>
	<body>
		<h1>Programa de incentivo</h1>
		<p>Segundo estudo publicado pela universidade, o programa beneficia pesquisadores.</p>
		<noscript>Ative o JavaScript</noscript>
	</body>
	</html>
	`

	page, err := VisibleText(doc)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if page.Title != "Governo anuncia programa" {
		t.Errorf("Expected title to be extracted, got %q", page.Title)
	}

	if strings.Contains(page.Text, "color: red") {
		t.Error("Expected style content to be skipped")
	}
	if strings.Contains(page.Text, "não mostrar") {
		t.Error("Expected script content to be skipped")
	}
	if strings.Contains(page.Text, "JavaScript") {
		t.Error("Expected noscript content to be skipped")
	}
	if strings.Contains(page.Text, "Governo anuncia programa") {
		t.Error("Expected title to stay out of the body text")
	}

	if !strings.Contains(page.Text, "Segundo estudo publicado pela universidade") {
		t.Errorf("Expected paragraph text, got %q", page.Text)
	}
}

func TestVisibleText_BlocksAreSeparated(t *testing.T) {
	page, err := VisibleText(`<div>primeiro</div><div>segundo</div><p>terceiro <b>forte</b> fim</p>`)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := "primeiro\nsegundo\nterceiro forte fim"
	if page.Text != want {
		t.Errorf("Expected %q, got %q", want, page.Text)
	}
}

func TestVisibleText_CollapsesWhitespace(t *testing.T) {
	page, err := VisibleText("<p>  muitos\n\n   espaços\t aqui  </p>")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Text != "muitos espaços aqui" {
		t.Errorf("Expected collapsed whitespace, got %q", page.Text)
	}
}

func TestVisibleText_Empty(t *testing.T) {
	page, err := VisibleText("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Text != "" || page.Title != "" {
		t.Errorf("Expected empty page, got %+v", page)
	}
}
