package render_test

import (
	"html/template"
	"strings"
	"testing"

	"github.com/matheuspbmarques/go-useform/pkg/form"
	"github.com/matheuspbmarques/go-useform/pkg/render"
)

func TestSanitizeMessage(t *testing.T) {
	cases := map[string]string{
		"  plain  ":                          "plain",
		"<b>bold</b> & <script>x()</script>": "bold &",
		"":                                   "",
	}
	for input, want := range cases {
		if got := render.SanitizeMessage(input); got != want {
			t.Fatalf("SanitizeMessage(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFuncMap(t *testing.T) {
	errs := form.FormErrors{
		"email": {Message: "<i>taken</i>"},
		"":      {Message: "try again"},
	}
	tmpl := template.Must(template.New("form").Funcs(render.FuncMap(errs)).Parse(
		`{{ range formErrors }}[{{ . }}]{{ end }}` +
			`{{ if hasError "email" }}<p>{{ fieldError "email" }}</p>{{ end }}` +
			`{{ if hasError "name" }}name{{ end }}`,
	))

	var out strings.Builder
	if err := tmpl.Execute(&out, nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got, want := out.String(), "[try again]<p>taken</p>"; got != want {
		t.Fatalf("unexpected output %q, want %q", got, want)
	}
}

func TestErrorMessages(t *testing.T) {
	got := render.ErrorMessages(form.FormErrors{
		"email": {Message: "<b>taken</b>"},
		"name":  {Message: "<script></script>"},
	})
	if len(got) != 1 || got["email"] != "taken" {
		t.Fatalf("unexpected messages %v", got)
	}
}

func TestTemplateFuncs(t *testing.T) {
	funcs := render.TemplateFuncs()
	hasError := funcs["hasError"].(func(any, string) bool)
	fieldError := funcs["fieldError"].(func(any, string) string)

	sources := map[string]any{
		"form errors": form.FormErrors{"email": {Message: "<i>taken</i>"}},
		"flattened":   render.ErrorMessages(form.FormErrors{"email": {Message: "taken"}}),
		"serialized":  map[string]any{"email": map[string]any{"message": "taken"}},
	}
	for name, errs := range sources {
		t.Run(name, func(t *testing.T) {
			if !hasError(errs, "email") || hasError(errs, "name") {
				t.Fatalf("hasError mismatch for %v", errs)
			}
			if got := fieldError(errs, "email"); got != "taken" {
				t.Fatalf("fieldError = %q, want taken", got)
			}
		})
	}
	if hasError(nil, "email") {
		t.Fatalf("nil errors must report nothing")
	}
}
