package template

import (
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"greeting.html": {Data: []byte(`Hello {{ name }}!`)},
		"field.html":    {Data: []byte(`<input id="wtc-{{ name|domid }}" name="{{ name }}">`)},
	}
}

func TestRender_AppendsExtension(t *testing.T) {
	engine, err := New(testFS())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.Render("greeting", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello Ada!" {
		t.Fatalf("output = %q", out)
	}
}

func TestRender_DOMIDFilter(t *testing.T) {
	engine, err := New(testFS())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.Render("field", map[string]any{"name": "contact.email[0]"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<input id="wtc-contact-email-0-" name="contact.email[0]">`
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestRenderString_InlineOverride(t *testing.T) {
	engine, err := New(testFS())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderString(`{{ title }} ({{ count }})`, map[string]any{"title": "Contact", "count": 3})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "Contact (3)" {
		t.Fatalf("output = %q", out)
	}
}

func TestRender_MissingTemplate(t *testing.T) {
	engine, err := New(testFS())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if _, err := engine.Render("absent", nil); err == nil {
		t.Fatal("expected an error for a missing template")
	}
}

func TestNew_RequiresFilesystem(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected an error for a nil filesystem")
	}
}
