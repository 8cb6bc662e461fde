package validation

import (
	"strings"
	"testing"
)

func TestDecode_MalformedBody(t *testing.T) {
	cases := []string{
		"",
		"{not json",
		"null",
		`"just a string"`,
		"[1,2,3]",
	}

	for _, body := range cases {
		if _, err := Decode(strings.NewReader(body)); err != ErrMalformed {
			t.Errorf("Decode(%q): expected ErrMalformed, got %v", body, err)
		}
	}
}

func TestDecode_ValidBody(t *testing.T) {
	payload, err := Decode(strings.NewReader(`{"title":"Dune","price":15.5}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["title"] != "Dune" {
		t.Fatalf("expected title Dune, got %v", payload["title"])
	}
}

func TestValidate_CreateMissingBothRequiredFields(t *testing.T) {
	in, errs := Validate(Create, map[string]any{})
	if in != nil {
		t.Fatal("expected no input on validation failure")
	}
	if errs == nil {
		t.Fatal("expected errors for empty payload")
	}

	fields := errs.Fields()
	if len(fields) != 2 || fields[0] != "title" || fields[1] != "author" {
		t.Fatalf("expected [title author] in order, got %v", fields)
	}
}

func TestValidate_CreateEmptyStringsRejected(t *testing.T) {
	_, errs := Validate(Create, map[string]any{"title": "", "author": ""})
	if errs == nil {
		t.Fatal("expected errors for empty title and author")
	}
	if got := errs.Messages("title"); len(got) != 1 || got[0] != "must not be empty" {
		t.Fatalf("unexpected title messages: %v", got)
	}
	if got := errs.Messages("author"); len(got) != 1 {
		t.Fatalf("unexpected author messages: %v", got)
	}
}

func TestValidate_CreateCollectsAllViolations(t *testing.T) {
	_, errs := Validate(Create, map[string]any{
		"title":          "Dune",
		"published_date": "not-a-date",
		"price":          -1.0,
	})
	if errs == nil {
		t.Fatal("expected errors")
	}

	// author missing, date bad, price negative - all reported at once
	want := []string{"author", "published_date", "price"}
	got := errs.Fields()
	if len(got) != len(want) {
		t.Fatalf("expected fields %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected fields %v, got %v", want, got)
		}
	}
}

func TestValidate_CreateValidPayload(t *testing.T) {
	in, errs := Validate(Create, map[string]any{
		"title":          "Dune",
		"author":         "Herbert",
		"published_date": "1965-08-01",
		"price":          15.5,
		"summary":        "Desert planet",
	})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs.Fields())
	}

	if *in.Title != "Dune" || *in.Author != "Herbert" {
		t.Fatalf("unexpected title/author: %v/%v", *in.Title, *in.Author)
	}
	if *in.PublishedDate != "1965-08-01" {
		t.Fatalf("unexpected published_date: %v", *in.PublishedDate)
	}
	if *in.Price != 15.5 {
		t.Fatalf("unexpected price: %v", *in.Price)
	}
	if *in.Summary != "Desert planet" {
		t.Fatalf("unexpected summary: %v", *in.Summary)
	}
}

func TestValidate_CreateOptionalFieldsAbsent(t *testing.T) {
	in, errs := Validate(Create, map[string]any{"title": "Dune", "author": "Herbert"})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs.Fields())
	}
	if in.PublishedDate != nil || in.Price != nil || in.Summary != nil {
		t.Fatal("expected optional fields to stay nil when absent")
	}
}

func TestValidate_UpdateAllFieldsOptional(t *testing.T) {
	in, errs := Validate(Update, map[string]any{"price": 9.99})
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs.Fields())
	}
	if in.Title != nil || in.Author != nil {
		t.Fatal("expected absent fields to stay nil on update")
	}
	if *in.Price != 9.99 {
		t.Fatalf("unexpected price: %v", *in.Price)
	}
}

func TestValidate_UpdateEmptyTitleStillRejected(t *testing.T) {
	_, errs := Validate(Update, map[string]any{"title": ""})
	if errs == nil {
		t.Fatal("expected error for empty title on update")
	}
}

func TestValidate_WrongTypes(t *testing.T) {
	_, errs := Validate(Create, map[string]any{
		"title":  42.0,
		"author": "Herbert",
		"price":  "free",
	})
	if errs == nil {
		t.Fatal("expected errors for wrong types")
	}
	if got := errs.Messages("title"); len(got) != 1 || got[0] != "must be a string" {
		t.Fatalf("unexpected title messages: %v", got)
	}
	if got := errs.Messages("price"); len(got) != 1 || got[0] != "must be a number" {
		t.Fatalf("unexpected price messages: %v", got)
	}
}

func TestValidate_InvalidCalendarDate(t *testing.T) {
	_, errs := Validate(Create, map[string]any{
		"title":          "Dune",
		"author":         "Herbert",
		"published_date": "2024-02-31",
	})
	if errs == nil {
		t.Fatal("expected error for impossible calendar date")
	}
}

func TestValidate_UnknownFieldsIgnored(t *testing.T) {
	_, errs := Validate(Create, map[string]any{
		"title":  "Dune",
		"author": "Herbert",
		"isbn":   "978-0441013593",
		"extra":  map[string]any{"nested": true},
	})
	if errs != nil {
		t.Fatalf("unknown fields should be ignored, got errors: %v", errs.Fields())
	}
}

func TestErrorSet_MarshalPreservesOrder(t *testing.T) {
	errs := NewErrorSet()
	errs.Add("title", "is required")
	errs.Add("author", "is required")
	errs.Add("title", "second message")

	out, err := errs.MarshalJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"title":["is required","second message"],"author":["is required"]}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}
