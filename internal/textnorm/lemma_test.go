package textnorm

import (
	"reflect"
	"testing"
)

func TestLemmatizer_Lemma(t *testing.T) {
	lem := NewLemmatizer([]string{"beach", "beaches", "city", "cities", "museum", "hotel", "swim", "swimming"})

	tests := []struct {
		token string
		want  string
	}{
		{token: "beaches", want: "beach"},
		{token: "beach", want: "beach"},
		{token: "cities", want: "city"},
		{token: "museums", want: "museum"},
		{token: "hotels", want: "hotel"},
		{token: "swimming", want: "swim"},
		{token: "children", want: "child"},
		{token: "went", want: "go"},
		{token: "asdkjhasd", want: "asdkjhasd"},
		{token: "child-friendly", want: "child-friendly"},
		{token: "10", want: "10"},
		{token: "in", want: "in"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := lem.Lemma(tt.token); got != tt.want {
				t.Errorf("Lemma(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}

func TestLemmatizer_UnknownStemPassesThrough(t *testing.T) {
	lem := NewLemmatizer(nil)
	if got := lem.Lemma("beaches"); got != "beaches" {
		t.Errorf("Lemma() with empty lexicon = %q, want %q", got, "beaches")
	}
	if lem.Size() != 0 {
		t.Errorf("Size() = %d, want 0", lem.Size())
	}
}

func TestLemmatizer_NilIsIdentity(t *testing.T) {
	var lem *Lemmatizer
	got := lem.Lemmatize([]string{"beaches", "children"})
	want := []string{"beaches", "child"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmatize() on nil = %v, want %v", got, want)
	}
}

func TestLemmatizer_Lemmatize(t *testing.T) {
	lem := NewLemmatizer([]string{"beach", "morocco", "best"})
	in := []string{"best", "beaches", "morocco"}
	got := lem.Lemmatize(in)
	want := []string{"best", "beach", "morocco"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmatize() = %v, want %v", got, want)
	}
	if in[1] != "beaches" {
		t.Error("Lemmatize() modified its input")
	}
}

func TestLemmatizer_Known(t *testing.T) {
	lem := NewLemmatizer([]string{"place", "weather"})
	for _, tok := range []string{"place", "places", "weather", "children"} {
		if !lem.Known(tok) {
			t.Errorf("Known(%q) = false, want true", tok)
		}
	}
	for _, tok := range []string{"wether", "plane", "42"} {
		if lem.Known(tok) {
			t.Errorf("Known(%q) = true, want false", tok)
		}
	}
	var none *Lemmatizer
	if none.Known("place") {
		t.Error("Known() on nil = true, want false")
	}
}
