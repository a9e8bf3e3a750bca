package render

import (
	"strings"
	"testing"
)

func TestRenderer_HTML(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		want    []string
		wantNot []string
	}{
		{
			name:   "plain sentence",
			answer: "Taghazout is great for surfing.",
			want:   []string{"<p>Taghazout is great for surfing.</p>"},
		},
		{
			name:   "weather report list",
			answer: "The weather in Marrakech right now:\n- Clear sky\n- Temperature: 31.4°C",
			want:   []string{"<p>The weather in Marrakech right now:</p>", "<li>Clear sky</li>", "<li>Temperature: 31.4°C</li>"},
		},
		{
			name:   "hard line breaks",
			answer: "Line one\nLine two",
			want:   []string{"Line one<br>"},
		},
		{
			name:    "raw html dropped",
			answer:  "<script>alert(1)</script>",
			wantNot: []string{"<script>"},
		},
		{
			name:   "bare links",
			answer: "See https://www.visitmorocco.com for more.",
			want:   []string{`<a href="https://www.visitmorocco.com">`},
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.HTML(tt.answer)
			if err != nil {
				t.Fatalf("HTML() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("HTML() = %q, want it to contain %q", got, w)
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(got, w) {
					t.Errorf("HTML() = %q, should not contain %q", got, w)
				}
			}
		})
	}
}
