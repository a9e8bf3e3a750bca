package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const okPayload = `{"weather":[{"description":"clear sky"}],"main":{"temp":31.4,"humidity":22},"wind":{"speed":3.6}}`

func TestNewClient(t *testing.T) {
	c := NewClient("", "key", time.Second)
	if c.BaseURL != DefaultBaseURL {
		t.Errorf("NewClient() BaseURL = %v, want %v", c.BaseURL, DefaultBaseURL)
	}
	if c.client.Timeout != time.Second {
		t.Errorf("NewClient() timeout = %v, want 1s", c.client.Timeout)
	}
	c = NewClient("http://localhost:9999/", "key", 0)
	if c.BaseURL != "http://localhost:9999" {
		t.Errorf("NewClient() BaseURL = %v, want trailing slash trimmed", c.BaseURL)
	}
}

func TestClient_Current(t *testing.T) {
	tests := []struct {
		name       string
		city       string
		apiKey     string
		serverResp func(w http.ResponseWriter, r *http.Request)
		want       Conditions
		wantErr    bool
	}{
		{
			name:   "successful lookup",
			city:   "Marrakech",
			apiKey: "k",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/data/2.5/weather" {
					t.Errorf("expected /data/2.5/weather, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("q") != "Marrakech" || q.Get("appid") != "k" || q.Get("units") != "metric" {
					t.Errorf("unexpected query %v", q)
				}
				_, _ = w.Write([]byte(okPayload))
			},
			want: Conditions{Temperature: 31.4, Humidity: 22, Condition: "clear sky", WindSpeed: 3.6},
		},
		{
			name:   "city not found",
			city:   "Nowhere",
			apiKey: "k",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			},
			wantErr: true,
		},
		{
			name:   "missing main block",
			city:   "Rabat",
			apiKey: "k",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"weather":[{"description":"rain"}]}`))
			},
			wantErr: true,
		},
		{
			name:   "missing weather list",
			city:   "Rabat",
			apiKey: "k",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"main":{"temp":20,"humidity":50}}`))
			},
			wantErr: true,
		},
		{
			name:   "invalid json",
			city:   "Rabat",
			apiKey: "k",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`not json`))
			},
			wantErr: true,
		},
		{
			name:   "no api key",
			city:   "Rabat",
			apiKey: "",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				t.Error("server should not be called without an API key")
			},
			wantErr: true,
		},
		{
			name:   "empty city",
			city:   "  ",
			apiKey: "k",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				t.Error("server should not be called for an empty city")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, tt.apiKey, time.Second)
			got, err := client.Current(context.Background(), tt.city)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Current() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Current() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestClient_Current_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", 0)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Current(ctx, "Rabat"); err == nil {
		t.Error("Current() expected error on timeout")
	}
}

func TestConditions_Describe(t *testing.T) {
	c := Conditions{Temperature: 31.4, Humidity: 22, Condition: "clear sky", WindSpeed: 3.6}
	want := "The weather in Marrakech right now:\n- Clear sky\n- Temperature: 31.4°C\n- Humidity: 22%\n- Wind: 3.6 m/s"
	if got := c.Describe("Marrakech"); got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
