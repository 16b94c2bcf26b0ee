package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
)

func decodeExpected(t *testing.T, body string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode expected: %v", err)
	}
	return v
}

func TestLoad_PassesBodyThrough(t *testing.T) {
	bodies := []string{
		`{"login":"casillasenrique","id":123456789012,"public_repos":12,"bio":null}`,
		`{"nested":{"list":[1,2.5,"x",true]},"empty":{}}`,
		`[]`,
		`"just a string"`,
	}
	for _, body := range bodies {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.URL.Path != "/users/casillasenrique" {
				t.Errorf("path = %q", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))

		l := NewLoader(srv.URL, "casillasenrique")
		got, err := l.Load(context.Background())
		srv.Close()
		if err != nil {
			t.Fatalf("Load(%s): %v", body, err)
		}
		if got.MaxAge != 3600 {
			t.Errorf("MaxAge = %d, want 3600", got.MaxAge)
		}
		if want := decodeExpected(t, body); !reflect.DeepEqual(got.GithubData, want) {
			t.Errorf("GithubData = %#v, want %#v", got.GithubData, want)
		}
		if hits.Load() != 1 {
			t.Errorf("requests = %d, want 1", hits.Load())
		}
	}
}

func TestLoad_OutputJSONShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"login":"octocat","followers":10}`))
	}))
	defer srv.Close()

	got, err := NewLoader(srv.URL, "octocat").Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, _ := json.Marshal(got)
	if string(out) != `{"maxAge":3600,"githubData":{"followers":10,"login":"octocat"}}` {
		t.Errorf("json = %s", out)
	}
}

func TestLoad_MaxAgeOption(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	got, err := NewLoader(srv.URL, "x", WithMaxAge(60)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.MaxAge != 60 {
		t.Errorf("MaxAge = %d, want 60", got.MaxAge)
	}
}

func TestLoad_NoExtraHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" || r.Header.Get("Accept") != "" {
			t.Errorf("unexpected headers: %v", r.Header)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := NewLoader(srv.URL, "x").Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestLoad_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"not json", http.StatusOK, "<html>rate limited</html>"},
		{"truncated", http.StatusOK, `{"login":`},
		{"trailing garbage", http.StatusOK, `{"login":"a"} nope`},
		{"empty body", http.StatusOK, ""},
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`},
		{"server error", http.StatusInternalServerError, `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			got, err := NewLoader(srv.URL, "x").Load(context.Background())
			if err == nil {
				t.Fatalf("Load returned %#v, want error", got)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("error %T is not *LoadError", err)
			}
			if got != nil {
				t.Errorf("result = %#v, want nil", got)
			}
		})
	}
}

func TestLoad_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewLoader(srv.URL, "x").Load(context.Background())
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LoadError", err)
	}
	if le.Status != 0 {
		t.Errorf("Status = %d, want 0", le.Status)
	}
}

func TestLoad_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(srv.URL, "x").Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewLoader_Endpoint(t *testing.T) {
	l := NewLoader("https://api.github.com/", "casillasenrique")
	if l.Endpoint() != "https://api.github.com/users/casillasenrique" {
		t.Errorf("Endpoint = %q", l.Endpoint())
	}
}
