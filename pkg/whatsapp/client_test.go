package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendMessage(t *testing.T) {
	var gotPath, gotFrom, gotTo, gotBody string
	var gotUser, gotPass string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotFrom = r.PostFormValue("From")
		gotTo = r.PostFormValue("To")
		gotBody = r.PostFormValue("Body")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM123"}`))
	}))
	defer srv.Close()

	client, err := NewClient("AC42", "token", "whatsapp:+14155550100",
		WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	sid, err := client.SendMessage(context.Background(), "whatsapp:+919812345678", "hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if sid != "SM123" {
		t.Fatalf("sid = %q, want SM123", sid)
	}
	if gotPath != "/2010-04-01/Accounts/AC42/Messages.json" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotUser != "AC42" || gotPass != "token" {
		t.Fatalf("basic auth = %q/%q", gotUser, gotPass)
	}
	if gotFrom != "whatsapp:+14155550100" || gotTo != "whatsapp:+919812345678" || gotBody != "hello" {
		t.Fatalf("form = From %q To %q Body %q", gotFrom, gotTo, gotBody)
	}
}

func TestSendMessageProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"authentication failed"}`))
	}))
	defer srv.Close()

	client, err := NewClient("AC42", "bad", "whatsapp:+14155550100", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.SendMessage(context.Background(), "whatsapp:+919812345678", "hello"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestSendMessageValidation(t *testing.T) {
	client, err := NewClient("AC42", "token", "whatsapp:+14155550100")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.SendMessage(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected error for empty destination")
	}
	if _, err := client.SendMessage(context.Background(), "whatsapp:+919812345678", ""); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "token", "from"); err == nil {
		t.Fatal("expected error for missing account sid")
	}
	if _, err := NewClient("AC42", "", "from"); err == nil {
		t.Fatal("expected error for missing auth token")
	}
	if _, err := NewClient("AC42", "token", ""); err == nil {
		t.Fatal("expected error for missing from number")
	}
}
