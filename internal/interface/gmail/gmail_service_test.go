package gmail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"inboxpert-service/pkg/logger/loggertest"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const messagesPath = "/gmail/v1/users/me/messages"

type fakeGmail struct {
	list     string
	messages map[string]*gmail.Message
	fail     map[string]int

	lastMaxResults atomic.Value
	getCalls       atomic.Int32
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == messagesPath {
		f.lastMaxResults.Store(r.URL.Query().Get("maxResults"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(f.list))
		return
	}

	id := strings.TrimPrefix(r.URL.Path, messagesPath+"/")
	f.getCalls.Add(1)
	if r.URL.Query().Get("format") != "full" {
		http.Error(w, `{"error":{"code":400,"message":"format must be full"}}`, http.StatusBadRequest)
		return
	}
	if status, ok := f.fail[id]; ok {
		http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, status)
		return
	}
	msg, ok := f.messages[id]
	if !ok {
		http.Error(w, `{"error":{"code":404,"message":"not found"}}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msg)
}

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("invalid_grant")
}

func newTestService(t *testing.T, handler http.Handler, ts oauth2.TokenSource, opts FetchOptions) *GmailService {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	if ts == nil {
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	}

	svc, err := NewGmailService(context.Background(), ts, opts, loggertest.New(t),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	if err != nil {
		t.Fatalf("NewGmailService: %v", err)
	}
	return svc
}

func textMessage(id, subject, body string) *gmail.Message {
	return &gmail.Message{
		Id: id,
		Payload: &gmail.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmail.MessagePartHeader{
				{Name: "Subject", Value: subject},
				{Name: "From", Value: "sender@x.com"},
				{Name: "To", Value: "me@x.com"},
			},
			Body: &gmail.MessagePartBody{Data: encode(body)},
		},
	}
}

func TestFetchInbox(t *testing.T) {
	fake := &fakeGmail{
		list: `{"messages":[{"id":"a"},{"id":"b"},{"id":"c"}],"resultSizeEstimate":3}`,
		messages: map[string]*gmail.Message{
			"a": textMessage("a", "first", "body a"),
			"b": textMessage("b", "second", "body b"),
			"c": {Id: "c"},
		},
	}
	svc := newTestService(t, fake, nil, FetchOptions{})

	emails, err := svc.FetchInbox(context.Background())
	if err != nil {
		t.Fatalf("FetchInbox: %v", err)
	}

	if got := fake.lastMaxResults.Load(); got != "50" {
		t.Errorf("maxResults = %v, want 50", got)
	}
	if len(emails) != 3 {
		t.Fatalf("got %d emails, want 3", len(emails))
	}

	// Results keep list order regardless of completion order.
	for i, id := range []string{"a", "b", "c"} {
		if emails[i].ID != id {
			t.Errorf("emails[%d].ID = %q, want %q", i, emails[i].ID, id)
		}
	}
	if emails[0].Subject != "first" || emails[0].Body != "body a" {
		t.Errorf("emails[0] = %+v, want subject first and body a", emails[0])
	}
	if emails[2].Subject != "" || emails[2].Body != "" || len(emails[2].Recipients.To) != 0 {
		t.Errorf("payload-less email = %+v, want empty fields", emails[2])
	}
}

func TestFetchInboxOneFailureFailsBatch(t *testing.T) {
	fake := &fakeGmail{
		list: `{"messages":[{"id":"a"},{"id":"b"},{"id":"c"},{"id":"d"}]}`,
		messages: map[string]*gmail.Message{
			"a": textMessage("a", "s", "b"),
			"b": textMessage("b", "s", "b"),
			"d": textMessage("d", "s", "b"),
		},
		fail: map[string]int{"c": http.StatusInternalServerError},
	}
	svc := newTestService(t, fake, nil, FetchOptions{Concurrency: 2})

	emails, err := svc.FetchInbox(context.Background())
	if err == nil {
		t.Fatal("FetchInbox() error = nil, want failure")
	}
	if emails != nil {
		t.Errorf("FetchInbox() returned %d emails, want none", len(emails))
	}
	if !strings.Contains(err.Error(), "message c") {
		t.Errorf("error = %v, want it to name message c", err)
	}
}

func TestFetchInboxSkipsNullReferences(t *testing.T) {
	fake := &fakeGmail{
		list: `{"messages":[{"id":"a"},null,{"id":"b"}]}`,
		messages: map[string]*gmail.Message{
			"a": textMessage("a", "first", "body a"),
			"b": textMessage("b", "second", "body b"),
		},
	}
	svc := newTestService(t, fake, nil, FetchOptions{})

	emails, err := svc.FetchInbox(context.Background())
	if err != nil {
		t.Fatalf("FetchInbox: %v", err)
	}
	if len(emails) != 2 || emails[0].ID != "a" || emails[1].ID != "b" {
		t.Fatalf("emails = %+v, want a then b", emails)
	}
	if got := fake.getCalls.Load(); got != 2 {
		t.Errorf("detail fetches = %d, want 2", got)
	}
}

func TestFetchInboxMissingMessages(t *testing.T) {
	fake := &fakeGmail{list: `{"resultSizeEstimate":0}`}
	svc := newTestService(t, fake, nil, FetchOptions{})

	_, err := svc.FetchInbox(context.Background())
	if !errors.Is(err, ErrNoMessages) {
		t.Errorf("FetchInbox() error = %v, want ErrNoMessages", err)
	}
	if fake.getCalls.Load() != 0 {
		t.Errorf("detail fetches = %d, want 0", fake.getCalls.Load())
	}
}

func TestFetchInboxEmptyMessages(t *testing.T) {
	fake := &fakeGmail{list: `{"messages":[]}`}
	svc := newTestService(t, fake, nil, FetchOptions{})

	emails, err := svc.FetchInbox(context.Background())
	if err != nil {
		t.Fatalf("FetchInbox: %v", err)
	}
	if len(emails) != 0 {
		t.Errorf("got %d emails, want 0", len(emails))
	}
}

func TestFetchInboxAuthenticationFailure(t *testing.T) {
	fake := &fakeGmail{list: `{"messages":[{"id":"a"}]}`}
	svc := newTestService(t, fake, failingTokenSource{}, FetchOptions{})

	_, err := svc.FetchInbox(context.Background())
	if !errors.Is(err, ErrAuthentication) {
		t.Errorf("FetchInbox() error = %v, want ErrAuthentication", err)
	}
	if got := fake.lastMaxResults.Load(); got != nil {
		t.Errorf("list was called after auth failure")
	}
}

func TestFetchInboxListFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":503,"message":"unavailable"}}`, http.StatusServiceUnavailable)
	})
	svc := newTestService(t, handler, nil, FetchOptions{PageSize: 10})

	_, err := svc.FetchInbox(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to list messages") {
		t.Errorf("FetchInbox() error = %v, want list failure", err)
	}
}
