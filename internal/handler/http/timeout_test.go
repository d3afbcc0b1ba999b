package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTimeout_Success(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Digest", "yes")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("success"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/digest", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rec.Code)
	}
	if rec.Body.String() != "success" {
		t.Errorf("expected body 'success', got %q", rec.Body.String())
	}
	if rec.Header().Get("X-Digest") != "yes" {
		t.Error("expected handler headers to be copied to the response")
	}
}

func TestTimeout_Expires(t *testing.T) {
	handler := Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/digest", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "request timeout") {
		t.Errorf("expected timeout message, got %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}
}

func TestTimeout_CancelsContext(t *testing.T) {
	canceled := make(chan struct{})
	handler := Timeout(50 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
			close(canceled)
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	select {
	case <-canceled:
	case <-time.After(500 * time.Millisecond):
		t.Error("expected the handler context to be canceled")
	}
}

func TestTimeout_DisabledForNonPositive(t *testing.T) {
	handler := Timeout(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); ok {
			t.Error("expected no deadline when the timeout is disabled")
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestTimeout_DeadlinePropagates(t *testing.T) {
	deadlineCh := make(chan time.Time, 1)
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if deadline, ok := r.Context().Deadline(); ok {
			deadlineCh <- deadline
		}
		w.WriteHeader(http.StatusOK)
	}))

	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("k"), "v")
	start := time.Now()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	select {
	case deadline := <-deadlineCh:
		want := start.Add(time.Second)
		if deadline.Before(want.Add(-100*time.Millisecond)) || deadline.After(want.Add(100*time.Millisecond)) {
			t.Errorf("expected deadline around %v, got %v", want, deadline)
		}
	default:
		t.Error("expected the request context to carry a deadline")
	}
}

func TestTimeout_LateWriteRejected(t *testing.T) {
	lateErr := make(chan error, 1)
	handler := Timeout(30 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(30 * time.Millisecond)
		_, err := w.Write([]byte("too late"))
		lateErr <- err
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", rec.Code)
	}
	select {
	case err := <-lateErr:
		if err != http.ErrHandlerTimeout {
			t.Errorf("expected http.ErrHandlerTimeout, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never attempted the late write")
	}
	if strings.Contains(rec.Body.String(), "too late") {
		t.Error("late write reached the client")
	}
}

func TestTimeout_ImplicitStatusAndMultipleWrites(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("first "))
		_, _ = w.Write([]byte("second"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "first second" {
		t.Errorf("expected combined body, got %q", rec.Body.String())
	}
}

func TestTimeout_PanicPropagates(t *testing.T) {
	handler := Recover(discardLogger())(Timeout(time.Second)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
}

func TestTimeoutWith_CustomResponse(t *testing.T) {
	onTimeout := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusGatewayTimeout)
		_, _ = w.Write([]byte("<p>took too long</p>"))
	})
	handler := TimeoutWith(50*time.Millisecond, onTimeout)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("expected the custom Content-Type, got %q", ct)
	}
	if rec.Body.String() != "<p>took too long</p>" {
		t.Errorf("expected the custom body, got %q", rec.Body.String())
	}
}
