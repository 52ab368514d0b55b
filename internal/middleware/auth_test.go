package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
)

type stubVerifier struct {
	uid   string
	err   error
	token string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.token = idToken
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Token{UID: s.uid}, nil
}

func TestFirebaseAuth(t *testing.T) {
	cases := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantUID    string
	}{
		{"missing header", "", &stubVerifier{uid: "u"}, http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", &stubVerifier{uid: "u"}, http.StatusUnauthorized, ""},
		{"rejected token", "Bearer bad", &stubVerifier{err: errors.New("expired")}, http.StatusUnauthorized, ""},
		{"valid token", "bearer good", &stubVerifier{uid: "uid-1"}, http.StatusOK, "uid-1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUID = UID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			NewMiddleware(tc.verifier).FirebaseAuth(next).ServeHTTP(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rr.Code)
			}
			if gotUID != tc.wantUID {
				t.Errorf("expected uid %q, got %q", tc.wantUID, gotUID)
			}
		})
	}
}

func TestUIDWithoutAuth(t *testing.T) {
	if got := UID(context.Background()); got != "" {
		t.Fatalf("expected empty uid, got %q", got)
	}
}
