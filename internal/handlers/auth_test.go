package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"controlling_doze/internal/service"
)

func postJSON(t *testing.T, s *service.Service, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := newTestRouter(s)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandlers(t *testing.T) {
	cases := []struct {
		name     string
		auth     *mockAuth
		path     string
		body     string
		wantCode int
		wantKey  string
		wantVal  any
	}{
		{
			name:     "sign-up ok",
			auth:     &mockAuth{signUpID: 42},
			path:     "/auth/sign-up",
			body:     `{"username":"u","password":"p"}`,
			wantCode: http.StatusOK,
			wantKey:  "id",
			wantVal:  float64(42),
		},
		{
			name:     "sign-up taken",
			auth:     &mockAuth{signUpErr: fmt.Errorf("%w: %q", service.ErrUsernameTaken, "u")},
			path:     "/auth/sign-up",
			body:     `{"username":"u","password":"p"}`,
			wantCode: http.StatusConflict,
		},
		{
			name:     "sign-up rejected",
			auth:     &mockAuth{signUpErr: service.ErrEmptyUsername},
			path:     "/auth/sign-up",
			body:     `{"username":" ","password":"p"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "sign-in ok",
			auth:     &mockAuth{genTokenToken: "tok123"},
			path:     "/auth/sign-in",
			body:     `{"username":"u","password":"p"}`,
			wantCode: http.StatusOK,
			wantKey:  "token",
			wantVal:  "tok123",
		},
		{
			name:     "sign-in bad credentials",
			auth:     &mockAuth{genTokenErr: errors.New("invalid password")},
			path:     "/auth/sign-in",
			body:     `{"username":"u","password":"wrong"}`,
			wantCode: http.StatusUnauthorized,
			wantKey:  "error",
			wantVal:  "invalid credentials",
		},
		{
			name:     "sign-in invalid body",
			auth:     &mockAuth{},
			path:     "/auth/sign-in",
			body:     `{"username":1}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, &service.Service{Authorization: tc.auth}, tc.path, tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantKey == "" {
				return
			}
			var m map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if m[tc.wantKey] != tc.wantVal {
				t.Fatalf("%s=%v, want %v", tc.wantKey, m[tc.wantKey], tc.wantVal)
			}
		})
	}
}

func TestAuthHandlers_PassCredentialsThrough(t *testing.T) {
	auth := &mockAuth{signUpID: 1, genTokenToken: "t"}
	s := &service.Service{Authorization: auth}

	postJSON(t, s, "/auth/sign-up", `{"username":"alice","password":"pw1"}`)
	postJSON(t, s, "/auth/sign-in", `{"username":"bob","password":"pw2"}`)

	if auth.lastSignUpUsername != "alice" || auth.lastSignUpPassword != "pw1" {
		t.Fatalf("sign-up got %q/%q", auth.lastSignUpUsername, auth.lastSignUpPassword)
	}
	if auth.lastGenUsername != "bob" || auth.lastGenPassword != "pw2" {
		t.Fatalf("sign-in got %q/%q", auth.lastGenUsername, auth.lastGenPassword)
	}
}
