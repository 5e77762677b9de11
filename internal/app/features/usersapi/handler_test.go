package usersapi_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dalemusser/texthub/internal/app/features/usersapi"
	userstore "github.com/dalemusser/texthub/internal/app/store/users"
	"github.com/dalemusser/texthub/internal/app/system/auth"
	"github.com/dalemusser/texthub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*usersapi.Handler, *auth.TokenIssuer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	return usersapi.NewHandler(userstore.New(db), issuer, zap.NewNop()), issuer
}

func TestHandleRegister(t *testing.T) {
	h, issuer := newHandler(t)

	req := testutil.NewJSONRequest("POST", "/register",
		`{"name":"Alice","phone":"+15551230001","password":"secret123"}`)
	rec := testutil.NewRecorder()
	h.HandleRegister(rec, req)

	rec.AssertStatus(t, 201)

	var resp struct {
		UserID string `json:"user_id"`
		Phone  string `json:"phone"`
		Token  string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if resp.Phone != "+15551230001" {
		t.Errorf("phone: got %q", resp.Phone)
	}

	// The returned token is usable immediately.
	uid, err := issuer.Verify(resp.Token)
	if err != nil {
		t.Fatalf("token verify failed: %v", err)
	}
	if uid.Hex() != resp.UserID {
		t.Errorf("token subject: got %s, want %s", uid.Hex(), resp.UserID)
	}
}

func TestHandleRegister_Validation(t *testing.T) {
	h, _ := newHandler(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing name", `{"phone":"+15551230001","password":"x"}`, 400},
		{"missing phone", `{"name":"Alice","password":"x"}`, 400},
		{"missing password", `{"name":"Alice","phone":"+15551230001"}`, 400},
		{"bad json", `{`, 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleRegister(rec, testutil.NewJSONRequest("POST", "/register", tc.body))
			rec.AssertStatus(t, tc.want)
		})
	}
}

func TestHandleRegister_DuplicatePhone(t *testing.T) {
	h, _ := newHandler(t)

	rec := testutil.NewRecorder()
	h.HandleRegister(rec, testutil.NewJSONRequest("POST", "/register",
		`{"name":"Alice","phone":"+15551230001","password":"secret123"}`))
	rec.AssertStatus(t, 201)

	rec = testutil.NewRecorder()
	h.HandleRegister(rec, testutil.NewJSONRequest("POST", "/register",
		`{"name":"Bob","phone":"+15551230001","password":"different"}`))
	rec.AssertStatus(t, 409)
}

func TestHandleLogin(t *testing.T) {
	h, issuer := newHandler(t)

	rec := testutil.NewRecorder()
	h.HandleRegister(rec, testutil.NewJSONRequest("POST", "/register",
		`{"name":"Alice","phone":"+15551230001","password":"secret123"}`))
	rec.AssertStatus(t, 201)

	rec = testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest("POST", "/login",
		`{"phone":"+15551230001","password":"secret123"}`))
	rec.AssertStatus(t, 200)

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if _, err := issuer.Verify(resp.Token); err != nil {
		t.Errorf("token verify failed: %v", err)
	}

	// Wrong password.
	rec = testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest("POST", "/login",
		`{"phone":"+15551230001","password":"wrong"}`))
	rec.AssertStatus(t, 401)

	// Unknown phone.
	rec = testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest("POST", "/login",
		`{"phone":"+15559999999","password":"secret123"}`))
	rec.AssertStatus(t, 401)
}
