package google

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func testOptions(srv *httptest.Server) []option.ClientOption {
	return []option.ClientOption{
		option.WithEndpoint(srv.URL + "/"),
		option.WithHTTPClient(srv.Client()),
	}
}

func staticToken() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "access"})
}

func TestEncodeRawMessage(t *testing.T) {
	raw := EncodeRawMessage(Email{
		To:      "mario.rossi@example.com",
		Subject: "Conferma prenotazione Open House - Bilocale",
		HTML:    "<p>Ciao</p>",
	})

	assert.NotContains(t, raw, "=")
	assert.NotContains(t, raw, "+")
	assert.NotContains(t, raw, "/")

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	require.NoError(t, err)

	msg := string(decoded)
	assert.Contains(t, msg, "To: mario.rossi@example.com\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=utf-8\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>Ciao</p>"))
}

func TestMailer_SendEmail(t *testing.T) {
	var gotRaw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/users/me/messages/send"), r.URL.Path)

		var body struct {
			Raw string `json:"raw"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotRaw = body.Raw

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer srv.Close()

	mailer := NewMailer(testOptions(srv)...)
	id, err := mailer.SendEmail(context.Background(), staticToken(), Email{
		To:      "mario.rossi@example.com",
		Subject: "Brochure - Bilocale",
		HTML:    "<a href=\"https://example.com/b.pdf\">Brochure</a>",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	decoded, err := base64.RawURLEncoding.DecodeString(gotRaw)
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "https://example.com/b.pdf")
}

func TestMailer_SendEmail_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend error"}}`))
	}))
	defer srv.Close()

	mailer := NewMailer(testOptions(srv)...)

	_, err := mailer.SendEmail(context.Background(), staticToken(), Email{To: "a@b.it", Subject: "x", HTML: "y"})
	assert.ErrorIs(t, err, ErrSendEmail)

	_, err = mailer.SendEmail(context.Background(), staticToken(), Email{Subject: "x"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCalendar_CreateOpenHouseEvent(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events"), r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("sendUpdates"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt-1","htmlLink":"https://calendar.google.com/event?eid=evt-1"}`))
	}))
	defer srv.Close()

	cal := NewCalendar("", "", testOptions(srv)...)
	created, err := cal.CreateOpenHouseEvent(context.Background(), staticToken(), OpenHouseEventData{
		Summary:   "Open House - Bilocale Brera",
		Location:  "Via Solferino 3, Milano",
		Date:      "2026-10-25",
		StartTime: "10:00",
		EndTime:   "10:20",
		Attendees: []Attendee{{Email: "mario.rossi@example.com", DisplayName: "Mario Rossi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.ID)
	assert.Equal(t, "https://calendar.google.com/event?eid=evt-1", created.Link)

	start := got["start"].(map[string]interface{})
	assert.Equal(t, "2026-10-25T10:00:00", start["dateTime"])
	assert.Equal(t, "Europe/Rome", start["timeZone"])

	reminders := got["reminders"].(map[string]interface{})
	assert.Equal(t, false, reminders["useDefault"])
	assert.Len(t, reminders["overrides"], 2)

	attendees := got["attendees"].([]interface{})
	require.Len(t, attendees, 1)
	assert.Equal(t, "mario.rossi@example.com", attendees[0].(map[string]interface{})["email"])
}

func TestCalendar_CreateOpenHouseEvent_MissingTimes(t *testing.T) {
	cal := NewCalendar("primary", "Europe/Rome")
	_, err := cal.CreateOpenHouseEvent(context.Background(), staticToken(), OpenHouseEventData{Date: "2026-10-25"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOAuth_AuthCodeURL(t *testing.T) {
	o := NewOAuth("client-id", "secret", "https://openhouse.example.com/api/v1/auth/google/callback", nil)

	u, err := url.Parse(o.AuthCodeURL("signed-state"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "signed-state", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Contains(t, q.Get("scope"), "gmail.send")
	assert.Contains(t, q.Get("scope"), "calendar.events")
}

func newTokenServer(t *testing.T, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		require.NoError(t, r.ParseForm())

		w.Header().Set("Content-Type", "application/json")
		switch r.Form.Get("grant_type") {
		case "authorization_code":
			_, _ = w.Write([]byte(`{"access_token":"first","refresh_token":"refresh","token_type":"Bearer","expires_in":3600}`))
		case "refresh_token":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"access_token": "refreshed-" + string(rune('0'+n)),
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func TestOAuth_Exchange(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls)
	defer srv.Close()

	o := NewOAuth("client-id", "secret", "https://example.com/cb", &oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	})

	token, err := o.Exchange(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, "first", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
}

func TestOAuth_TokenSource_NotifiesOnRefresh(t *testing.T) {
	var calls int32
	srv := newTokenServer(t, &calls)
	defer srv.Close()

	o := NewOAuth("client-id", "secret", "https://example.com/cb", &oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	})

	var refreshed []*oauth2.Token
	expired := &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}
	ts := o.TokenSource(context.Background(), expired, func(tok *oauth2.Token) {
		refreshed = append(refreshed, tok)
	})

	first, err := ts.Token()
	require.NoError(t, err)
	assert.NotEqual(t, "stale", first.AccessToken)

	second, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, first.AccessToken, second.AccessToken)

	require.Len(t, refreshed, 1)
	assert.Equal(t, first.AccessToken, refreshed[0].AccessToken)
}

func TestOAuth_TokenSource_ValidTokenIsNotReported(t *testing.T) {
	o := NewOAuth("client-id", "secret", "https://example.com/cb", nil)

	called := false
	ts := o.TokenSource(context.Background(), &oauth2.Token{
		AccessToken: "fresh",
		Expiry:      time.Now().Add(time.Hour),
	}, func(*oauth2.Token) { called = true })

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)
	assert.False(t, called)
}
