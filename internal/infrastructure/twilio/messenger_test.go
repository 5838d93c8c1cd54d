package twilio

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/pkg/config"
)

// redirect reenvía al servidor de pruebas las llamadas que el SDK hace a api.twilio.com.
type redirect struct {
	target *url.URL
}

func (r redirect) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = r.target.Scheme
	out.URL.Host = r.target.Host
	out.Host = r.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func newTestMessenger(t *testing.T, h http.HandlerFunc) *Messenger {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return newMessenger(config.TwilioConfig{
		AccountSID: "AC123", AuthToken: "tok", FromNumber: "+15550001", WhatsAppFrom: "+15550002",
	}, &http.Client{Transport: redirect{target: target}})
}

func TestSend_SMS(t *testing.T) {
	m := newTestMessenger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, _ := r.BasicAuth()
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "tok", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15550001", r.PostForm.Get("From"))
		assert.Equal(t, "+573001112233", r.PostForm.Get("To"))
		assert.Equal(t, "Gracias por su compra", r.PostForm.Get("Body"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"sid":"SM1","status":"queued","error_code":null}`)
	})

	sid, err := m.Send(context.Background(), entity.ChannelSMS, "+573001112233", "Gracias por su compra")

	require.NoError(t, err)
	assert.Equal(t, "SM1", sid)
}

func TestSend_WhatsAppUsaPrefijo(t *testing.T) {
	m := newTestMessenger(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+15550002", r.PostForm.Get("From"))
		assert.Equal(t, "whatsapp:+573001112233", r.PostForm.Get("To"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"sid":"SM2","status":"queued"}`)
	})

	sid, err := m.Send(context.Background(), entity.ChannelWhatsApp, "+573001112233", "hola")
	require.NoError(t, err)
	assert.Equal(t, "SM2", sid)
}

func TestSend_ErrorDelProveedor(t *testing.T) {
	m := newTestMessenger(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":21211,"message":"The 'To' number is not a valid phone number.","status":400}`)
	})

	_, err := m.Send(context.Background(), entity.ChannelSMS, "123", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")
}

func TestSend_ContextoCanceladoNoEnvia(t *testing.T) {
	called := false
	m := newTestMessenger(t, func(w http.ResponseWriter, _ *http.Request) { called = true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Send(ctx, entity.ChannelSMS, "+573001112233", "hola")

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestNewMessenger_SinCuentaEsNil(t *testing.T) {
	assert.Nil(t, NewMessenger(config.TwilioConfig{}))
}
