package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhive/study_hive/utils"
)

func TestParseFee(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		want    float64
		wantErr bool
	}{
		{name: "json number", raw: float64(49.5), want: 49.5},
		{name: "numeric string", raw: "19.99", want: 19.99},
		{name: "non-numeric string", raw: "abc", wantErr: true},
		{name: "missing", raw: nil, wantErr: true},
		{name: "wrong type", raw: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := ParseFee(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fee)
		})
	}
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2000), ToMinorUnits(19.999))
	assert.Equal(t, int64(5000), ToMinorUnits(50))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(1), ToMinorUnits(0.005))
}

func paymentTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: utils.ErrorHandler})
	app.Post("/create-payment-intent", CreatePaymentIntent)
	return app
}

func TestCreatePaymentIntentRejectsBadFees(t *testing.T) {
	app := paymentTestApp()

	for _, body := range []string{
		`{"registrationFee":"abc"}`,
		`{"registrationFee":0}`,
		`{"registrationFee":-5}`,
		`{}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %s", body)
	}
}

func TestCreatePaymentIntentForwardsMinorUnits(t *testing.T) {
	var receivedAmount string
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		receivedAmount = r.FormValue("amount")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret","status":"requires_payment_method"}`))
	}))
	defer provider.Close()

	t.Setenv("STRIPE_API_BASE_URL", provider.URL)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	app := paymentTestApp()
	req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", strings.NewReader(`{"registrationFee":19.999}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2000", receivedAmount)

	var body struct {
		Success      bool   `json:"success"`
		ClientSecret string `json:"clientSecret"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "pi_123_secret", body.ClientSecret)
}
