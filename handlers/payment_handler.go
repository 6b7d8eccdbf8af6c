package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	config "github.com/studyhive/study_hive/configs"
	"github.com/studyhive/study_hive/payments"
	"github.com/studyhive/study_hive/utils"
)

// ParseFee accepts the registration fee as a JSON number or a numeric
// string and rejects everything else.
func ParseFee(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case string:
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("fee is not numeric: %q", v)
		}
		return fee, nil
	case nil:
		return 0, fmt.Errorf("fee is missing")
	default:
		return 0, fmt.Errorf("fee is not numeric")
	}
}

// ToMinorUnits converts a fee to integer minor currency units, rounding
// to the nearest unit.
func ToMinorUnits(fee float64) int64 {
	return int64(math.Round(fee * 100))
}

// CreatePaymentIntent validates the fee and forwards it to the payment
// provider, returning the client secret the frontend completes the
// charge with.
func CreatePaymentIntent(c *fiber.Ctx) error {
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return utils.Validation("Cannot parse JSON")
	}

	fee, err := ParseFee(body["registrationFee"])
	if err != nil {
		return utils.Validation("registrationFee must be a positive number")
	}
	if fee <= 0 {
		return utils.Validation("registrationFee must be a positive number")
	}

	intent, err := payments.CreatePaymentIntent(ToMinorUnits(fee), config.ConfigOr("PAYMENT_CURRENCY", "usd"))
	if err != nil {
		return utils.Upstream("Failed to create payment intent", err)
	}

	return c.JSON(fiber.Map{"success": true, "clientSecret": intent.ClientSecret})
}
