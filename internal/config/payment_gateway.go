package config

type PaymentConfig struct {
	Provider string        `yaml:"provider"`
	Stripe   *StripeConfig `yaml:"stripe"`
	Currency string        `yaml:"currency"`

	// Refund fractions applied to the booking total for the decisions that
	// move money. Policy numbers, not engine logic.
	PartialRefundFraction float64 `yaml:"partial_refund_fraction"`
	FeeWaiverFraction     float64 `yaml:"fee_waiver_fraction"`
}

type StripeConfig struct {
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"secret_key"`
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		Provider: getEnv("PAYMENT_PROVIDER", "stripe"),
		Stripe: &StripeConfig{
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		},
		Currency:              getEnv("PAYMENT_CURRENCY", "USD"),
		PartialRefundFraction: getEnvAsFloat64("PARTIAL_REFUND_FRACTION", 0.5),
		FeeWaiverFraction:     getEnvAsFloat64("FEE_WAIVER_FRACTION", 0.1),
	}
}
