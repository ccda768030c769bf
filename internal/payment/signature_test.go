package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSignature(t *testing.T) {
	sig := ComputeSignature("secret", "order_1", "pay_1")

	// Deterministic for identical inputs
	assert.Equal(t, sig, ComputeSignature("secret", "order_1", "pay_1"))

	// Any input change produces a different signature
	assert.NotEqual(t, sig, ComputeSignature("secret", "order_1", "pay_2"))
	assert.NotEqual(t, sig, ComputeSignature("other", "order_1", "pay_1"))
}

func TestCheckSignature(t *testing.T) {
	sig := ComputeSignature("secret", "order_1", "pay_1")

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, CheckSignature("secret", "order_1", "pay_1", sig))
	})

	t.Run("Tampered", func(t *testing.T) {
		assert.False(t, CheckSignature("secret", "order_1", "pay_1", sig+"x"))
		assert.False(t, CheckSignature("secret", "order_2", "pay_1", sig))
		assert.False(t, CheckSignature("secret", "order_1", "pay_1", ""))
	})
}

func TestGatewayVerifySignature(t *testing.T) {
	g := NewRazorpayGateway("key", "secret")

	sig := ComputeSignature("secret", "order_1", "pay_1")
	assert.NoError(t, g.VerifySignature("order_1", "pay_1", sig))
	assert.ErrorIs(t, g.VerifySignature("order_1", "pay_1", "bogus"), ErrInvalidSignature)
}
