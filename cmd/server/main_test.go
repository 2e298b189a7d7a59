package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	orderapp "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/config"
	"github.com/momtazchem/backend/internal/infrastructure/storage"
)

func TestConfigurePaymentGateway(t *testing.T) {
	t.Run("invalid config disables the gateway without exiting", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		log := zap.New(core)
		checkout := orderapp.NewCheckoutService(nil, nil, shared.SystemClock{}, log)

		cfg := &config.Config{Gateway: config.GatewayConfig{
			Enabled:     true,
			BaseURL:     "https://fib.example.com",
			ClientID:    "momtaz",
			CallbackURL: "https://shop.example.com/api/payment/callback",
			// ClientSecret intentionally missing
		}}

		configurePaymentGateway(cfg, checkout, log)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "Payment gateway disabled, configuration invalid", logs[0].Message)
	})

	t.Run("disabled gateway is a no-op", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		log := zap.New(core)
		checkout := orderapp.NewCheckoutService(nil, nil, shared.SystemClock{}, log)

		configurePaymentGateway(&config.Config{}, checkout, log)

		assert.Empty(t, recorded.All())
	})
}

func TestConfigureObjectStorage(t *testing.T) {
	t.Run("invalid config falls back to the stub", func(t *testing.T) {
		core, recorded := observer.New(zapcore.ErrorLevel)
		log := zap.New(core)

		cfg := &config.Config{Storage: config.StorageConfig{
			Enabled: true,
			Bucket:  "momtaz-uploads",
			// credentials intentionally missing
		}}

		store := configureObjectStorage(cfg, log)

		require.NotNil(t, store)
		assert.IsType(t, &storage.StubObjectStorage{}, store)
		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "Object storage disabled, configuration invalid", logs[0].Message)
	})

	t.Run("disabled storage uses the stub", func(t *testing.T) {
		store := configureObjectStorage(&config.Config{}, zap.NewNop())
		assert.IsType(t, &storage.StubObjectStorage{}, store)
	})
}
