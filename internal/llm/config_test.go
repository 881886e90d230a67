package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
}

func TestGetModel_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		models map[ModelTier]string
		tier   ModelTier
		want   string
	}{
		{name: "exact tier", models: map[ModelTier]string{TierLite: "a", TierStandard: "b"}, tier: TierLite, want: "a"},
		{name: "unknown tier uses standard", models: map[ModelTier]string{TierLite: "a", TierStandard: "b"}, tier: "unknown", want: "b"},
		{name: "unknown tier uses lite", models: map[ModelTier]string{TierLite: "a"}, tier: "unknown", want: "a"},
		{name: "nothing configured", models: map[ModelTier]string{}, tier: TierLite, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.want, config.GetModel(tt.tier))
		})
	}
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	next := config.WithModel(TierLite, "custom-model")

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "custom-model", next.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", next.GetModel(TierStandard))
}
