package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pathwaysai/patient-copilot/pkg/config"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.LLMConfig{})
	assert.Error(t, err)

	_, err = NewClient(nil)
	assert.Error(t, err)
}

func TestNewClient_DefaultsModel(t *testing.T) {
	c, err := NewClient(&config.LLMConfig{OpenAIAPIKey: "sk-test"})
	assert.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", c.model)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
	assert.Equal(t, "plain text", stripCodeFences("  plain text\n"))
}
