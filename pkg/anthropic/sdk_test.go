package anthropic

import (
	"errors"
	"testing"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylesense/stylist-cli/internal/resilience"
)

func TestFromSDKMessage(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID:           "msg_test_123",
		Model:        "claude-haiku-4-5-20251001",
		StopReason:   "end_turn",
		StopSequence: "STOP",
		Content: []sdk.ContentBlockUnion{
			{Type: "text", Text: "Hello world"},
			{Type: "text", Text: "Second block"},
		},
		Usage: sdk.Usage{
			InputTokens:              100,
			OutputTokens:             50,
			CacheCreationInputTokens: 2000,
			CacheReadInputTokens:     3000,
		},
	}

	resp := fromSDKMessage(sdkMsg)
	require.NotNil(t, resp)
	assert.Equal(t, "msg_test_123", resp.ID)
	assert.Equal(t, "claude-haiku-4-5-20251001", resp.Model)
	assert.Equal(t, "end_turn", resp.StopReason)
	assert.Equal(t, "STOP", resp.StopSequence)
	require.Len(t, resp.Content, 2)
	assert.Equal(t, "text", resp.Content[0].Type)
	assert.Equal(t, "Hello world", resp.Content[0].Text)
	assert.Equal(t, "Second block", resp.Content[1].Text)
	assert.Equal(t, int64(100), resp.Usage.InputTokens)
	assert.Equal(t, int64(50), resp.Usage.OutputTokens)
	assert.Equal(t, int64(2000), resp.Usage.CacheCreationInputTokens)
	assert.Equal(t, int64(3000), resp.Usage.CacheReadInputTokens)
}

func TestFromSDKMessage_EmptyContent(t *testing.T) {
	sdkMsg := &sdk.Message{
		ID:         "msg_empty",
		Model:      "claude-haiku-4-5-20251001",
		StopReason: "max_tokens",
	}

	resp := fromSDKMessage(sdkMsg)
	require.NotNil(t, resp)
	assert.Empty(t, resp.Content)
	assert.Equal(t, "max_tokens", resp.StopReason)
	assert.Equal(t, int64(0), resp.Usage.InputTokens)
}

func TestToSDKMessages_UserRole(t *testing.T) {
	msgs := toSDKMessages([]Message{{Role: "user", Content: "hi"}})
	require.Len(t, msgs, 1)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
}

func TestToSDKMessages_AssistantRole(t *testing.T) {
	msgs := toSDKMessages([]Message{{Role: "assistant", Content: "hello"}})
	require.Len(t, msgs, 1)
	assert.Equal(t, sdk.MessageParamRoleAssistant, msgs[0].Role)
}

func TestToSDKMessages_UnknownRoleDefaultsToUser(t *testing.T) {
	msgs := toSDKMessages([]Message{{Role: "system", Content: "x"}})
	require.Len(t, msgs, 1)
	assert.Equal(t, sdk.MessageParamRoleUser, msgs[0].Role)
}

func TestToSDKMessages_Empty(t *testing.T) {
	msgs := toSDKMessages(nil)
	assert.Empty(t, msgs)
}

func TestToSDKSystemBlocks_NoCacheControl(t *testing.T) {
	blocks := toSDKSystemBlocks([]SystemBlock{{Text: "guidance"}})
	require.Len(t, blocks, 1)
	assert.Equal(t, "guidance", blocks[0].Text)
}

func TestToSDKSystemBlocks_WithCacheControl(t *testing.T) {
	blocks := toSDKSystemBlocks([]SystemBlock{
		{Text: "guidance", CacheControl: &CacheControl{TTL: "1h"}},
	})
	require.Len(t, blocks, 1)
	assert.Equal(t, sdk.CacheControlEphemeralTTL("1h"), blocks[0].CacheControl.TTL)
}

func TestNewClient_ReturnsNonNil(t *testing.T) {
	c := NewClient("test-key")
	assert.NotNil(t, c)
}

func TestClassifyError_TransientStatus(t *testing.T) {
	apiErr := &sdk.Error{StatusCode: 503}
	err := classifyError(apiErr)
	assert.True(t, resilience.IsTransient(err))
}

func TestClassifyError_PermanentStatus(t *testing.T) {
	apiErr := &sdk.Error{StatusCode: 400}
	err := classifyError(apiErr)
	var te *resilience.TransientError
	assert.False(t, errors.As(err, &te))
}
