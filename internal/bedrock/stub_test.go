package bedrock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubClientCatalogue(t *testing.T) {
	stub := NewStubClient(nil)
	ctx := context.Background()

	models, err := stub.ListModels(ctx)
	require.NoError(t, err)
	require.Len(t, models, len(DefaultCatalogue()))
	assert.Equal(t, 1, stub.Calls("ListFoundationModels"))

	details, err := stub.GetModel(ctx, "amazon.titan-text-express-v1")
	require.NoError(t, err)
	assert.True(t, details.SupportsOutput(ModalityText))
	assert.Equal(t, "arn:aws:bedrock:stub::foundation-model/amazon.titan-text-express-v1", details.ARN)

	byARN, err := stub.GetModel(ctx, details.ARN)
	require.NoError(t, err)
	assert.Equal(t, details.ID, byARN.ID)

	embed, err := stub.GetModel(ctx, "amazon.titan-embed-text-v2:0")
	require.NoError(t, err)
	assert.False(t, embed.SupportsOutput(ModalityText))
}

func TestStubClientUnknownModel(t *testing.T) {
	stub := NewStubClient(nil)

	_, err := stub.GetModel(context.Background(), "acme.nope-v1")
	require.Error(t, err)
	assert.True(t, IsAPIError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ResourceNotFoundException", apiErr.Code)
}

func TestStubClientFailWith(t *testing.T) {
	stub := NewStubClient(nil)
	denied := &APIError{Op: "ListFoundationModels", Code: "UnrecognizedClientException", Message: "The security token included in the request is invalid."}
	stub.FailWith(denied)

	_, err := stub.ListModels(context.Background())
	require.ErrorIs(t, err, denied)

	stub.FailWith(nil)
	_, err = stub.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stub.Calls("ListFoundationModels"))
}

func TestStubClientConverse(t *testing.T) {
	stub := NewStubClient(nil)

	resp, err := stub.Converse(context.Background(), ConverseRequest{
		ModelID: "amazon.titan-text-express-v1",
		Prompt:  "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "[stub:amazon.titan-text-express-v1] hello", resp.Text)
	assert.Equal(t, 0, stub.Calls("GetFoundationModel"))

	_, err = stub.Converse(context.Background(), ConverseRequest{ModelID: "missing", Prompt: "x"})
	assert.True(t, IsAPIError(err))
}

func TestStubClientCopiesModels(t *testing.T) {
	models := []ModelDetails{{ModelSummary: ModelSummary{ID: "custom.model-v1"}}}
	NewStubClient(nil, models...)
	assert.Empty(t, models[0].ARN)
}

func TestIsAPIErrorIgnoresTransportErrors(t *testing.T) {
	assert.False(t, IsAPIError(errors.New("dial tcp: connection refused")))
	assert.False(t, IsAPIError(nil))
}
