package dynamo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/nano-banana/admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUpdateExpr_SingleField(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"name": "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "SET #f0 = :v0", ue.Expr)
	assert.Equal(t, map[string]string{"#f0": "name"}, ue.Names)
	_, ok := ue.Values[":v0"]
	assert.True(t, ok)
}

func TestBuildUpdateExpr_MultipleFields_Deterministic(t *testing.T) {
	updates := map[string]interface{}{
		"email": "a@b.com",
		"name":  "Alice",
		"role":  "admin",
	}
	// Call twice to verify determinism.
	ue1, err := buildUpdateExpr(updates)
	require.NoError(t, err)
	ue2, err := buildUpdateExpr(updates)
	require.NoError(t, err)

	assert.Equal(t, ue1.Expr, ue2.Expr)

	// Keys must be sorted: email < name < role
	assert.Equal(t, "email", ue1.Names["#f0"])
	assert.Equal(t, "name", ue1.Names["#f1"])
	assert.Equal(t, "role", ue1.Names["#f2"])
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #f2 = :v2", ue1.Expr)
}

func TestBuildUpdateExpr_ValuesMarshalledCorrectly(t *testing.T) {
	ue, err := buildUpdateExpr(map[string]interface{}{"enable": true})
	require.NoError(t, err)
	av, ok := ue.Values[":v0"]
	require.True(t, ok)
	boolVal, isBool := av.(*types.AttributeValueMemberBOOL)
	require.True(t, isBool)
	assert.True(t, boolVal.Value)
}

func TestBuildUpdateExpr_EmptyMap_ReturnsError(t *testing.T) {
	_, err := buildUpdateExpr(map[string]interface{}{})
	assert.ErrorContains(t, err, "no fields to update")
}

func TestClassify_ConditionalCheckFailed(t *testing.T) {
	err := classify(&types.ConditionalCheckFailedException{})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestClassify_WrappedConditionalCheckFailed(t *testing.T) {
	err := classify(fmt.Errorf("operation error DynamoDB: %w", &types.ConditionalCheckFailedException{}))
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestClassify_DeadlineExceeded(t *testing.T) {
	err := classify(context.DeadlineExceeded)
	assert.True(t, errors.Is(err, domain.ErrTimeout))
}

func TestClassify_Canceled(t *testing.T) {
	err := classify(context.Canceled)
	assert.True(t, errors.Is(err, domain.ErrTimeout))
}

func TestClassify_UnknownErrorIsStorageUnavailable(t *testing.T) {
	err := classify(errors.New("connection refused"))
	assert.True(t, errors.Is(err, domain.ErrStorageUnavailable))
}

func TestClassify_NilPassesThrough(t *testing.T) {
	assert.NoError(t, classify(nil))
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := encodeCursor("01HXYZABCDEF")
	key, err := decodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, "01HXYZABCDEF", key)
}

func TestDecodeCursor_Garbage(t *testing.T) {
	_, err := decodeCursor("not!base64!!")
	assert.Error(t, err)
}
