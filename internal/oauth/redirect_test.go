package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRedirectError_None(t *testing.T) {
	assert.Nil(t, ExtractRedirectError("/api/v1/auth/callback/google?code=abc&state=xyz"))
	assert.Nil(t, ExtractRedirectError(""))
}

func TestExtractRedirectError_DatabaseError(t *testing.T) {
	uri := "/api/v1/auth/callback/google?error=server_error&error_description=Database+error+saving+new+user"

	redirectErr := ExtractRedirectError(uri)
	require.NotNil(t, redirectErr)

	assert.Equal(t, "Database error saving new user", redirectErr.Raw)
	assert.True(t, redirectErr.Classified)
	assert.Equal(t, DeniedMessage, redirectErr.Message)
}

func TestExtractRedirectError_RowLevelSecurity(t *testing.T) {
	uri := "/auth/callback?error_description=new+row+violates+row-level+security+policy"

	redirectErr := ExtractRedirectError(uri)
	require.NotNil(t, redirectErr)

	assert.True(t, redirectErr.Classified)
	assert.Equal(t, DeniedMessage, redirectErr.Message)
}

func TestExtractRedirectError_UnknownPassesThroughVerbatim(t *testing.T) {
	uri := "/auth/callback?error_description=something+else+went+wrong&state=abc"

	redirectErr := ExtractRedirectError(uri)
	require.NotNil(t, redirectErr)

	assert.False(t, redirectErr.Classified)
	assert.Equal(t, "something else went wrong", redirectErr.Raw)
	assert.Equal(t, "something else went wrong", redirectErr.Message)
}

func TestExtractRedirectError_PercentEncoding(t *testing.T) {
	uri := "/auth/callback?error_description=Database%20error%20granting%20user"

	redirectErr := ExtractRedirectError(uri)
	require.NotNil(t, redirectErr)

	assert.Equal(t, "Database error granting user", redirectErr.Raw)
	assert.Equal(t, DeniedMessage, redirectErr.Message)
}

func TestExtractRedirectError_StopsAtNextParam(t *testing.T) {
	uri := "/auth/callback?error_description=Database+error&error=server_error"

	redirectErr := ExtractRedirectError(uri)
	require.NotNil(t, redirectErr)
	assert.Equal(t, "Database error", redirectErr.Raw)
}
