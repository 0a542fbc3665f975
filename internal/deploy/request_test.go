package deploy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"shipit.dev/shipit/internal/deploy"
)

func TestBuildRequest(t *testing.T) {
	t.Run("builds a request with platform-default status checks", func(t *testing.T) {
		req := deploy.BuildRequest("main", "staging", false)

		require.Equal(t, "main", req.Ref)
		require.Equal(t, "staging", req.Environment)
		require.False(t, req.AutoMerge)
		require.NotEmpty(t, req.Description)
		require.Nil(t, req.RequiredContexts, "required contexts must be absent so GitHub verifies all unique contexts")
	})

	t.Run("force bypasses status checks with an explicit empty set", func(t *testing.T) {
		req := deploy.BuildRequest("main", "staging", true)

		require.NotNil(t, req.RequiredContexts)
		require.Empty(t, *req.RequiredContexts)
	})

	t.Run("never requests auto merge", func(t *testing.T) {
		require.False(t, deploy.BuildRequest("v1.2.3", "production", false).AutoMerge)
		require.False(t, deploy.BuildRequest("v1.2.3", "production", true).AutoMerge)
	})
}
