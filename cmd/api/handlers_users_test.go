package main

import (
	"testing"

	"reviewhub/proj/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserInputToPatch(t *testing.T) {
	t.Run("role goes through the enum", func(t *testing.T) {
		role := "moderator"
		input := updateUserInput{Role: &role}
		patch, err := input.toPatch()
		require.NoError(t, err)
		require.NotNil(t, patch.Role)
		assert.Equal(t, models.RoleModerator, *patch.Role)
	})
	t.Run("unknown role is rejected", func(t *testing.T) {
		role := "root"
		input := updateUserInput{Role: &role}
		_, err := input.toPatch()
		assert.Error(t, err)
	})
	t.Run("nil role stays nil", func(t *testing.T) {
		bio := "hello"
		input := updateUserInput{Bio: &bio}
		patch, err := input.toPatch()
		require.NoError(t, err)
		assert.Nil(t, patch.Role)
		require.NotNil(t, patch.Bio)
		assert.Equal(t, "hello", *patch.Bio)
	})
}
