package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordCmd(t *testing.T) {
	t.Run("Should print a bcrypt hash matching the password", func(t *testing.T) {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"hash-password", "--cost", "4", "s3cret"})

		require.NoError(t, cmd.Execute())

		hash := strings.TrimSpace(out.String())
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
	})

	t.Run("Should require exactly one argument", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"hash-password"})

		assert.Error(t, cmd.Execute())
	})
}

func TestSeedUserOptions(t *testing.T) {
	t.Run("Should reject an unknown role", func(t *testing.T) {
		err := seedUserOptions{username: "ana", password: "x", role: "root"}.validate()
		assert.EqualError(t, err, `invalid role "root": must be admin or user`)
	})

	t.Run("Should accept the user role", func(t *testing.T) {
		assert.NoError(t, seedUserOptions{username: "ana", password: "x", role: "user"}.validate())
	})

	t.Run("Should fail when required flags are missing", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"seed-user", "--username", "ana"})

		assert.Error(t, cmd.Execute())
	})
}
