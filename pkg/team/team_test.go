package team

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRole_Rank(t *testing.T) {
	assert.Equal(t, 0, RoleMember.Rank())
	assert.Equal(t, 1, RoleAdmin.Rank())
	assert.Equal(t, 2, RoleOwner.Rank())
	assert.Equal(t, -1, Role("INTRUDER").Rank())
}

func TestRole_StrongerThan(t *testing.T) {
	tests := []struct {
		name string
		a, b Role
		want bool
	}{
		{"owner outranks member", RoleOwner, RoleMember, true},
		{"member does not outrank owner", RoleMember, RoleOwner, false},
		{"admin outranks member", RoleAdmin, RoleMember, true},
		{"equal roles do not outrank each other", RoleAdmin, RoleAdmin, false},
		{"member outranks unknown role", RoleMember, Role("???"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.StrongerThan(tt.b))
		})
	}
}

func TestStrongerOf(t *testing.T) {
	assert.Equal(t, RoleOwner, StrongerOf(RoleMember, RoleOwner))
	assert.Equal(t, RoleOwner, StrongerOf(RoleOwner, RoleMember))
	assert.Equal(t, RoleAdmin, StrongerOf(RoleAdmin, RoleAdmin))
	assert.Equal(t, RoleAdmin, StrongerOf(RoleAdmin, RoleMember))
}

func TestParseMetadata_Empty(t *testing.T) {
	m, err := ParseMetadata(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = ParseMetadata([]byte{})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestParseMetadata_RequestedSlug(t *testing.T) {
	m, err := ParseMetadata([]byte(`{"requestedSlug":"sales"}`))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "sales", m.RequestedSlug)
}

func TestParseMetadata_MalformedIsAnError(t *testing.T) {
	_, err := ParseMetadata([]byte(`{"requestedSlug":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedMetadata)
}
