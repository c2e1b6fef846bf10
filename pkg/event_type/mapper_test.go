package event_type

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapEventType_HostsReplaceDirectUsers(t *testing.T) {
	et := EventType{
		Id:    1,
		Users: []UserRef{{Id: 1, Username: "alice"}, {Id: 2, Username: "bob"}},
		Hosts: []Host{
			{UserId: 3, IsFixed: true, User: UserRef{Id: 3, Username: "carol"}},
		},
	}

	mapped, err := MapEventType(et)
	require.NoError(t, err)
	require.Len(t, mapped.DisplayUsers, 1)
	assert.Equal(t, "carol", mapped.DisplayUsers[0].Username)
}

func TestMapEventType_KeepsDirectUsersWithoutHosts(t *testing.T) {
	et := EventType{
		Id:    1,
		Users: []UserRef{{Id: 1, Username: "alice"}, {Id: 2, Username: "bob"}},
	}

	mapped, err := MapEventType(et)
	require.NoError(t, err)
	assert.Len(t, mapped.DisplayUsers, 2)
}

func TestMapEventType_SanitizesDescription(t *testing.T) {
	et := EventType{
		Id:          1,
		Description: "Intro call\n\n<script>alert('x')</script>**welcome**",
	}

	mapped, err := MapEventType(et)
	require.NoError(t, err)
	assert.NotContains(t, mapped.SafeDescription, "<script>")
	assert.Contains(t, mapped.SafeDescription, "<strong>welcome</strong>")
}

func TestMapEventType_ParsesMetadata(t *testing.T) {
	et := EventType{
		Id:          1,
		RawMetadata: []byte(`{"multipleDuration":[15,30],"requiresConfirmation":true}`),
	}

	mapped, err := MapEventType(et)
	require.NoError(t, err)
	require.NotNil(t, mapped.Metadata)
	assert.Equal(t, []int{15, 30}, mapped.Metadata.MultipleDurations)
	assert.True(t, mapped.Metadata.RequiresConfirmation)
}

func TestMapEventType_MalformedMetadataFails(t *testing.T) {
	et := EventType{Id: 1, RawMetadata: []byte(`{broken`)}

	_, err := MapEventType(et)
	assert.ErrorIs(t, err, ErrMalformedMetadata)
}

func TestParseMetadata_EmptyIsNil(t *testing.T) {
	m, err := ParseMetadata(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = ParseMetadata([]byte{})
	require.NoError(t, err)
	assert.Nil(t, m)
}
