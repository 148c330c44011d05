package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfile_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want UserProfile
	}{
		{
			name: "user_id",
			raw:  `{"user_id":"u1","fullname":"Ada Lovelace","email":"a@x.com","role":"admin"}`,
			want: UserProfile{ID: "u1", FullName: "Ada Lovelace", Email: "a@x.com", Role: RoleAdmin},
		},
		{
			name: "mongo id and camel name",
			raw:  `{"_id":"m1","fullName":"Grace","role":"user"}`,
			want: UserProfile{ID: "m1", FullName: "Grace", Role: RoleUser},
		},
		{
			name: "plain id",
			raw:  `{"id":"p1","role":"user"}`,
			want: UserProfile{ID: "p1", Role: RoleUser},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got UserProfile
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleUser.Valid())
	assert.False(t, Role("staff").Valid())
	assert.False(t, Role("").Valid())
}

func TestParseTicketStatus(t *testing.T) {
	status, err := ParseTicketStatus(" closed ")
	require.NoError(t, err)
	assert.Equal(t, TicketStatusClosed, status)

	_, err = ParseTicketStatus("pending")
	assert.Error(t, err)
}

func TestTicketFields_ChangedFrom(t *testing.T) {
	ticket := Ticket{TicketID: "t1", Title: "Printer", Description: "jammed", Status: TicketStatusOpen}
	title := "Printer"
	desc := "still jammed"

	changed := TicketFields{Title: &title, Description: &desc}.ChangedFrom(ticket)

	assert.Nil(t, changed.Title)
	require.NotNil(t, changed.Description)
	assert.Equal(t, "still jammed", *changed.Description)
	assert.Nil(t, changed.Status)
	assert.False(t, changed.Empty())

	assert.True(t, TicketFields{Title: &title}.ChangedFrom(ticket).Empty())
}

func TestSummarizeStatuses(t *testing.T) {
	tickets := []Ticket{
		{Status: TicketStatusOpen},
		{Status: TicketStatusOpen},
		{Status: TicketStatusClosed},
		{Status: TicketStatusOther},
		{Status: "Escalated"},
	}

	assert.Equal(t, StatusSummary{Open: 2, Closed: 1, Other: 2}, SummarizeStatuses(tickets))
	assert.Equal(t, StatusSummary{}, SummarizeStatuses(nil))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
	assert.Equal(t, 3, TotalPages(12, 5))
	assert.Equal(t, 1, TotalPages(12, 0))
}
