package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityChanged_RoutingKey(t *testing.T) {
	tests := []struct {
		name  string
		event EntityChanged
		want  string
	}{
		{
			name:  "запрос подписки",
			event: EntityChanged{Entity: EntitySubscription, Action: ActionRequested},
			want:  "subscription.requested",
		},
		{
			name:  "создание сервиса",
			event: EntityChanged{Entity: EntityService, Action: ActionCreated},
			want:  "service.created",
		},
		{
			name:  "обновление пользователя",
			event: EntityChanged{Entity: EntityUser, Action: ActionUpdated},
			want:  "user.updated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.RoutingKey())
		})
	}
}
