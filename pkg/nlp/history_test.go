package nlp_test

import (
	"testing"

	"ComputexChatbot/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastModel(t *testing.T) {
	catalog := nlp.DefaultCatalog()

	tests := []struct {
		name    string
		history nlp.History
		want    string
		found   bool
	}{
		{
			name:  "empty history",
			found: false,
		},
		{
			name: "most recent assistant turn",
			history: nlp.History{
				nlp.UserTurn("info del omen"),
				nlp.AssistantTurn("El **HP Omen 16** tiene:\n• **Precio:** $1500"),
			},
			want:  "HP Omen 16",
			found: true,
		},
		{
			name: "newest turn wins over older ones",
			history: nlp.History{
				nlp.AssistantTurn("El **Dell XPS 13** tiene pantalla 4K"),
				nlp.AssistantTurn("El **HP Omen 16** tiene RTX 3060"),
			},
			want:  "HP Omen 16",
			found: true,
		},
		{
			name: "model reference marker",
			history: nlp.History{
				nlp.AssistantTurn("¿Cuál prefieres?"),
				nlp.ModelReference("Lenovo Legion 5 Pro"),
			},
			want:  "Lenovo Legion 5 Pro",
			found: true,
		},
		{
			name: "every word present in any order",
			history: nlp.History{
				nlp.AssistantTurn("tengo una lenovo con ideapad 5 en tienda"),
			},
			want:  "Lenovo IdeaPad 5",
			found: true,
		},
		{
			name: "user turns are not consulted",
			history: nlp.History{
				nlp.UserTurn("me gusta el Dell XPS 13"),
				nlp.AssistantTurn("¿Qué necesitas?"),
			},
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nlp.LastModel(tt.history, catalog)
			require.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHistoryAppend(t *testing.T) {
	var h nlp.History
	h.Append(nlp.UserTurn("hola"), nlp.AssistantTurn("¡Hola!"))

	require.Equal(t, 2, h.Len())
	last, ok := h.Last()
	require.True(t, ok)
	assert.Equal(t, nlp.RoleAssistant, last.Role)
}
