package chatbotHandler_test

import (
	"io"
	"net"
	"testing"

	websocketPkg "ComputexChatbot/pkg/websocket"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatOverWebSocket(t *testing.T) {
	app := newTestApp(t, "")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := websocketPkg.Dial("ws://"+ln.Addr().String()+"/api/chatbot/ws", websocketPkg.Options{Logger: logger})
	require.NoError(t, err)
	defer client.Close()

	greeting, err := client.Send("Hola")
	require.NoError(t, err)
	assert.Equal(t, "saludo", greeting.Category)
	require.NotEmpty(t, greeting.SessionID)

	model, err := client.Send("me interesa el HP Omen 16")
	require.NoError(t, err)
	assert.Equal(t, greeting.SessionID, model.SessionID)
	assert.Equal(t, "modelo_especifico", model.Category)

	reserve, err := client.Send("quiero reservar")
	require.NoError(t, err)
	assert.Equal(t, "apartar", reserve.Category)
	assert.Contains(t, reserve.Response, "HP Omen 16")

	blank, err := client.Send("   ")
	require.NoError(t, err)
	assert.NotEmpty(t, blank.Error)
}
