package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"ComputexChatbot/pkg/log"
	websocketPkg "ComputexChatbot/pkg/websocket"

	"github.com/spf13/cobra"
)

var (
	chatURL     string
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the chatbot over its websocket",
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.NewLogger()

		client, err := websocketPkg.Dial(chatURL, websocketPkg.Options{
			SessionID: chatSession,
			Logger:    logger,
		})
		if err != nil {
			exitErr("connect", err)
		}
		defer client.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Escribe tu mensaje (salir para terminar)")

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				return
			}

			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			if strings.EqualFold(text, "salir") {
				fmt.Fprintf(out, "Sesión: %s\n", client.SessionID())
				return
			}

			reply, err := client.Send(text)
			if errors.Is(err, websocketPkg.ErrReplyLost) {
				fmt.Fprintln(out, "! Sin respuesta del servidor, revisa el historial antes de reenviar")
				continue
			}
			if err != nil {
				logger.Errorf("Error sending message: %v", err)
				return
			}
			if reply.Error != "" {
				fmt.Fprintf(out, "! %s\n", reply.Error)
				continue
			}

			fmt.Fprintf(out, "%s\n[%s]\n", reply.Response, reply.Category)
		}
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatURL, "url", "u", "ws://localhost:8000/api/chatbot/ws", "Chat socket URL")
	chatCmd.Flags().StringVarP(&chatSession, "session", "s", "", "Resume an existing session ID")
	RootCmd.AddCommand(chatCmd)
}
