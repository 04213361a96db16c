package chatbotRepository

const (
	keySessionPrefix = "chatbot:session:"
	keySessionIndex  = "chatbot:sessions"
	keyStats         = "chatbot:stats"
	keyCategories    = "chatbot:categories"

	fieldTotalMessages = "total_messages"
)

func sessionKey(id string) string {
	return keySessionPrefix + id
}
