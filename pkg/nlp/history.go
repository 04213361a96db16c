package nlp

// History is the append-only turn log of one conversation, oldest first.
type History []Turn

func (h *History) Append(turns ...Turn) {
	*h = append(*h, turns...)
}

func (h History) Len() int {
	return len(h)
}

func (h History) Last() (Turn, bool) {
	if len(h) == 0 {
		return Turn{}, false
	}
	return h[len(h)-1], true
}

func (t Turn) payload() string {
	switch t.Role {
	case RoleAssistant:
		return t.Text
	case RoleModelReference:
		return t.Model
	default:
		return ""
	}
}

// LastModel walks the history backwards and returns the most recently
// discussed model.
func LastModel(history History, catalog *Catalog) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		text := history[i].payload()
		if text == "" {
			continue
		}
		if m, ok := catalog.mentionedIn(text); ok {
			return m.Name, true
		}
	}
	return "", false
}
