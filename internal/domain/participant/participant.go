package participant

// Participant is a person registered under an event in the document store.
// It is read-only to this service.
type Participant struct {
	ID        string `json:"participant_id"`
	Name      string `json:"participant_name"`
	Email     string `json:"participant_email"`
	EventName string `json:"event_name"`
}

// Event groups participants. Data is whatever the store holds on the event
// document and is passed through untouched.
type Event struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Data map[string]any `json:"data"`
}

// NewFromDocument builds a participant from a raw document, tolerating
// missing or non-string name/email fields.
func NewFromDocument(id, eventName string, data map[string]any) Participant {
	return Participant{
		ID:        id,
		Name:      stringField(data, "participant_name"),
		Email:     stringField(data, "participant_email"),
		EventName: eventName,
	}
}

func stringField(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || v == nil {
		return ""
	}

	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
