package moira

import "strings"

const (
	// DefaultTag is appended to every trigger and to the default subscription.
	DefaultTag = "MONAD"

	actionHeader = "[action]\n"
)

// DefaultContacts is the level 1 subscription added to every trigger set.
var DefaultContacts = []Contact{
	{Type: "slack", Value: "#spb_monitoring"},
	{Type: "jira", Value: "group_spb_monitoring"},
}

// descriptionFixes strips formatting artifacts of Grafana alert messages.
var descriptionFixes = strings.NewReplacer(
	"<v", "<",
	" \n", "\n",
)

// NewTriggerSet returns an empty trigger set.
func NewTriggerSet() *TriggerSet {
	return &TriggerSet{Triggers: make([]Trigger, 0)}
}

// AddTrigger appends t with the action header, description fixes and the
// organisation tag applied. t itself is not modified.
func (s *TriggerSet) AddTrigger(t Trigger, tag string) {
	t.Desc = Description(descriptionFixes.Replace(actionHeader + string(t.Desc)))
	t.Tags = withTag(t.Tags, tag)
	s.Triggers = append(s.Triggers, t)
}

// SetDefaultAlerting replaces the subscriptions with a single one for tags plus tag.
func (s *TriggerSet) SetDefaultAlerting(tags []string, tag string, contacts []Contact) {
	if len(contacts) == 0 {
		contacts = DefaultContacts
	}
	s.Alerting = []Subscription{{
		Tags:     withTag(tags, tag),
		Contacts: append([]Contact(nil), contacts...),
	}}
}

func withTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	if tag != "" {
		out = append(out, tag)
	}
	return out
}
