package moira

import "gopkg.in/yaml.v3"

// TTLState is the state a Moira trigger falls into when its metrics stop arriving.
type TTLState string

const (
	TTLStateError  TTLState = "ERROR"
	TTLStateNoData TTLState = "NODATA"
	TTLStateOK     TTLState = "OK"
)

// ScreenshotAction is the saturation type attaching a rendered panel to notifications.
const ScreenshotAction = "take-screenshot"

// Trigger is one Moira trigger as written to the trigger-set file.
type Trigger struct {
	Name            string       `json:"name" yaml:"name"`
	Desc            Description  `json:"desc" yaml:"desc"`
	Targets         []string     `json:"targets" yaml:"targets"`
	TTL             int64        `json:"ttl" yaml:"ttl"`
	TTLState        TTLState     `json:"ttl_state" yaml:"ttl_state"`
	Expression      string       `json:"expression" yaml:"expression"`
	Dashboard       string       `json:"dashboard" yaml:"dashboard"`
	PendingInterval int64        `json:"pending_interval" yaml:"pending_interval"`
	Tags            []string     `json:"tags" yaml:"tags"`
	Saturation      []Saturation `json:"saturation,omitempty" yaml:"saturation,omitempty"`
}

type Saturation struct {
	Type       string               `json:"type" yaml:"type"`
	Parameters SaturationParameters `json:"parameters" yaml:"parameters"`
}

type SaturationParameters struct {
	URL     string `json:"url" yaml:"url"`
	Caption string `json:"caption" yaml:"caption"`
}

// TriggerSet is the document consumed by Moira's trigger provisioning.
type TriggerSet struct {
	Triggers []Trigger      `json:"triggers" yaml:"triggers"`
	Alerting []Subscription `json:"alerting,omitempty" yaml:"alerting,omitempty"`
}

type Subscription struct {
	Tags     []string  `json:"tags" yaml:"tags"`
	Contacts []Contact `json:"contacts" yaml:"contacts"`
}

type Contact struct {
	Type  string `json:"type" yaml:"type" mapstructure:"type"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
}

// Description renders as a literal block so multi-line messages stay readable.
type Description string

func (d Description) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Value: string(d),
		Style: yaml.LiteralStyle,
		Tag:   "!!str",
	}, nil
}
