package domain

// Edge is one arc of the flow graph, used for introspection and diagrams.
type Edge struct {
	From      StateID `json:"from" yaml:"from"`
	To        StateID `json:"to" yaml:"to"`
	Condition string  `json:"condition,omitempty" yaml:"condition,omitempty"`
}
