package models

// Ack is the result of a mutation that returns no entity. Warnings carry
// non-fatal problems such as an incomplete cascade.
type Ack struct {
	Message  string      `json:"message"`
	Warnings []*AppError `json:"-"`
}

// NewAck returns an Ack with the given message.
func NewAck(message string) *Ack {
	return &Ack{Message: message}
}

// Warn attaches a warning and returns the Ack.
func (a *Ack) Warn(w *AppError) *Ack {
	if w != nil {
		a.Warnings = append(a.Warnings, w)
	}
	return a
}

// WarningCodes lists the codes of attached warnings.
func (a *Ack) WarningCodes() []string {
	codes := make([]string, 0, len(a.Warnings))
	for _, w := range a.Warnings {
		codes = append(codes, w.Code)
	}
	return codes
}
