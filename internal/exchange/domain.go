package exchange

import "groundchat/internal/domain"

// fallbackError is reported when a failure carries no description.
const fallbackError = "An unknown error occurred."

// Result is the outcome of one exchange. Exactly one of the two shapes is
// populated: Text/Sources on success, Error on failure. It is consumed once
// by the caller to build the next message and is never stored.
type Result struct {
	Text    string          `json:"text,omitempty"`
	Sources []domain.Source `json:"sources,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Failed reports whether the exchange ended in an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

func failure(err error) Result {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = fallbackError
	}
	return Result{Error: msg}
}
