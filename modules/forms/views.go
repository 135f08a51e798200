package forms

import (
	"time"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// FormInfo is an entry of the form listing.
type FormInfo struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// FormView describes the rules of one form.
type FormView struct {
	Name   string           `json:"name"`
	Fields validator.Config `json:"fields"`
}

// ValidationView is the outcome of validating a whole record.
type ValidationView struct {
	Valid  bool              `json:"valid"`
	Fields validator.Results `json:"fields"`
}

// SessionView is the client-facing form of a stored session.
type SessionView struct {
	ID        string              `json:"id"`
	Form      string              `json:"form"`
	Lang      string              `json:"lang,omitempty"`
	Valid     bool                `json:"valid"`
	Initial   validator.Record    `json:"initial"`
	Values    validator.Record    `json:"values"`
	Errors    map[string][]string `json:"errors"`
	Touched   map[string]bool     `json:"touched"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func newSessionView(st form.State) SessionView {
	return SessionView{
		ID:        st.ID,
		Form:      st.Form,
		Lang:      st.Lang,
		Valid:     st.Valid(),
		Initial:   st.Initial,
		Values:    st.Values,
		Errors:    st.Errors,
		Touched:   st.Touched,
		UpdatedAt: st.UpdatedAt,
	}
}
