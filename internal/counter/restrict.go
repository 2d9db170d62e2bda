package counter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	everyoneTag  = "@all"
	payloadDelim = "|"
)

var (
	ErrMalformedPayload  = errors.New("malformed callback payload")
	ErrMalformedRestrict = errors.New("malformed restrict field")
)

// Restrict names who may press a counter's buttons: everyone, or one user.
type Restrict struct {
	userID   int64
	everyone bool
}

var Everyone = Restrict{everyone: true}

func OnlyUser(id int64) Restrict { return Restrict{userID: id} }

// ParseRestrict reads "@all" or a decimal user id.
func ParseRestrict(text string) (Restrict, error) {
	if text == everyoneTag {
		return Everyone, nil
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Restrict{}, fmt.Errorf("%w: %q", ErrMalformedRestrict, text)
	}
	return OnlyUser(id), nil
}

// Allows reports whether userID may operate the counter.
func (r Restrict) Allows(userID int64) bool {
	return r.everyone || r.userID == userID
}

func (r Restrict) IsEveryone() bool { return r.everyone }

func (r Restrict) String() string {
	if r.everyone {
		return everyoneTag
	}
	return strconv.FormatInt(r.userID, 10)
}

// Payload is the callback data of a counter button: "<state>|<restrict>".
type Payload struct {
	State    string
	Restrict Restrict
}

func NewPayload(s State, r Restrict) Payload {
	return Payload{State: Render(s), Restrict: r}
}

// ParsePayload splits data on its last "|". The state part is kept as is.
func ParsePayload(data string) (Payload, error) {
	i := strings.LastIndex(data, payloadDelim)
	if i < 0 {
		return Payload{}, fmt.Errorf("%w: no %q in %q", ErrMalformedPayload, payloadDelim, data)
	}
	restrict, err := ParseRestrict(data[i+len(payloadDelim):])
	if err != nil {
		return Payload{}, err
	}
	return Payload{State: data[:i], Restrict: restrict}, nil
}

func (p Payload) String() string {
	return p.State + payloadDelim + p.Restrict.String()
}
