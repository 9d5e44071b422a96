//go:generate go tool stringer -type=Kind

package seminars

type Kind int

const (
	WORKSHOP Kind = iota
	EVENT
)

// Registrable reports whether people can sign up for this kind of seminar.
// Plain calendar events are listed but have no registration flow.
func (k Kind) Registrable() bool {
	return k == WORKSHOP
}
