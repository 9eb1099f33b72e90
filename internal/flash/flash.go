// Package flash holds the one-shot notifications shown on the next page.
package flash

type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
)

type Toast struct {
	Kind Kind
	Text string
}
