// Package render formats call results and failures for the terminal.
package render

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/vnmchuo/openrouter-cli/internal/provider"
)

// PreviewDims is how many embedding dimensions are printed.
const PreviewDims = 5

type Renderer struct {
	w       io.Writer
	heading *color.Color
	muted   *color.Color
	failure *color.Color
	warning *color.Color
}

func New(w io.Writer, noColor bool) *Renderer {
	r := &Renderer{
		w:       w,
		heading: color.New(color.FgCyan, color.Bold),
		muted:   color.New(color.FgHiBlack),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
	}
	if noColor {
		for _, c := range []*color.Color{r.heading, r.muted, r.failure, r.warning} {
			c.DisableColor()
		}
	}
	return r
}

func (r *Renderer) Completion(content string, tokens int, cost float64) {
	fmt.Fprintf(r.w, "%s\n%s\n", r.heading.Sprint("Response:"), content)
	r.usage(tokens, cost)
}

// Embedding prints at most PreviewDims leading dimensions of vector.
func (r *Renderer) Embedding(vector []float64, tokens int, cost float64) {
	n := min(len(vector), PreviewDims)
	parts := make([]string, n)
	for i, v := range vector[:n] {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	fmt.Fprintf(r.w, "%s [%s]\n",
		r.heading.Sprintf("Embedding (first %d of %d dimensions):", n, len(vector)),
		strings.Join(parts, ", "))
	r.usage(tokens, cost)
}

// Failure reports err for op, keeping transport and response-shape problems apart.
func (r *Renderer) Failure(op string, err error) {
	var te *provider.TransportError
	var ue *provider.UnexpectedResponseError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintf(r.w, "%s %v\n", r.warning.Sprintf("Unexpected response structure during %s:", op), err)
	case errors.As(err, &te):
		fmt.Fprintf(r.w, "%s %v\n", r.failure.Sprintf("Error during %s:", op), err)
	case errors.Is(err, provider.ErrInvalidRequest):
		fmt.Fprintf(r.w, "%s %v\n", r.failure.Sprintf("Invalid %s request:", op), err)
	default:
		fmt.Fprintf(r.w, "%s %v\n", r.failure.Sprintf("Error during %s:", op), err)
	}
}

func (r *Renderer) usage(tokens int, cost float64) {
	fmt.Fprintln(r.w, r.muted.Sprintf("Tokens used: %d, Estimated Cost: $%.4f", tokens, cost))
}
