package output

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// PrintBanner displays the whyx logo and version. Intended for the version
// command on interactive terminals; non-TTY callers should prefer
// CompactBanner.
func PrintBanner(w io.Writer, version string) {
	if w == nil {
		return
	}
	fmt.Fprintln(w, ASCIILogo())
	fmt.Fprintf(w, "whyx v%s\n", version)
}

// ASCIILogo generates the ASCII art logo.
func ASCIILogo() string {
	fig := figure.NewFigure("whyx", "standard", true)
	return fig.String()
}

// CompactBanner returns a single-line banner for non-TTY output.
func CompactBanner(version string) string {
	return fmt.Sprintf("whyx v%s", version)
}
