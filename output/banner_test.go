package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestASCIILogoNotEmpty(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(ASCIILogo()))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "whyx v1.2.3")
}

func TestCompactBanner(t *testing.T) {
	assert.Equal(t, "whyx v0.9.0", CompactBanner("0.9.0"))
}
