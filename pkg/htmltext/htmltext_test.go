package htmltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFragmentFallsBackToTextNodes(t *testing.T) {
	doc, err := Extract([]byte(`<div>Hi team,<br>budget <b>approved</b>.<script>var x=1</script></div>`), "body.html")
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "Hi team,")
	assert.Contains(t, doc.Text, "budget approved")
	assert.NotContains(t, doc.Text, "var x")
}

func TestExtractArticle(t *testing.T) {
	para := strings.Repeat("The quarterly review covered renewal terms and onboarding for the new region. ", 12)
	page := `<html><head><title>QBR notes</title></head><body>
<nav>Home | About</nav>
<article><h1>QBR notes</h1><p>` + para + `</p><p>` + para + `</p></article>
</body></html>`

	doc, err := Extract([]byte(page), "qbr notes.html")
	require.NoError(t, err)
	assert.Equal(t, "QBR notes", doc.Title)
	assert.Contains(t, doc.Text, "renewal terms")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a b\nc", Normalize("  a   b \r\n\n\t c  "))
	assert.Equal(t, "", Normalize(" \n \n"))
}
