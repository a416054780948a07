package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	out := Render("Nettles are **rich** in iron.")
	require.Contains(t, out, "<strong>rich</strong>")

	out = Render("hello <script>alert(1)</script>")
	require.NotContains(t, out, "<script>")

	out = Render("[Kew](https://www.kew.org)")
	require.Contains(t, out, `target="_blank"`)

	require.Empty(t, Render(""))
}
