package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		md       string
		contains []string
		excludes []string
	}{
		{
			name: "Empty",
			md:   "",
		},
		{
			name:     "Emphasis",
			md:       "Dark **70%** cacao",
			contains: []string{"<p>Dark <strong>70%</strong> cacao</p>"},
		},
		{
			name:     "List",
			md:       "- hazelnut\n- sea salt\n",
			contains: []string{"<ul>", "<li>hazelnut</li>", "<li>sea salt</li>"},
		},
		{
			name:     "ScriptStripped",
			md:       "Tasty <script>alert(1)</script>",
			excludes: []string{"<script>"},
		},
		{
			name:     "JavascriptLinkStripped",
			md:       "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "LinkKept",
			md:       "[origin](https://example.com/cacao)",
			contains: []string{`href="https://example.com/cacao"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := r.Render(tt.md)
			if tt.md == "" {
				assert.Empty(t, html)
			}
			for _, s := range tt.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, html, s)
			}
		})
	}
}
