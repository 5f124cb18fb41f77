package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"PreprintScanner/internal/domain"
)

const listing = `
<dl>
  <dt>
    <a href="/abs/2502.00001" title="Abstract" id="2502.00001">arXiv:2502.00001</a>
    [<a href="/pdf/2502.00001" title="Download PDF">pdf</a>]
  </dt>
  <dd>
    <div class="list-title"><span class="descriptor">Title:</span> Command Line Entry</div>
    <div class="list-authors">Dana Fox</div>
    <div class="list-comments"><span class="descriptor">Comments:</span> To be accepted at ICLR</div>
    <div class="list-subjects"><span class="descriptor">Subjects:</span> Software Engineering (cs.SE)</div>
  </dd>
</dl>`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "preprintscanner dev\n", out)
}

func TestRunCommandPrintsSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listing))
	}))
	defer server.Close()

	t.Setenv("LISTING_URL", server.URL)
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "articles.db"))
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, "run", "--capacity", "2")
	require.NoError(t, err)

	var records []domain.ArticleRecord
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "2502.00001", records[0].ExternalID)
	assert.Equal(t, "Command Line Entry", records[0].Title)
	assert.Equal(t, domain.PopularityNotice, records[0].Popularity)
}
