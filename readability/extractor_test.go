package readability_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/pagemd"
	"github.com/fwojciec/pagemd/mock"
	"github.com/fwojciec/pagemd/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>Test Article</h1>
<p>This is the first paragraph of the article body, long enough for the
content scorer to treat it as real text rather than boilerplate.</p>
<p>A second paragraph keeps the scorer happy and gives the extractor a
reason to pick the article element over the navigation above.</p>
</article>
<footer>Copyright</footer>
</body>
</html>`

func TestExtractor_Extract_returns_main_content(t *testing.T) {
	t.Parallel()

	e := readability.NewExtractor()
	result, err := e.Extract(articleHTML)
	require.NoError(t, err)

	assert.Equal(t, "Test Article", result.Title)
	assert.Contains(t, result.ContentHTML, "first paragraph")
	assert.NotContains(t, result.ContentHTML, "Copyright")
}

func TestExtractor_Extract_rejects_empty_input(t *testing.T) {
	t.Parallel()

	e := readability.NewExtractor()
	_, err := e.Extract("")
	require.Error(t, err)
	assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
}

func TestFallback_uses_primary_result_when_it_has_content(t *testing.T) {
	t.Parallel()

	primary := &mock.Extractor{
		ExtractFn: func(string) (*pagemd.ExtractResult, error) {
			return &pagemd.ExtractResult{Title: "Primary", ContentHTML: "<p>hit</p>"}, nil
		},
	}
	secondary := &mock.Extractor{
		ExtractFn: func(string) (*pagemd.ExtractResult, error) {
			t.Fatal("secondary should not run")
			return nil, nil
		},
	}

	f := readability.NewFallback(primary, secondary)
	result, err := f.Extract("<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "Primary", result.Title)
}

func TestFallback_runs_secondary_on_primary_error(t *testing.T) {
	t.Parallel()

	primary := &mock.Extractor{
		ExtractFn: func(string) (*pagemd.ExtractResult, error) {
			return nil, pagemd.Errorf(pagemd.EINTERNAL, "primary broke")
		},
	}
	secondary := &mock.Extractor{
		ExtractFn: func(string) (*pagemd.ExtractResult, error) {
			return &pagemd.ExtractResult{Title: "Secondary", ContentHTML: "<p>rescued</p>"}, nil
		},
	}

	f := readability.NewFallback(primary, secondary)
	result, err := f.Extract("<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "Secondary", result.Title)
}

func TestFallback_runs_secondary_on_empty_primary_content(t *testing.T) {
	t.Parallel()

	primary := &mock.Extractor{
		ExtractFn: func(string) (*pagemd.ExtractResult, error) {
			return &pagemd.ExtractResult{Title: "Primary", ContentHTML: "   \n"}, nil
		},
	}
	secondary := &mock.Extractor{
		ExtractFn: func(string) (*pagemd.ExtractResult, error) {
			return &pagemd.ExtractResult{Title: "Secondary", ContentHTML: "<p>rescued</p>"}, nil
		},
	}

	f := readability.NewFallback(primary, secondary)
	result, err := f.Extract("<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "Secondary", result.Title)
}

func TestFallback_propagates_secondary_error(t *testing.T) {
	t.Parallel()

	broken := &mock.Extractor{
		ExtractFn: func(string) (*pagemd.ExtractResult, error) {
			return nil, pagemd.Errorf(pagemd.EINTERNAL, "no extractor worked")
		},
	}

	f := readability.NewFallback(broken, broken)
	_, err := f.Extract(strings.Repeat("<div></div>", 3))
	require.Error(t, err)
}
