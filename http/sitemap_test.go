package http_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fwojciec/pagemd"
	pagemdhttp "github.com/fwojciec/pagemd/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urlset(locs ...string) string {
	s := `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, loc := range locs {
		s += "<url><loc>" + loc + "</loc></url>"
	}
	return s + "</urlset>"
}

func TestSitemapSource_Discover_uses_robots_directives(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			fmt.Fprintf(w, "User-agent: *\nSitemap: %s/pages.xml\n", srv.URL)
		case "/pages.xml":
			fmt.Fprint(w, urlset(srv.URL+"/a", srv.URL+"/b"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := pagemdhttp.NewSitemapSource(srv.Client())
	urls, err := src.Discover(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/a", srv.URL + "/b"}, urls)
}

func TestSitemapSource_Discover_falls_back_to_sitemap_xml(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprint(w, urlset(srv.URL+"/only"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := pagemdhttp.NewSitemapSource(srv.Client())
	urls, err := src.Discover(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/only"}, urls)
}

func TestSitemapSource_Discover_no_sitemaps_yields_empty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src := pagemdhttp.NewSitemapSource(srv.Client())
	urls, err := src.Discover(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestSitemapSource_Discover_follows_sitemap_index(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprintf(w, `<?xml version="1.0"?><sitemapindex><sitemap><loc>%s/one.xml</loc></sitemap><sitemap><loc>%s/two.xml</loc></sitemap></sitemapindex>`, srv.URL, srv.URL)
		case "/one.xml":
			fmt.Fprint(w, urlset(srv.URL+"/p1", srv.URL+"/shared"))
		case "/two.xml":
			fmt.Fprint(w, urlset(srv.URL+"/p2", srv.URL+"/shared"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := pagemdhttp.NewSitemapSource(srv.Client())
	urls, err := src.Discover(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/p1", srv.URL + "/shared", srv.URL + "/p2"}, urls,
		"duplicate pages across sitemaps appear once")
}

func TestSitemapSource_Discover_self_referencing_index_terminates(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprintf(w, `<?xml version="1.0"?><sitemapindex><sitemap><loc>%s/sitemap.xml</loc></sitemap></sitemapindex>`, srv.URL)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := pagemdhttp.NewSitemapSource(srv.Client())
	urls, err := src.Discover(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestSitemapSource_Discover_filters_by_path_prefix(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sitemap.xml":
			fmt.Fprint(w, urlset(srv.URL+"/blog/post-1", srv.URL+"/about", srv.URL+"/blog/post-2"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := pagemdhttp.NewSitemapSource(srv.Client())
	urls, err := src.Discover(context.Background(), srv.URL+"/blog")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/blog/post-1", srv.URL + "/blog/post-2"}, urls)
}

func TestSitemapSource_Discover_rejects_invalid_base_url(t *testing.T) {
	t.Parallel()

	src := pagemdhttp.NewSitemapSource(nil)
	_, err := src.Discover(context.Background(), "://not-a-url")
	require.Error(t, err)
	assert.Equal(t, pagemd.EINVALID, pagemd.ErrorCode(err))
}

func TestSitemapSource_Discover_honors_cancelled_context(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := pagemdhttp.NewSitemapSource(nil)
	_, err := src.Discover(ctx, "https://example.com")
	require.Error(t, err)
}
