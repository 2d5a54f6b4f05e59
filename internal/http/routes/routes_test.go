package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	scs "github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/pokedex/cache"
	"github.com/briangreenhill/pokedex/internal/dex"
	"github.com/briangreenhill/pokedex/internal/pokeapitest"
	"github.com/briangreenhill/pokedex/pokeapi"
	"github.com/briangreenhill/pokedex/web"
)

type testApp struct {
	catalog *pokeapitest.Server
	server  *Server
	http    *httptest.Server
}

func newTestApp(t *testing.T, dexOpts ...dex.Option) *testApp {
	t.Helper()
	catalog := pokeapitest.NewServer(pokeapi.DefaultTotal)
	t.Cleanup(catalog.Close)

	client := pokeapi.New(
		pokeapi.WithBaseURL(catalog.BaseURL()),
		pokeapi.WithHTTPClient(catalog.Client()),
		pokeapi.WithCache(cache.NewMemory()),
	)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	s := New(ServerOptions{
		Sess:     scs.New(),
		Tmpl:     tmpl,
		Resolver: client,
		Logger:   zerolog.Nop(),
		Dex:      dexOpts,
	})
	ts := httptest.NewServer(s.Router)
	t.Cleanup(ts.Close)
	return &testApp{catalog: catalog, server: s, http: ts}
}

// browser returns a client that keeps its session cookie, like a browser tab.
func (a *testApp) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodeView(t *testing.T, resp *http.Response) dex.View {
	t.Helper()
	defer resp.Body.Close() //nolint:errcheck
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var v dex.View
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.http.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body(t, resp))
	assert.Equal(t, 0, app.server.Viewers.Len(), "health checks do not create viewers")
}

func TestHomeRendersFirstPage(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.browser(t).Get(app.http.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	html := body(t, resp)
	assert.Contains(t, html, "Bulbasaur")
	assert.Contains(t, html, "Blastoise")
	assert.Contains(t, html, "Page 1 of 114")
	assert.NotContains(t, html, "Pokémon not found.")
	assert.Equal(t, 1, app.server.Viewers.Len())
}

func TestNextRedirectsToHome(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	_, err := b.Get(app.http.URL + "/")
	require.NoError(t, err)

	resp, err := b.PostForm(app.http.URL+"/next", nil)
	require.NoError(t, err)
	assert.Equal(t, "/", resp.Request.URL.Path, "the POST is followed by a 303 to /")
	html := body(t, resp)
	assert.Contains(t, html, "Page 2 of 114")
	assert.Contains(t, html, "Mon10")

	resp, err = b.PostForm(app.http.URL+"/prev", nil)
	require.NoError(t, err)
	assert.Contains(t, body(t, resp), "Page 1 of 114")
}

func TestSearchNotFoundPage(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	resp, err := b.PostForm(app.http.URL+"/search", url.Values{"q": {"doesnotexist12345"}})
	require.NoError(t, err)
	html := body(t, resp)
	assert.Contains(t, html, "Pokémon not found.")
	assert.Contains(t, html, `value="doesnotexist12345"`)
	assert.NotContains(t, html, "Bulbasaur")
}

func TestHomePrefillsQuery(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	resp, err := b.Get(app.http.URL + "/?q=char")
	require.NoError(t, err)
	html := body(t, resp)
	assert.Contains(t, html, `value="char"`)
	assert.Contains(t, html, "Bulbasaur", "the page is still shown")
	assert.Equal(t, 0, app.catalog.Hits("/api/v2/pokemon-species/char"), "nothing is searched")

	v := decodeView(t, must(b.Get(app.http.URL+"/api/view")))
	assert.Equal(t, "char", v.Query)
	assert.False(t, v.NotFound)
}

func TestAPISearchAndClear(t *testing.T) {
	app := newTestApp(t)
	b := app.browser(t)

	v := decodeView(t, must(b.PostForm(app.http.URL+"/api/search", url.Values{"q": {"Pikachu"}})))
	require.Len(t, v.Entries, 1)
	assert.Equal(t, 25, v.Entries[0].ID)
	assert.Equal(t, []string{"electric"}, v.Entries[0].Types)
	assert.False(t, v.NotFound)

	v = decodeView(t, must(b.PostForm(app.http.URL+"/api/search", url.Values{"q": {""}})))
	assert.Len(t, v.Entries, 9)
	assert.Equal(t, 1, v.Entries[0].ID)
}

func TestViewersAreIsolated(t *testing.T) {
	app := newTestApp(t)
	first, second := app.browser(t), app.browser(t)

	v := decodeView(t, must(first.PostForm(app.http.URL+"/api/next", nil)))
	assert.Equal(t, 9, v.Offset)

	v = decodeView(t, must(second.Get(app.http.URL+"/api/view")))
	assert.Equal(t, 0, v.Offset)
	assert.Equal(t, 1, v.CurrentPage)

	v = decodeView(t, must(first.Get(app.http.URL+"/api/view")))
	assert.Equal(t, 9, v.Offset)
	assert.Equal(t, 2, app.server.Viewers.Len())
}

func TestViewersShareTheEntryCache(t *testing.T) {
	app := newTestApp(t)

	decodeView(t, must(app.browser(t).Get(app.http.URL+"/api/view")))
	hits := app.catalog.TotalHits()
	require.Equal(t, 18, hits)

	v := decodeView(t, must(app.browser(t).Get(app.http.URL+"/api/view")))
	assert.Len(t, v.Entries, 9)
	assert.Equal(t, hits, app.catalog.TotalHits())
}

func TestAPIPrevAtStartIsNoop(t *testing.T) {
	app := newTestApp(t)

	v := decodeView(t, must(app.browser(t).PostForm(app.http.URL+"/api/prev", nil)))
	assert.Equal(t, 0, v.Offset)
	assert.False(t, v.HasPrev)
	assert.Len(t, v.Entries, 9)
}

func TestAPINextAtEndIsNoop(t *testing.T) {
	app := newTestApp(t, dex.WithTotal(18))
	b := app.browser(t)

	v := decodeView(t, must(b.PostForm(app.http.URL+"/api/next", nil)))
	assert.Equal(t, 9, v.Offset)
	assert.Equal(t, 2, v.TotalPages)
	assert.False(t, v.HasNext)
	assert.Equal(t, 10, v.Entries[0].ID)

	v = decodeView(t, must(b.PostForm(app.http.URL+"/api/next", nil)))
	assert.Equal(t, 9, v.Offset)
}

func must(resp *http.Response, err error) *http.Response {
	if err != nil {
		panic(err)
	}
	return resp
}
