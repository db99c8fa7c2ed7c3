package filesystem

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"go.uber.org/zap"
)

// AssetPrefix is the URL path under which the webview loads data dir files.
const AssetPrefix = "/appdata/"

func assetURL(rel string) string {
	return (&url.URL{Path: AssetPrefix + rel}).EscapedPath()
}

// AssetURL returns the URL the webview loads rel from.
func (p *Plugin) AssetURL(rel string) (string, error) {
	abs, err := p.Resolve(rel)
	if err != nil {
		return "", err
	}
	return assetURL(relPath(p.root, abs)), nil
}

// Configure routes asset server requests below AssetPrefix to the data dir.
func (p *Plugin) Configure(app *options.App) {
	if app.AssetServer == nil {
		app.AssetServer = &assetserver.Options{}
	}
	app.AssetServer.Handler = p.Handler(app.AssetServer.Handler)
}

// Handler serves files of the data dir below AssetPrefix and passes every
// other request to next. A nil next answers 404.
func (p *Plugin) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel, ok := strings.CutPrefix(r.URL.Path, AssetPrefix)
		if !ok {
			if next != nil {
				next.ServeHTTP(w, r)
				return
			}
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		abs, err := p.Resolve(rel)
		if errors.Is(err, ErrOutsideScope) {
			p.log.Warn("asset request outside scope", zap.String("path", r.URL.Path))
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		if err != nil {
			http.NotFound(w, r)
			return
		}

		f, err := os.Open(abs)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		fi, err := f.Stat()
		if err != nil || fi.IsDir() {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
	})
}
