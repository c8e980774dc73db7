package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// DistServer serves an embedded asset directory. urlPrefix is stripped
// from incoming paths before the lookup; subdir roots the lookup inside
// fsys. The subdirectory must exist at build time, so a bad name panics
// at module construction rather than surfacing per request.
func DistServer(fsys embed.FS, subdir, urlPrefix string) http.HandlerFunc {
	assets, err := fs.Sub(fsys, subdir)
	if err != nil {
		panic("embedded asset directory missing: " + err.Error())
	}

	return http.StripPrefix(urlPrefix, http.FileServer(http.FS(assets))).ServeHTTP
}

// ServeEmbeddedFile serves one fixed byte payload under the given
// content type. The payload is compiled in, so clients may cache it for
// the life of the deployment.
func ServeEmbeddedFile(data []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
