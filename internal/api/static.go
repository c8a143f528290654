// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"
	"os"
	"path/filepath"
)

// newStaticHandler serves the bundled single-page UI out of dir, falling
// through to index.html for any path that doesn't name a real file — the
// client-side router owns everything that isn't a known asset.
func newStaticHandler(dir string) http.Handler {
	fileServer := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requested := filepath.Join(dir, filepath.Clean(request.URL.Path))

		info, err := os.Stat(requested)
		if err != nil || info.IsDir() {
			http.ServeFile(writer, request, filepath.Join(dir, "index.html"))
			return
		}

		fileServer.ServeHTTP(writer, request)
	})
}
