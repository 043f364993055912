package web

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var embedded embed.FS

// Static returns the browser assets (app.js, app.css) rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
