package api

import (
	"embed"
	"io/fs"
)

//go:embed static
var embedded embed.FS

// staticFiles holds the browser client served at /.
var staticFiles = mustSub(embedded, "static")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
