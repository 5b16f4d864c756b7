// Package web embeds the single-page frontend served at "/".
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

func StaticFS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
