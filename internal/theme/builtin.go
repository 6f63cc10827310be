package theme

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed builtin
var builtinFS embed.FS

type builtin struct {
	fsys fs.FS
}

// Builtin returns the theme compiled into the binary.
func Builtin() Source {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return &builtin{fsys: sub}
}

func (b *builtin) Layout(name string) (string, error) {
	return b.read(name, "layout/"+name+".html", ErrLayoutNotFound)
}

func (b *builtin) Stylesheet(name string) (string, error) {
	return b.read(name, "source/css/"+name+".css", ErrStylesheetNotFound)
}

func (b *builtin) read(name, file string, notFound error) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(b.fsys, file)
	if err != nil {
		return "", fmt.Errorf("%w: %q", notFound, name)
	}
	return string(data), nil
}
