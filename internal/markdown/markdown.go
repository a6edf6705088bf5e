// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders the site's long-form pages (about, terms,
// privacy, cookies) from embedded Markdown using goldmark.
package markdown

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

//go:embed pages/*.md
var pagesFS embed.FS

// ErrNoPage is returned by Load for a name with no Markdown source.
var ErrNoPage = errors.New("markdown page not found")

// md is the configured goldmark instance, reused across calls. Raw HTML is
// not passed through.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// Document is a rendered page.
type Document struct {
	Name  string
	Title string // text of the first level-one heading
	Body  template.HTML
}

// ToHTML converts Markdown source into HTML.
func ToHTML(source []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Load renders the embedded page pages/<name>.md.
func Load(name string) (*Document, error) {
	if strings.ContainsAny(name, "/\\.") {
		return nil, ErrNoPage
	}
	src, err := pagesFS.ReadFile("pages/" + name + ".md")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoPage
	}
	if err != nil {
		return nil, fmt.Errorf("read page %s: %w", name, err)
	}

	body, err := ToHTML(src)
	if err != nil {
		return nil, err
	}
	return &Document{Name: name, Title: title(src), Body: body}, nil
}

// Names lists the embedded page names, sorted.
func Names() []string {
	entries, _ := pagesFS.ReadDir("pages")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	return names
}

func title(src []byte) string {
	for line := range strings.SplitSeq(string(src), "\n") {
		if t, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return ""
}
