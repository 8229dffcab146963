// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"
)

const (
	// wordsPerMinute is the reading speed used for reading_minutes.
	wordsPerMinute = 200

	excerptWords = 40
	excerptRunes = 280

	// blockElements get a trailing space so adjacent blocks do not merge words.
	blockElements = "p, h1, h2, h3, h4, h5, h6, li, td, th, br, div, blockquote, pre"
)

// markdown renders article sources. Raw HTML is kept since only the admin writes.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, meta.Meta),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderMarkdown converts Markdown to HTML. Front matter is dropped.
func RenderMarkdown(source string) (string, error) {
	var buffer bytes.Buffer
	if err := markdown.Convert([]byte(source), &buffer); err != nil {
		return "", fmt.Errorf("article: render markdown: %w", err)
	}
	return buffer.String(), nil
}

// ToMarkdown converts stored HTML back to Markdown for export.
func ToMarkdown(content string) (string, error) {
	converted, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("article: convert to markdown: %w", err)
	}
	return converted, nil
}

// plainText extracts the visible text of an HTML fragment.
func plainText(content string) (string, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("article: parse html: %w", err)
	}

	document.Find("script, style").Remove()
	document.Find(blockElements).AppendHtml(" ")
	return strings.Join(strings.Fields(document.Text()), " "), nil
}

// readingMinutes is never below one for non-empty text.
func readingMinutes(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// excerptOf cuts text at a word boundary and appends an ellipsis when shortened.
func excerptOf(text string) string {
	words := strings.Fields(text)

	var (
		builder strings.Builder
		length  int
	)
	for index, word := range words {
		size := utf8.RuneCountInString(word)
		if index == 0 && size > excerptRunes {
			// A single overlong token such as a URL is cut mid-word.
			return string([]rune(word)[:excerptRunes]) + "…"
		}
		if index > 0 {
			size++
		}
		if index == excerptWords || length+size > excerptRunes {
			return builder.String() + "…"
		}
		if index > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(word)
		length += size
	}
	return builder.String()
}

// # Front Matter Import

/*
ParseMarkdown reads a Markdown file with YAML front matter into an [Input].

Recognized keys: title, slug, excerpt, cover, tags, categories, published,
featured. Tags and categories may be a list or a comma separated string.

Example:

	---
	title: Hello
	tags: [Go, Rust]
	---
	# Hello
*/
func ParseMarkdown(source []byte) (*Input, error) {
	var buffer bytes.Buffer
	parserContext := parser.NewContext()
	if err := markdown.Convert(source, &buffer, parser.WithContext(parserContext)); err != nil {
		return nil, fmt.Errorf("article: render markdown: %w", err)
	}

	fields, err := meta.TryGet(parserContext)
	if err != nil {
		return nil, fmt.Errorf("article: front matter: %w", err)
	}

	input := &Input{
		Title:      stringField(fields, "title"),
		Slug:       stringField(fields, "slug"),
		Excerpt:    stringField(fields, "excerpt"),
		Content:    buffer.String(),
		Format:     FormatHTML,
		Tags:       listField(fields, "tags"),
		Categories: listField(fields, "categories"),
		Published:  boolField(fields, "published"),
		Featured:   boolField(fields, "featured"),
	}
	if cover := stringField(fields, "cover"); cover != "" {
		input.CoverURL = &cover
	}
	return input, nil
}

// frontMatter is the YAML header written by [ExportMarkdown]. Keys match
// what [ParseMarkdown] reads.
type frontMatter struct {
	Title      string   `yaml:"title"`
	Slug       string   `yaml:"slug"`
	Excerpt    string   `yaml:"excerpt,omitempty"`
	Cover      string   `yaml:"cover,omitempty"`
	Tags       []string `yaml:"tags,flow"`
	Categories []string `yaml:"categories,flow"`
	Published  bool     `yaml:"published"`
	Featured   bool     `yaml:"featured"`
}

// ExportMarkdown renders an article as a Markdown document with front matter,
// the inverse of [ParseMarkdown].
func ExportMarkdown(article *Article) ([]byte, error) {
	body, err := ToMarkdown(article.Content)
	if err != nil {
		return nil, err
	}

	header := frontMatter{
		Title:      article.Title,
		Slug:       article.Slug,
		Excerpt:    article.Excerpt,
		Tags:       nonNil(article.Tags),
		Categories: nonNil(article.Categories),
		Published:  article.Published,
		Featured:   article.Featured,
	}
	if article.CoverURL != nil {
		header.Cover = *article.CoverURL
	}

	encoded, err := yaml.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("article: encode front matter: %w", err)
	}

	var document bytes.Buffer
	document.WriteString("---\n")
	document.Write(encoded)
	document.WriteString("---\n\n")
	document.WriteString(strings.TrimSpace(body))
	document.WriteString("\n")
	return document.Bytes(), nil
}

func stringField(fields map[string]any, key string) string {
	if value, ok := fields[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func boolField(fields map[string]any, key string) bool {
	value, _ := fields[key].(bool)
	return value
}

func listField(fields map[string]any, key string) []string {
	switch value := fields[key].(type) {
	case string:
		names := strings.Split(value, ",")
		for index := range names {
			names[index] = strings.TrimSpace(names[index])
		}
		return names
	case []any:
		names := make([]string, 0, len(value))
		for _, item := range value {
			if name, ok := item.(string); ok {
				names = append(names, name)
			}
		}
		return names
	}
	return nil
}
