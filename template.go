package readmecat

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ErrMissingValues is the error returned when a template doesn't completely
// render due to placeholders with no resolved value. Nothing is written to
// the renderer in that case.
var ErrMissingValues = errors.New("missing template values")

// placeholderRe matches one {{...}} token. The inner text may not contain
// braces or newlines, which keeps unbalanced and nested brace sequences
// inert instead of swallowing half the document.
var placeholderRe = regexp.MustCompile(`\{\{([^{}\r\n]+)\}\}`)

// Template is the internal representation of an individual document to
// process. The template retains the relationship between its contents and
// is responsible for its own execution.
type Template struct {
	// template name, appended to ID
	name string

	// contents is the raw document text with embedded placeholders.
	contents string

	// hexMD5 stores the hex version of the MD5
	hexMD5 string

	// placeholders caches the extracted token list.
	placeholders []string

	// Renderer is the default renderer used for this template
	renderer Renderer
}

// Renderer defines the interface used to render (output) a template.
// FileRenderer implements this to write to disk.
type Renderer interface {
	Render(contents []byte) (RenderResult, error)
}

// Recaller is the read interface for resolved placeholder values.
// Implemented by the substitution map the Resolver builds during a run.
type Recaller func(token string) (value string, found bool)

// TemplateInput is used as input when creating the template.
type TemplateInput struct {
	// Optional name for the template. Appended to the ID.
	Name string

	// Contents are the raw template contents.
	Contents string

	// Renderer is the default renderer used for this template
	Renderer Renderer
}

// NewTemplate creates a new Template and extracts its placeholders.
func NewTemplate(i TemplateInput) *Template {
	var t Template
	t.name = i.Name
	t.contents = i.Contents
	t.renderer = i.Renderer
	t.placeholders = extractPlaceholders(t.contents)

	// Compute the MD5, encode as hex
	hash := md5.Sum([]byte(t.contents))
	t.hexMD5 = hex.EncodeToString(hash[:])

	return &t
}

// ID returns the identifier for this template.
func (t *Template) ID() string {
	if t.name != "" {
		return t.hexMD5 + "_" + t.name
	}
	return t.hexMD5
}

// Placeholders returns the unique raw tokens of the template in order of
// first appearance. The braces are already stripped.
func (t *Template) Placeholders() []string {
	return t.placeholders
}

// extractPlaceholders scans the contents for {{...}} tokens. Repeated
// tokens collapse to one entry; relative ordering is preserved.
func extractPlaceholders(contents string) []string {
	matches := placeholderRe.FindAllStringSubmatch(contents, -1)
	set := newTokenSet()
	for _, m := range matches {
		set.Add(m[1])
	}
	return set.List()
}

// Execute substitutes every placeholder with its value from the recaller
// and returns the final document. All occurrences of a token are replaced
// literally in a single pass over the original text, so substituted values
// are never re-scanned even when they contain something that looks like a
// placeholder. If any token has no value the document cannot be trusted and
// nothing is returned but ErrMissingValues.
func (t *Template) Execute(rec Recaller) ([]byte, error) {
	var missing []string
	pairs := make([]string, 0, len(t.placeholders)*2)
	for _, token := range t.placeholders {
		value, ok := rec(token)
		if !ok {
			missing = append(missing, token)
			continue
		}
		pairs = append(pairs, "{{"+token+"}}", value)
	}

	if len(missing) > 0 {
		return nil, errors.Wrap(ErrMissingValues, strings.Join(missing, ", "))
	}

	// Token texts cannot contain braces, so no pattern overlaps another and
	// replacement order does not matter.
	return []byte(strings.NewReplacer(pairs...).Replace(t.contents)), nil
}

// Render calls the stored Renderer with the passed content
func (t *Template) Render(content []byte) (RenderResult, error) {
	return t.renderer.Render(content)
}
