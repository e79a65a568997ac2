// Package renderer turns the fetched collections into the README markdown.
package renderer

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/profile-readme/readme-gen/model"
)

// TimestampLayout is the layout of the "last updated" line, e.g. Wednesday, 14 October, 13:05 GMT+0000
const TimestampLayout = "Monday, 2 January, 15:04 GMT-0700"

// DesertedRow replaces the table body when there is no project
const DesertedRow = "|*It's deserted here… 😔*|🏜️|🌃|"

const readmeTemplate = `# {{ .Greeting }}
{{ .Intro }}
### Technologies I use
{{ range .Technologies }}![{{ .Name }}]({{ .Badge }}) {{ end }}
### Things I'm learning
{{ range .Learning }}![{{ .Name }}]({{ .Badge }}) {{ end }}
### Current Projects
|📖 Projects|⭐ Stars|🍴 Forks|
|---|---|---|
{{ range .Projects }}|[{{ .Name }}]({{ .URL }})|{{ .StargazerCount }}|{{ .ForkCount }}|
{{ else }}` + DesertedRow + `
{{ end }}
### Stats
![GitHub stats]({{ .Footer.StatsURL }})
![Tracking]({{ .Footer.TrackingWidgetURL }})

<sub>Last updated on {{ .GeneratedAt }}</sub>

[{{ .Footer.ClosingText }}]({{ .Footer.ClosingURL }})
`

var readme = template.Must(template.New("readme").Parse(readmeTemplate))

// Render builds the whole document, nothing is returned on failure
func Render(page model.Page) (string, error) {
	buf := new(bytes.Buffer)

	if err := readme.Execute(buf, page); err != nil {
		return "", fmt.Errorf("unable to render readme: %w", err)
	}

	return buf.String(), nil
}

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
