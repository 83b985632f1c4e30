package render

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #1f2328; line-height: 1.6; }
    h1 { border-bottom: 1px solid #d0d7de; padding-bottom: .3em; }
    h2 { margin-top: 2em; border-bottom: 1px solid #eaeef2; padding-bottom: .2em; }
    pre { background: #f6f8fa; padding: 1em; overflow-x: auto; border-radius: 6px; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #d0d7de; padding: .4em .8em; }
    .meta { color: #656d76; font-size: .9em; }
    .chat h3 { font-size: 1em; color: #656d76; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated {{.GeneratedAt}}</p>
  <main class="draft">
{{.Draft}}
  </main>
{{- if .HasChat}}
  <section class="chat">
    <h2>Conversation</h2>
{{.Chat}}
  </section>
{{- end}}
</body>
</html>
`
