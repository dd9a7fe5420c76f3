package server

const uiPageCSS = `
    :root {
      --bg: #f4f1ec;
      --card: #ffffff;
      --ink: #1f2326;
      --muted: #5d646b;
      --line: #d9d3c9;
      --accent: #b4541a;
      --code-bg: #1e2429;
      --code-ink: #e9eef2;
    }
    * { box-sizing: border-box; }
    body { margin: 0; background: var(--bg); color: var(--ink); font: 15px/1.5 system-ui, -apple-system, "Segoe UI", sans-serif; }
    main { max-width: 880px; margin: 0 auto; padding: 24px 16px 48px; }
    .card { background: var(--card); border: 1px solid var(--line); border-radius: 12px; padding: 18px; margin-bottom: 16px; }
    h1 { margin: 0 0 4px; font-size: 28px; }
    h2 { margin: 0 0 12px; font-size: 18px; }
    p { margin: 0 0 10px; color: var(--muted); }
    a { color: var(--accent); }
    nav a { margin-right: 14px; }
    input[type=search] { width: 100%; border: 1px solid var(--line); border-radius: 8px; padding: 9px 12px; font-size: 15px; }
    .search-results { list-style: none; padding: 0; margin: 12px 0 0; }
    .search-result { border-top: 1px solid var(--line); padding: 8px 0; }
    .search-title { font-weight: 600; }
    .search-description { color: var(--muted); font-size: 14px; }
    .code-head { display: flex; justify-content: space-between; align-items: center; margin-bottom: 6px; }
    pre { background: var(--code-bg); color: var(--code-ink); border-radius: 8px; padding: 12px; overflow: auto; margin: 0; }
    button { border: 1px solid var(--accent); background: #fff; color: var(--accent); border-radius: 8px; padding: 6px 12px; cursor: pointer; }
    button:hover { background: var(--accent); color: #fff; }
`

const homeHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta name="description" content="Welding engineering guides, articles and tools" />
  <title>{{.SiteName}}</title>
  <style>
` + uiPageCSS + `
  </style>
  <script src="/assets/site.js" defer></script>
</head>
<body>
  <main>
    <div class="card">
      <h1>{{.SiteName}}</h1>
      <p>Welding engineering guides, articles and tools.</p>
      <nav>
        <a href="/guides/mig/introduction/">Guides</a>
        <a href="/articles/standards/aws-d1-1/">Articles</a>
        <a href="/tools/heat-input-simulator/">Tools</a>
        <a href="/about/">About</a>
        <a href="/fr/">Français</a>
      </nav>
    </div>
    <div class="card">
      <h2>Search</h2>
      <input id="search-input" type="search" placeholder="Search guides, e.g. aluminium" autocomplete="off" data-catalog="{{.CatalogURL}}" />
      <ul id="search-results" class="search-results"></ul>
    </div>
    <div class="card">
      <div class="code-head">
        <h2>Heat input</h2>
        <button id="copy-btn" type="button">Copy</button>
      </div>
      <pre id="code-block"><code>def heat_input(volts, amps, travel_mm_per_min, efficiency=0.8):
    """Arc heat input in kJ/mm."""
    return efficiency * volts * amps * 60 / (1000 * travel_mm_per_min)</code></pre>
    </div>
  </main>
</body>
</html>
`

const notFoundHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta name="robots" content="noindex" />
  <title>Page not found | {{.SiteName}}</title>
  <style>
` + uiPageCSS + `
  </style>
  <script src="/assets/site.js" defer></script>
</head>
<body>
  <main>
    <div class="card">
      <h1>Page not found</h1>
      <p>The page you were looking for does not exist or has moved.</p>
      <p><a href="/">Back to {{.SiteName}}</a></p>
    </div>
    <div class="card">
      <h2>Search the site</h2>
      <input id="search-input" type="search" placeholder="Search guides" autocomplete="off" data-catalog="{{.CatalogURL}}" />
      <ul id="search-results" class="search-results"></ul>
    </div>
  </main>
</body>
</html>
`
