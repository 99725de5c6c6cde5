package server

const indexHTML = `<!DOCTYPE html>
<html>
<head>
  <title>FinSight</title>
  <style>
    body { font-family: sans-serif; max-width: 640px; margin: 40px auto; }
    textarea, input { width: 100%; margin-bottom: 12px; padding: 8px; }
    button { padding: 8px 24px; }
    pre { white-space: pre-wrap; background: #f4f4f4; padding: 12px; }
  </style>
</head>
<body>
  <h1>FinSight</h1>
  <form method="post" action="/generate-response">
    <label for="query">Your financial question</label>
    <textarea id="query" name="query" rows="4" placeholder="Is Apple overvalued compared to one year ago?"></textarea>
    <label for="company">Ticker symbol</label>
    <input id="company" name="company" value="AAPL">
    <button type="submit">Analyze</button>
  </form>
</body>
</html>
`
