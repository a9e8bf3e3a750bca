package main

// indexHTML is a minimal chat page for trying the API from a browser.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tourli</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; }
#log p { margin: .4rem 0; }
.user { color: #555; }
.info { color: #246; font-size: .9em; }
</style>
</head>
<body>
<h1>Tourli</h1>
<div id="log"></div>
<form id="f"><input id="m" size="50" autocomplete="off" placeholder="Ask about travel in Morocco"><button>Send</button></form>
<script>
const log = document.getElementById("log");
document.getElementById("f").onsubmit = async (e) => {
  e.preventDefault();
  const m = document.getElementById("m");
  const text = m.value;
  m.value = "";
  log.insertAdjacentHTML("beforeend", "<p class=user></p>");
  log.lastChild.textContent = text;
  const res = await fetch("/api/chat?format=html", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({message: text}),
  });
  const body = await res.json();
  const p = document.createElement("p");
  if (body.response_html) { p.innerHTML = body.response_html; } else { p.textContent = body.response || body.error; }
  log.appendChild(p);
  if (body.city_info && body.city_info !== body.response) {
    const info = document.createElement("p");
    info.className = "info";
    info.textContent = body.city_info;
    log.appendChild(info);
  }
};
</script>
</body>
</html>
`
