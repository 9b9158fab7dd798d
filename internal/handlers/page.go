package handlers

import (
	"html/template"

	"sevenguis/internal/models"
	"sevenguis/internal/services"
)

const (
	validBackground   = "white"
	invalidBackground = "#ef9a9a"
)

type fieldData struct {
	Text       string
	Background string
}

type pageData struct {
	ID         string
	Count      int
	Celsius    fieldData
	Fahrenheit fieldData
}

func fieldFor(d models.Display) fieldData {
	bg := validBackground
	if !d.Valid {
		bg = invalidBackground
	}
	return fieldData{Text: d.Text, Background: bg}
}

func newPageData(snap services.MountSnapshot) pageData {
	return pageData{
		ID:         snap.ID,
		Count:      snap.Count,
		Celsius:    fieldFor(snap.Temperature.Celsius),
		Fahrenheit: fieldFor(snap.Temperature.Fahrenheit),
	}
}

// Each input event sends the whole field text. Requests are chained so the
// server applies edits in the order the browser dispatched them.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>7GUIs</title>
    <style>
        body { font-family: sans-serif; margin: 2em; }
        label { display: block; margin: 0.5em 0; }
        input { padding: 0.25em; }
    </style>
</head>
<body>
    <h2>7GUIs</h2>

    <h2>Counter</h2>
    <label>
        Count <p></p>
        <input id="count" type="text" readonly value="{{.Count}}">
        <button id="add" type="button">Add</button>
    </label>

    <h2>Temperature Converter</h2>
    <label>
        Celsius
        <input id="temp_c" type="text" style="background-color: {{.Celsius.Background}}" value="{{.Celsius.Text}}">
    </label>
    <label>
        Fahrenheit
        <input id="temp_f" type="text" style="background-color: {{.Fahrenheit.Background}}" value="{{.Fahrenheit.Text}}">
    </label>

    <script>
        const base = "/api/widgets/" + {{.ID}};
        let queue = Promise.resolve();

        function post(path, body) {
            const next = queue.then(function () {
                return fetch(base + path, {
                    method: "POST",
                    headers: { "Content-Type": "application/json" },
                    body: JSON.stringify(body || {})
                }).then(function (res) { return res.ok ? res.json() : null; });
            });
            queue = next.catch(function () {});
            return next;
        }

        function paint(el, display) {
            el.value = display.text;
            el.style.backgroundColor = display.valid ? "white" : "#ef9a9a";
        }

        function bind(id, unit) {
            document.getElementById(id).addEventListener("input", function (event) {
                post("/temperature", { unit: unit, text: event.target.value }).then(function (snap) {
                    if (!snap) { return; }
                    paint(document.getElementById("temp_c"), snap.celsius);
                    paint(document.getElementById("temp_f"), snap.fahrenheit);
                });
            });
        }

        bind("temp_c", "celsius");
        bind("temp_f", "fahrenheit");

        document.getElementById("add").addEventListener("click", function () {
            post("/counter/increment").then(function (res) {
                if (res) { document.getElementById("count").value = res.count; }
            });
        });

        window.addEventListener("pagehide", function () {
            fetch(base, { method: "DELETE", keepalive: true });
        });
    </script>
</body>
</html>`))
