package handlers

import (
	"bytes"
	"html/template"
)

var popupTemplate = template.Must(template.New("github_popup").Parse(`<!DOCTYPE html>
<html>
  <head>
    <title>GitHub Connection</title>
  </head>
  <body>
    <script>
      if (window.opener) {
        window.opener.postMessage({{.Payload}}, window.location.origin);
      }
      window.close();
    </script>
    <p>{{.Message}}</p>
    <p>This window will close automatically...</p>
  </body>
</html>
`))

type popupData struct {
	Payload map[string]any
	Message string
}

func renderPopupSuccess(username string) ([]byte, error) {
	return renderPopup(popupData{
		Payload: map[string]any{"success": true, "username": username},
		Message: "GitHub connected successfully!",
	})
}

func renderPopupError(message string) ([]byte, error) {
	return renderPopup(popupData{
		Payload: map[string]any{"success": false, "error": message},
		Message: "Error: " + message,
	})
}

func renderPopup(data popupData) ([]byte, error) {
	var buf bytes.Buffer
	if err := popupTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
