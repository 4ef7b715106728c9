package webhook

import (
	"io"
	"mime"
	"net/http"

	toyyibpay "github.com/Afterkelas/toyyibpay-go"
)

// ProcessRequest runs the pipeline on an inbound HTTP request. JSON bodies
// are processed as raw bytes; form-encoded bodies (the gateway's default
// callback encoding) are converted to a map first. Request headers are
// passed through for signature verification.
func (h *Handler) ProcessRequest(r *http.Request) (*toyyibpay.CallbackData, error) {
	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		var err error
		if mediaType == "multipart/form-data" {
			err = r.ParseMultipartForm(1 << 20)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return nil, toyyibpay.NewWebhookError("Invalid form payload: "+err.Error(), err)
		}
		data := make(map[string]interface{}, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) > 0 {
				data[k] = vs[0]
			}
		}
		return h.ProcessMap(data, headers)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, toyyibpay.NewWebhookError("Failed to read request body: "+err.Error(), err)
	}
	return h.Process(body, headers)
}
