// internal/app/features/smswebhook/twiml.go
package smswebhook

import (
	"encoding/xml"
	"net/http"
)

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// writeTwiML answers the webhook with a TwiML envelope. An empty
// message means "reply with nothing" and still must be a 200 with a
// well-formed <Response/>.
func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/xml")

	body, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		// Marshal of this struct cannot fail; keep the gateway happy
		// anyway.
		body = []byte("<Response></Response>")
	}
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(body)
}
