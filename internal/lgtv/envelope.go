package lgtv

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

const (
	apiTypePairing = "pairing"
	apiTypeCommand = "command"
)

func escape(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails when the writer does
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// showKeyEnvelope asks the TV to display its pairing key on screen
func showKeyEnvelope() string {
	return fmt.Sprintf(`%s<envelope><api type="%s"><name>showKey</name></api></envelope>`,
		xmlDeclaration, apiTypePairing)
}

// helloEnvelope submits the pairing key the user read off the screen
func helloEnvelope(pairingKey string, localPort int) string {
	return fmt.Sprintf(`%s<envelope><api type="%s"><name>hello</name><value>%s</value><port>%s</port></api></envelope>`,
		xmlDeclaration, apiTypePairing, escape(pairingKey), strconv.Itoa(localPort))
}

// keyInputEnvelope presses one remote control key
func keyInputEnvelope(code int) string {
	return fmt.Sprintf(`%s<envelope><api type="%s"><name>HandleKeyInput</name><value>%d</value></api></envelope>`,
		xmlDeclaration, apiTypeCommand, code)
}

// Envelope is the decoded form of a UDAP request envelope
type Envelope struct {
	XMLName xml.Name `xml:"envelope"`
	API     struct {
		Type  string `xml:"type,attr"`
		Name  string `xml:"name"`
		Value string `xml:"value"`
		Port  string `xml:"port"`
	} `xml:"api"`
}

// ParseEnvelope decodes a UDAP request body
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode UDAP envelope: %w", err)
	}
	return &env, nil
}
